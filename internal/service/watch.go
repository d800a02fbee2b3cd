package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"rugshield/internal/alerting"
	"rugshield/internal/analysis"
	"rugshield/internal/report"
	"rugshield/internal/scheduler"
	"rugshield/internal/storage"
)

// WatchOptions configure the periodic re-analysis loop.
type WatchOptions struct {
	Addresses []string
	// MinSeverity is the lowest risk level that alerts on its own, without
	// a level change.
	MinSeverity analysis.RiskLevel
	// AdvisoryLockKey guards against concurrent watchers when a database
	// locker is available. Zero disables locking.
	AdvisoryLockKey int64
}

// Watcher re-analyzes a fixed set of addresses on a schedule and alerts on
// risk changes.
type Watcher struct {
	analyzer  *Analyzer
	scheduler *scheduler.Scheduler
	notifier  alerting.Notifier
	history   storage.AnalysisStore
	locker    storage.AdvisoryLocker
	opts      WatchOptions
	logger    zerolog.Logger

	// lastRisk falls back to in-process change tracking when no history
	// store is configured.
	lastRisk map[string]analysis.RiskLevel
}

// NewWatcher constructs the watch loop. notifier, history, and locker may be
// nil.
func NewWatcher(analyzer *Analyzer, sched *scheduler.Scheduler, notifier alerting.Notifier, history storage.AnalysisStore, locker storage.AdvisoryLocker, opts WatchOptions, logger zerolog.Logger) *Watcher {
	return &Watcher{
		analyzer:  analyzer,
		scheduler: sched,
		notifier:  notifier,
		history:   history,
		locker:    locker,
		opts:      opts,
		logger:    logger.With().Str("component", "watcher").Logger(),
		lastRisk:  make(map[string]analysis.RiskLevel),
	}
}

// Run begins the watch loop.
func (w *Watcher) Run(ctx context.Context) error {
	if w.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	if len(w.opts.Addresses) == 0 {
		return fmt.Errorf("watch list is empty")
	}
	return w.scheduler.Run(ctx, w.ProcessTick)
}

// ProcessTick re-analyzes the watch list once.
func (w *Watcher) ProcessTick(ctx context.Context, tick time.Time) error {
	unlock, proceed, err := w.acquireLock(ctx)
	if err != nil {
		return err
	}
	if !proceed {
		w.logger.Debug().Time("tick", tick).Msg("skip tick because advisory lock held elsewhere")
		return nil
	}
	if unlock != nil {
		defer unlock()
	}

	for _, address := range w.opts.Addresses {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.processAddress(ctx, tick, address)
	}
	return nil
}

func (w *Watcher) processAddress(ctx context.Context, tick time.Time, address string) {
	previous := w.previousRisk(ctx, address)

	result, err := w.analyzer.Analyze(ctx, address)
	if err != nil {
		w.logger.Error().Err(err).Str("address", address).Msg("watch analysis failed")
		return
	}

	current := result.Risk.OverallRisk
	w.lastRisk[address] = current

	changed := previous != "" && previous != current
	severe := w.opts.MinSeverity != "" && current.Severity() >= w.opts.MinSeverity.Severity()
	if !changed && !severe {
		return
	}
	if w.notifier == nil {
		return
	}

	note := alerting.Notification{
		At:       tick,
		Address:  address,
		Symbol:   result.Snapshot.Symbol,
		Previous: previous,
		Current:  current,
		Factors:  result.Risk.RiskFactors,
	}
	if changed {
		note.Message = report.RiskChangeAlert(address, result.Snapshot.Symbol, previous, current)
	}
	if err := w.notifier.Notify(ctx, note); err != nil {
		w.logger.Error().Err(err).Str("address", address).Msg("failed to dispatch risk alert")
	}
}

// previousRisk reads the last recorded level, preferring the history store
// over the in-process map.
func (w *Watcher) previousRisk(ctx context.Context, address string) analysis.RiskLevel {
	if w.history != nil {
		records, err := w.history.ListAnalysesFor(ctx, address, time.Time{})
		if err != nil {
			w.logger.Warn().Err(err).Str("address", address).Msg("history lookup failed")
		} else if len(records) > 0 {
			return analysis.RiskLevel(records[len(records)-1].RiskLevel)
		}
	}
	return w.lastRisk[address]
}

func (w *Watcher) acquireLock(ctx context.Context) (func(), bool, error) {
	if w.opts.AdvisoryLockKey == 0 || w.locker == nil {
		return nil, true, nil
	}
	unlock, acquired, err := w.locker.TryAdvisoryLock(ctx, w.opts.AdvisoryLockKey)
	if err != nil {
		return nil, false, fmt.Errorf("acquire advisory lock: %w", err)
	}
	if !acquired {
		return nil, false, nil
	}
	return unlock, true, nil
}
