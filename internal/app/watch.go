package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"rugshield/internal/analysis"
	"rugshield/internal/scheduler"
	"rugshield/internal/service"
)

// Watch runs the periodic re-analysis loop over the configured watch list.
func (a *App) Watch(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if len(a.Config.Watch.Addresses) == 0 {
		return fmt.Errorf("watch.addresses is empty")
	}

	st, err := a.openStores(ctx)
	if err != nil {
		return err
	}
	if st.close != nil {
		defer st.close()
	}

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Watch.Interval,
		AlignToStart: a.Config.Watch.AlignToStart,
		StartupDelay: a.Config.Watch.StartupDelay,
	}, a.Logger)

	watcher := service.NewWatcher(a.newAnalyzer(st), sched, a.newNotifier(), st.history, st.locker,
		service.WatchOptions{
			Addresses:       a.Config.Watch.Addresses,
			MinSeverity:     analysis.RiskLevel(a.Config.Watch.MinSeverity),
			AdvisoryLockKey: a.Config.Watch.AdvisoryLockKey,
		}, a.Logger)

	a.Logger.Info().Int("addresses", len(a.Config.Watch.Addresses)).Msg("starting watch loop")
	err = watcher.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("watch loop terminated with error")
		return err
	}

	a.Logger.Info().Msg("watch loop stopped")
	return nil
}
