package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"rugshield/internal/alerting"
	"rugshield/internal/analysis"
	"rugshield/internal/storage"
)

type fakeNotifier struct {
	notes []alerting.Notification
	err   error
}

func (f *fakeNotifier) Notify(ctx context.Context, note alerting.Notification) error {
	f.notes = append(f.notes, note)
	return f.err
}

func riskySnapshot() analysis.TokenSnapshot {
	return analysis.NewTokenSnapshot(testAddress, "TKN", "Token",
		decimal.NewFromFloat(0.001), decimal.NewFromInt(50_000), decimal.Zero,
		50, "", analysis.SourceMarket)
}

func TestProcessTickAlertsOnRiskChange(t *testing.T) {
	store := storage.NewMemoryStore()
	// Seed a previous low-risk record so the high result is a change.
	_, _ = store.InsertAnalysis(context.Background(), storage.AnalysisRecord{
		Address:   testAddress,
		RiskLevel: string(analysis.RiskLow),
	})

	fetcher := &fakeFetcher{snap: riskySnapshot()}
	analyzer := NewAnalyzer(fetcher, nil, store, nil, Options{}, zerolog.Nop())
	notifier := &fakeNotifier{}

	w := NewWatcher(analyzer, nil, notifier, store, nil,
		WatchOptions{Addresses: []string{testAddress}}, zerolog.Nop())

	if err := w.ProcessTick(context.Background(), time.Now()); err != nil {
		t.Fatalf("tick failed: %v", err)
	}

	if len(notifier.notes) != 1 {
		t.Fatalf("expected one alert, got %d", len(notifier.notes))
	}
	note := notifier.notes[0]
	if note.Previous != analysis.RiskLow || note.Current != analysis.RiskHigh {
		t.Fatalf("unexpected transition: %s -> %s", note.Previous, note.Current)
	}
	if note.Message == "" {
		t.Fatal("change alerts should carry the rendered markdown body")
	}
}

func TestProcessTickSeverityGate(t *testing.T) {
	fetcher := &fakeFetcher{snap: riskySnapshot()}
	analyzer := NewAnalyzer(fetcher, nil, nil, nil, Options{}, zerolog.Nop())

	// First tick with no previous level and no severity floor: quiet.
	quiet := &fakeNotifier{}
	w := NewWatcher(analyzer, nil, quiet, nil, nil,
		WatchOptions{Addresses: []string{testAddress}}, zerolog.Nop())
	_ = w.ProcessTick(context.Background(), time.Now())
	if len(quiet.notes) != 0 {
		t.Fatalf("no change and no floor should not alert, got %d", len(quiet.notes))
	}

	// With a floor at high, the high result alerts even without a change.
	loud := &fakeNotifier{}
	w = NewWatcher(analyzer, nil, loud, nil, nil,
		WatchOptions{Addresses: []string{testAddress}, MinSeverity: analysis.RiskHigh}, zerolog.Nop())
	_ = w.ProcessTick(context.Background(), time.Now())
	if len(loud.notes) != 1 {
		t.Fatalf("severity floor should alert, got %d", len(loud.notes))
	}
	if loud.notes[0].Message != "" {
		t.Fatal("severity-only alerts use the plain rendering")
	}
}

func TestProcessTickTracksChangesInMemory(t *testing.T) {
	fetcher := &fakeFetcher{snap: riskySnapshot()}
	analyzer := NewAnalyzer(fetcher, nil, nil, nil, Options{}, zerolog.Nop())
	notifier := &fakeNotifier{}

	w := NewWatcher(analyzer, nil, notifier, nil, nil,
		WatchOptions{Addresses: []string{testAddress}}, zerolog.Nop())

	_ = w.ProcessTick(context.Background(), time.Now())
	if len(notifier.notes) != 0 {
		t.Fatalf("first observation is not a change, got %d alerts", len(notifier.notes))
	}

	// The token recovers: change from high to minimal should alert.
	fetcher.snap = healthySnapshot()
	_ = w.ProcessTick(context.Background(), time.Now())
	if len(notifier.notes) != 1 {
		t.Fatalf("expected change alert, got %d", len(notifier.notes))
	}
	if notifier.notes[0].Current != analysis.RiskMinimal {
		t.Fatalf("unexpected current level %s", notifier.notes[0].Current)
	}
}

func TestRunRequiresConfiguration(t *testing.T) {
	analyzer := NewAnalyzer(&fakeFetcher{}, nil, nil, nil, Options{}, zerolog.Nop())

	w := NewWatcher(analyzer, nil, nil, nil, nil, WatchOptions{Addresses: []string{testAddress}}, zerolog.Nop())
	if err := w.Run(context.Background()); err == nil {
		t.Fatal("missing scheduler should error")
	}
}
