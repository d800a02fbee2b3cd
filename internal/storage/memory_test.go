package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMemoryStoreScamReports(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.GetScamReport(ctx, "0xabc"); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}

	report := ScamReport{
		Address:         "0xABC",
		Type:            "honeypot",
		Severity:        "high",
		Description:     "cannot sell",
		WarningSigns:    []string{"trapped liquidity"},
		Recommendations: []string{"do not buy"},
		Source:          "community",
		ReportedDate:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := store.PutScamReport(ctx, report); err != nil {
		t.Fatalf("put: %v", err)
	}

	// Lookups are case-insensitive on the address.
	got, err := store.GetScamReport(ctx, "0xabc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Type != "honeypot" || got.Address != "0xabc" {
		t.Fatalf("unexpected report: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should be stamped on insert")
	}

	// Put replaces.
	report.Severity = "critical"
	_ = store.PutScamReport(ctx, report)
	got, _ = store.GetScamReport(ctx, "0xABC")
	if got.Severity != "critical" {
		t.Fatalf("expected replaced severity, got %q", got.Severity)
	}
}

func TestMemoryStoreAnalyses(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := store.InsertAnalysis(ctx, AnalysisRecord{
			Address:   "0xAAA",
			Symbol:    "TKN",
			RiskLevel: "low",
			MarketCap: decimal.NewFromInt(int64(1_000_000 + i)),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	_, _ = store.InsertAnalysis(ctx, AnalysisRecord{Address: "0xBBB", RiskLevel: "high", CreatedAt: base})

	records, err := store.ListAnalysesFor(ctx, "0xaaa", base.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records inside the window, got %d", len(records))
	}
	if !records[0].CreatedAt.Before(records[1].CreatedAt) {
		t.Fatal("records should be ordered oldest first")
	}

	recent, err := store.ListRecentAnalyses(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected limit to apply, got %d", len(recent))
	}
	if recent[0].CreatedAt.Before(recent[1].CreatedAt) {
		t.Fatal("recent records should be ordered newest first")
	}
}

func TestMemoryStoreConcurrentWrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _ = store.InsertAnalysis(ctx, AnalysisRecord{Address: fmt.Sprintf("0x%040d", n)})
			_ = store.PutScamReport(ctx, ScamReport{Address: fmt.Sprintf("0x%040d", n)})
		}(i)
	}
	wg.Wait()

	records, err := store.ListRecentAnalyses(ctx, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(records) != 20 {
		t.Fatalf("expected 20 records, got %d", len(records))
	}

	seen := make(map[int64]struct{}, len(records))
	for _, record := range records {
		if _, dup := seen[record.ID]; dup {
			t.Fatalf("duplicate id %d", record.ID)
		}
		seen[record.ID] = struct{}{}
	}
}
