package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of ScamReportStore and
// AnalysisStore, used when no database is configured and in tests.
type MemoryStore struct {
	mu       sync.Mutex
	reports  map[string]ScamReport
	analyses []AnalysisRecord
	nextID   int64
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reports: make(map[string]ScamReport),
		nextID:  1,
	}
}

// GetScamReport fetches the report filed for an address.
func (m *MemoryStore) GetScamReport(ctx context.Context, address string) (ScamReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	report, ok := m.reports[strings.ToLower(address)]
	if !ok {
		return ScamReport{}, ErrReportNotFound
	}
	return report, nil
}

// PutScamReport inserts or replaces the report for an address.
func (m *MemoryStore) PutScamReport(ctx context.Context, report ScamReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	report.Address = strings.ToLower(report.Address)
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	m.reports[report.Address] = report
	return nil
}

// InsertAnalysis records one completed analysis.
func (m *MemoryStore) InsertAnalysis(ctx context.Context, record AnalysisRecord) (AnalysisRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record.Address = strings.ToLower(record.Address)
	record.ID = m.nextID
	m.nextID++
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	m.analyses = append(m.analyses, record)
	return record, nil
}

// ListAnalysesFor lists an address's analyses since a point in time, oldest
// first.
func (m *MemoryStore) ListAnalysesFor(ctx context.Context, address string, since time.Time) ([]AnalysisRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	address = strings.ToLower(address)
	records := make([]AnalysisRecord, 0)
	for _, record := range m.analyses {
		if record.Address == address && !record.CreatedAt.Before(since) {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

// ListRecentAnalyses lists the most recent analyses across all addresses.
func (m *MemoryStore) ListRecentAnalyses(ctx context.Context, limit int) ([]AnalysisRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]AnalysisRecord, len(m.analyses))
	copy(records, m.analyses)
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

var (
	_ ScamReportStore = (*MemoryStore)(nil)
	_ AnalysisStore   = (*MemoryStore)(nil)
	_ ScamReportStore = (*Store)(nil)
	_ AnalysisStore   = (*Store)(nil)
	_ AdvisoryLocker  = (*Store)(nil)
)
