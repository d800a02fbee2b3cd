package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
	// ErrReportNotFound indicates the address has no scam report on file.
	ErrReportNotFound = errors.New("storage: scam report not found")
)

const (
	upsertScamReportSQL = `INSERT INTO scam_reports (
        address,
        report_type,
        severity,
        description,
        warning_signs,
        recommendations,
        source,
        reported_date
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8
    )
    ON CONFLICT (address) DO UPDATE
    SET
        report_type     = EXCLUDED.report_type,
        severity        = EXCLUDED.severity,
        description     = EXCLUDED.description,
        warning_signs   = EXCLUDED.warning_signs,
        recommendations = EXCLUDED.recommendations,
        source          = EXCLUDED.source,
        reported_date   = EXCLUDED.reported_date;`

	getScamReportSQL = `SELECT
        address,
        report_type,
        severity,
        description,
        warning_signs,
        recommendations,
        source,
        reported_date,
        created_at
    FROM scam_reports
    WHERE address = $1;`

	insertAnalysisSQL = `INSERT INTO analyses (
        address,
        symbol,
        risk_level,
        factor_count,
        market_cap,
        volume_24h,
        holders
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7
    )
    RETURNING id, created_at;`

	listAnalysesForSQL = `SELECT
        id,
        address,
        symbol,
        risk_level,
        factor_count,
        market_cap,
        volume_24h,
        holders,
        created_at
    FROM analyses
    WHERE address = $1
      AND created_at >= $2
    ORDER BY created_at;`

	listRecentAnalysesSQL = `SELECT
        id,
        address,
        symbol,
        risk_level,
        factor_count,
        market_cap,
        volume_24h,
        holders,
        created_at
    FROM analyses
    ORDER BY created_at DESC
    LIMIT $1;`

	tryAdvisoryLockSQL = `SELECT pg_try_advisory_lock($1);`
	advisoryUnlockSQL  = `SELECT pg_advisory_unlock($1);`
)

// ScamReportStore defines operations for the scam report registry.
type ScamReportStore interface {
	GetScamReport(ctx context.Context, address string) (ScamReport, error)
	PutScamReport(ctx context.Context, report ScamReport) error
}

// AnalysisStore defines operations for analysis history.
type AnalysisStore interface {
	InsertAnalysis(ctx context.Context, record AnalysisRecord) (AnalysisRecord, error)
	ListAnalysesFor(ctx context.Context, address string, since time.Time) ([]AnalysisRecord, error)
	ListRecentAnalyses(ctx context.Context, limit int) ([]AnalysisRecord, error)
}

// AdvisoryLocker exposes advisory lock helpers.
type AdvisoryLocker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (unlock func(), acquired bool, err error)
}

// Store aggregates access to scam reports and analysis history. Addresses
// are normalised to lower case on the way in.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// GetScamReport fetches the report filed for an address.
func (s *Store) GetScamReport(ctx context.Context, address string) (ScamReport, error) {
	pool, err := s.getPool()
	if err != nil {
		return ScamReport{}, err
	}

	row := pool.QueryRow(ctx, getScamReportSQL, strings.ToLower(address))

	var report ScamReport
	if scanErr := row.Scan(
		&report.Address,
		&report.Type,
		&report.Severity,
		&report.Description,
		&report.WarningSigns,
		&report.Recommendations,
		&report.Source,
		&report.ReportedDate,
		&report.CreatedAt,
	); scanErr != nil {
		if errors.Is(scanErr, pgx.ErrNoRows) {
			return ScamReport{}, ErrReportNotFound
		}
		return ScamReport{}, fmt.Errorf("get scam report: %w", scanErr)
	}
	return report, nil
}

// PutScamReport inserts or replaces the report for an address.
func (s *Store) PutScamReport(ctx context.Context, report ScamReport) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}

	if _, execErr := pool.Exec(ctx, upsertScamReportSQL,
		strings.ToLower(report.Address),
		report.Type,
		report.Severity,
		report.Description,
		report.WarningSigns,
		report.Recommendations,
		report.Source,
		report.ReportedDate,
	); execErr != nil {
		return fmt.Errorf("put scam report: %w", execErr)
	}
	return nil
}

// InsertAnalysis records one completed analysis and returns it with its
// assigned id and timestamp.
func (s *Store) InsertAnalysis(ctx context.Context, record AnalysisRecord) (AnalysisRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return AnalysisRecord{}, err
	}

	record.Address = strings.ToLower(record.Address)
	row := pool.QueryRow(ctx, insertAnalysisSQL,
		record.Address,
		record.Symbol,
		record.RiskLevel,
		record.FactorCount,
		record.MarketCap.String(),
		record.Volume24h.String(),
		record.Holders,
	)
	if scanErr := row.Scan(&record.ID, &record.CreatedAt); scanErr != nil {
		return AnalysisRecord{}, fmt.Errorf("insert analysis: %w", scanErr)
	}
	return record, nil
}

// ListAnalysesFor lists an address's analyses since a point in time, oldest
// first.
func (s *Store) ListAnalysesFor(ctx context.Context, address string, since time.Time) ([]AnalysisRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listAnalysesForSQL, strings.ToLower(address), since)
	if queryErr != nil {
		return nil, fmt.Errorf("list analyses for: %w", queryErr)
	}
	defer rows.Close()

	return collectAnalyses(rows)
}

// ListRecentAnalyses lists the most recent analyses across all addresses.
func (s *Store) ListRecentAnalyses(ctx context.Context, limit int) ([]AnalysisRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentAnalysesSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent analyses: %w", queryErr)
	}
	defer rows.Close()

	return collectAnalyses(rows)
}

// TryAdvisoryLock attempts to acquire a postgres advisory lock and returns a
// release func.
func (s *Store) TryAdvisoryLock(ctx context.Context, key int64) (func(), bool, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, false, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, tryAdvisoryLockSQL, key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	unlock := func() {
		ctxUnlock, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := conn.Exec(ctxUnlock, advisoryUnlockSQL, key); err != nil {
			// unlock best effort; log omitted in storage package
		}
		conn.Release()
	}
	return unlock, true, nil
}

func collectAnalyses(rows pgx.Rows) ([]AnalysisRecord, error) {
	records := make([]AnalysisRecord, 0)
	for rows.Next() {
		record, scanErr := scanAnalysis(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		records = append(records, record)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return records, nil
}

func scanAnalysis(rows pgx.Rows) (AnalysisRecord, error) {
	var (
		record       AnalysisRecord
		marketCapStr string
		volumeStr    string
	)

	if err := rows.Scan(
		&record.ID,
		&record.Address,
		&record.Symbol,
		&record.RiskLevel,
		&record.FactorCount,
		&marketCapStr,
		&volumeStr,
		&record.Holders,
		&record.CreatedAt,
	); err != nil {
		return AnalysisRecord{}, err
	}

	var convErr error
	record.MarketCap, convErr = decimal.NewFromString(marketCapStr)
	if convErr != nil {
		return AnalysisRecord{}, fmt.Errorf("parse market cap: %w", convErr)
	}
	record.Volume24h, convErr = decimal.NewFromString(volumeStr)
	if convErr != nil {
		return AnalysisRecord{}, fmt.Errorf("parse volume: %w", convErr)
	}
	return record, nil
}
