package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScamReport is a community or curator report flagging a token address.
type ScamReport struct {
	Address         string
	Type            string
	Severity        string
	Description     string
	WarningSigns    []string
	Recommendations []string
	Source          string
	ReportedDate    time.Time
	CreatedAt       time.Time
}

// AnalysisRecord captures one completed token analysis for history and
// watch-mode change detection.
type AnalysisRecord struct {
	ID          int64
	Address     string
	Symbol      string
	RiskLevel   string
	FactorCount int
	MarketCap   decimal.Decimal
	Volume24h   decimal.Decimal
	Holders     int64
	CreatedAt   time.Time
}
