// Package service orchestrates data fetching, classification, persistence,
// and alerting.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"rugshield/internal/ai"
	"rugshield/internal/analysis"
	"rugshield/internal/storage"
)

// TokenFetcher is the provider adapter surface the analyzer needs.
type TokenFetcher interface {
	Fetch(ctx context.Context, address string) (analysis.TokenSnapshot, error)
	FetchSocial(ctx context.Context, identifier string) analysis.SocialSnapshot
}

// Result bundles everything one analysis produced.
type Result struct {
	Snapshot   analysis.TokenSnapshot
	Metrics    analysis.MetricsClassification
	Risk       analysis.RiskAssessment
	Text       analysis.TextAnalysis
	ScamReport *storage.ScamReport
	Commentary string
}

// Options tune the analyzer.
type Options struct {
	// RequestDeadline bounds one full analysis including provider calls.
	RequestDeadline time.Duration
}

// Analyzer runs the full analysis pipeline for one token address.
type Analyzer struct {
	fetcher     TokenFetcher
	scamStore   storage.ScamReportStore
	history     storage.AnalysisStore
	commentator ai.Commentator
	opts        Options
	logger      zerolog.Logger
}

// NewAnalyzer constructs the pipeline. scamStore, history, and commentator
// may be nil; the corresponding steps are skipped.
func NewAnalyzer(fetcher TokenFetcher, scamStore storage.ScamReportStore, history storage.AnalysisStore, commentator ai.Commentator, opts Options, logger zerolog.Logger) *Analyzer {
	if opts.RequestDeadline <= 0 {
		opts.RequestDeadline = 60 * time.Second
	}
	if commentator == nil {
		commentator = ai.Disabled{}
	}
	return &Analyzer{
		fetcher:     fetcher,
		scamStore:   scamStore,
		history:     history,
		commentator: commentator,
		opts:        opts,
		logger:      logger.With().Str("component", "analyzer").Logger(),
	}
}

// Analyze fetches a snapshot and runs every classifier over it. The only
// error it returns is an invalid address; upstream failures degrade inside
// the fetch chain, and persistence or commentary failures are logged.
func (a *Analyzer) Analyze(ctx context.Context, address string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, a.opts.RequestDeadline)
	defer cancel()

	snap, err := a.fetcher.Fetch(ctx, address)
	if err != nil {
		return Result{Snapshot: snap}, err
	}

	result := Result{
		Snapshot: snap,
		Metrics:  analysis.ClassifyMetrics(snap),
		Risk:     analysis.AssessRisk(snap),
		Text:     analysis.ScoreText(snap.Description, snap.Holders, snap.Volume24h, snap.MarketCap),
	}

	if a.scamStore != nil {
		report, lookupErr := a.scamStore.GetScamReport(ctx, address)
		switch {
		case lookupErr == nil:
			result.ScamReport = &report
		case errors.Is(lookupErr, storage.ErrReportNotFound):
		default:
			a.logger.Warn().Err(lookupErr).Str("address", address).Msg("scam report lookup failed")
		}
	}

	if a.history != nil {
		record := storage.AnalysisRecord{
			Address:     address,
			Symbol:      snap.Symbol,
			RiskLevel:   string(result.Risk.OverallRisk),
			FactorCount: len(result.Risk.RiskFactors),
			MarketCap:   snap.MarketCap,
			Volume24h:   snap.Volume24h,
			Holders:     snap.Holders,
		}
		if _, insertErr := a.history.InsertAnalysis(ctx, record); insertErr != nil {
			a.logger.Error().Err(insertErr).Str("address", address).Msg("failed to record analysis")
		}
	}

	commentary, commentErr := a.commentator.Commentary(ctx, snap, result.Risk)
	if commentErr != nil {
		a.logger.Warn().Err(commentErr).Str("address", address).Msg("ai commentary failed")
	} else {
		result.Commentary = commentary
	}

	a.logger.Info().Str("address", address).
		Str("symbol", snap.Symbol).
		Str("source", string(snap.Source)).
		Str("risk", string(result.Risk.OverallRisk)).
		Msg("analysis complete")
	return result, nil
}

// Social fetches the token's social activity. The snapshot fetch supplies
// the symbol used as the search identifier; when no symbol is known the
// address is searched directly.
func (a *Analyzer) Social(ctx context.Context, address string) (analysis.TokenSnapshot, analysis.SocialSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, a.opts.RequestDeadline)
	defer cancel()

	snap, err := a.fetcher.Fetch(ctx, address)
	if err != nil {
		return snap, analysis.EmptySocialSnapshot(), err
	}

	identifier := snap.Symbol
	if identifier == "" {
		identifier = address
	}
	return snap, a.fetcher.FetchSocial(ctx, identifier), nil
}
