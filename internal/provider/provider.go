package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"rugshield/internal/analysis"
)

// ErrInvalidAddress marks a token address that fails the format check. The
// check is syntactic only; it says nothing about the address existing
// on-chain.
var ErrInvalidAddress = errors.New("invalid token address")

// ErrTokenNotListed is returned by upstream clients when the token is simply
// absent from their catalogue, as opposed to the upstream being down.
var ErrTokenNotListed = errors.New("token not listed")

// MarketData is the primary pricing API response, normalised.
type MarketData struct {
	Price       decimal.Decimal
	MarketCap   decimal.Decimal
	Volume24h   decimal.Decimal
	Symbol      string
	Name        string
	Description string
}

// TokenInfo is the block-explorer metadata response, normalised. Explorer
// metadata carries no pricing.
type TokenInfo struct {
	Symbol      string
	Name        string
	Description string
}

// MarketDataProvider is the primary pricing/market source.
type MarketDataProvider interface {
	FetchMarketData(ctx context.Context, address string) (MarketData, error)
}

// ExplorerProvider is the secondary metadata source.
type ExplorerProvider interface {
	FetchTokenInfo(ctx context.Context, address string) (TokenInfo, error)
}

// HolderSource yields a holder count for a token. Implementations may be
// exact (explorer query) or approximate (transfer-event sampling).
type HolderSource interface {
	HolderCount(ctx context.Context, address string) (int64, error)
}

// SocialProvider searches recent social activity for a token identifier.
type SocialProvider interface {
	FetchSocial(ctx context.Context, identifier string) (analysis.SocialSnapshot, error)
}

// Options tune the adapter.
type Options struct {
	// RequestTimeout bounds one whole Fetch, covering the entire fallback
	// chain, so a slow upstream cannot block the caller indefinitely.
	RequestTimeout time.Duration
}

// Adapter normalises heterogeneous upstream responses into a single
// TokenSnapshot with a fixed source fallback order and zeroed defaults when
// every source fails.
type Adapter struct {
	market   MarketDataProvider
	explorer ExplorerProvider
	holders  []HolderSource
	social   SocialProvider
	opts     Options
	logger   zerolog.Logger
}

// NewAdapter wires the upstream clients into an adapter. Holder sources are
// consulted in order; nil providers disable the corresponding source.
func NewAdapter(market MarketDataProvider, explorer ExplorerProvider, holders []HolderSource, social SocialProvider, opts Options, logger zerolog.Logger) *Adapter {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	return &Adapter{
		market:   market,
		explorer: explorer,
		holders:  holders,
		social:   social,
		opts:     opts,
		logger:   logger.With().Str("component", "provider_adapter").Logger(),
	}
}

// Fetch resolves a token address into a fully populated snapshot. It tries
// the market source first, then the explorer, and finally synthesises a
// zeroed snapshot from the address itself. The returned snapshot is always
// usable; the error is non-nil only when the address fails the format check,
// and even then the synthetic snapshot accompanies it so the caller has
// something to render.
func (a *Adapter) Fetch(ctx context.Context, address string) (analysis.TokenSnapshot, error) {
	if !common.IsHexAddress(address) {
		return analysis.SyntheticSnapshot(address, "Invalid token address"), ErrInvalidAddress
	}

	ctx, cancel := context.WithTimeout(ctx, a.opts.RequestTimeout)
	defer cancel()

	var lastErr error

	if a.market != nil {
		data, err := a.market.FetchMarketData(ctx, address)
		switch {
		case err == nil:
			return analysis.NewTokenSnapshot(
				address, data.Symbol, data.Name,
				data.Price, data.MarketCap, data.Volume24h,
				a.holderCount(ctx, address),
				data.Description,
				analysis.SourceMarket,
			), nil
		case errors.Is(err, ErrTokenNotListed):
			a.logger.Debug().Str("address", address).Msg("token not listed on market source")
		default:
			lastErr = err
			a.logger.Warn().Err(err).Str("address", address).Msg("market source unavailable")
		}
	}

	if a.explorer != nil {
		info, err := a.explorer.FetchTokenInfo(ctx, address)
		switch {
		case err == nil:
			// Explorer metadata has no pricing; those fields stay zero.
			return analysis.NewTokenSnapshot(
				address, info.Symbol, info.Name,
				decimal.Zero, decimal.Zero, decimal.Zero,
				a.holderCount(ctx, address),
				info.Description,
				analysis.SourceExplorer,
			), nil
		case errors.Is(err, ErrTokenNotListed):
			a.logger.Debug().Str("address", address).Msg("token not listed on explorer")
		default:
			lastErr = err
			a.logger.Warn().Err(err).Str("address", address).Msg("explorer unavailable")
		}
	}

	description := ""
	if lastErr != nil {
		description = fmt.Sprintf("Error fetching token data: %s", lastErr)
	}
	return analysis.SyntheticSnapshot(address, description), nil
}

// holderCount walks the holder sources in order and returns the first
// answer. Exhausting every source yields zero, never an error.
func (a *Adapter) holderCount(ctx context.Context, address string) int64 {
	for _, source := range a.holders {
		count, err := source.HolderCount(ctx, address)
		if err != nil {
			a.logger.Debug().Err(err).Str("address", address).Msg("holder source failed, trying next")
			continue
		}
		return count
	}
	return 0
}

// FetchSocial resolves recent social activity for a token identifier
// (usually the symbol). Any failure collapses to the neutral empty snapshot.
func (a *Adapter) FetchSocial(ctx context.Context, identifier string) analysis.SocialSnapshot {
	if a.social == nil || identifier == "" {
		return analysis.EmptySocialSnapshot()
	}

	ctx, cancel := context.WithTimeout(ctx, a.opts.RequestTimeout)
	defer cancel()

	snap, err := a.social.FetchSocial(ctx, identifier)
	if err != nil {
		a.logger.Warn().Err(err).Str("identifier", identifier).Msg("social source unavailable")
		return analysis.EmptySocialSnapshot()
	}
	return snap
}
