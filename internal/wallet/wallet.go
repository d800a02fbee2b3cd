// Package wallet builds a lightweight behaviour overview for a wallet
// address.
package wallet

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrInvalidAddress is returned when the given string is not a hex address.
var ErrInvalidAddress = errors.New("invalid wallet address")

var weiPerEther = decimal.New(1, 18)

// Activity is one flagged behaviour pattern.
type Activity struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// Overview summarises a wallet. Transactions and holdings require an
// indexer the analyzer does not have, so those sections stay empty and the
// activity checks run on what little data exists.
type Overview struct {
	Address              string          `json:"address"`
	BalanceETH           decimal.Decimal `json:"balance_eth"`
	FirstSeen            string          `json:"first_seen"`
	TotalTransactions    int             `json:"total_transactions"`
	TotalTokens          int             `json:"total_tokens"`
	SuspiciousActivities []Activity      `json:"suspicious_activities"`
}

// Options parameterise the wallet analyzer.
type Options struct {
	RPCURL string
	// KnownScammers is a static set of flagged addresses, matched
	// case-insensitively.
	KnownScammers []string
	Timeout       time.Duration
}

// Analyzer fetches a wallet's balance and runs the behaviour checks.
type Analyzer struct {
	opts      Options
	scammers  map[string]struct{}
	logger    zerolog.Logger
	client    *ethclient.Client
	clientMux sync.Mutex
}

// NewAnalyzer builds a wallet analyzer. The RPC connection is opened lazily.
func NewAnalyzer(opts Options, logger zerolog.Logger) *Analyzer {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	scammers := make(map[string]struct{}, len(opts.KnownScammers))
	for _, addr := range opts.KnownScammers {
		scammers[strings.ToLower(addr)] = struct{}{}
	}
	return &Analyzer{
		opts:     opts,
		scammers: scammers,
		logger:   logger.With().Str("component", "wallet_analyzer").Logger(),
	}
}

// Analyze fetches the wallet's balance and flags suspicious patterns.
func (a *Analyzer) Analyze(ctx context.Context, address string) (Overview, error) {
	if !common.IsHexAddress(address) {
		return Overview{Address: address}, ErrInvalidAddress
	}
	if a.opts.RPCURL == "" {
		return Overview{Address: address}, errors.New("ethereum rpc url not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, a.opts.Timeout)
	defer cancel()

	client, err := a.getClient(ctx)
	if err != nil {
		return Overview{Address: address}, err
	}

	wei, err := client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return Overview{Address: address}, err
	}

	overview := Overview{
		Address:              address,
		BalanceETH:           decimal.NewFromBigInt(wei, 0).Div(weiPerEther),
		FirstSeen:            "Unknown",
		SuspiciousActivities: a.checkSuspicious(address),
	}
	a.logger.Debug().Str("address", address).Str("balance_eth", overview.BalanceETH.String()).
		Int("flags", len(overview.SuspiciousActivities)).Msg("analyzed wallet")
	return overview, nil
}

func (a *Analyzer) checkSuspicious(address string) []Activity {
	var activities []Activity
	if _, ok := a.scammers[strings.ToLower(address)]; ok {
		activities = append(activities, Activity{
			Type:        "known_scammer",
			Severity:    "high",
			Description: "Wallet is associated with known scammer addresses",
		})
	}
	return activities
}

func (a *Analyzer) getClient(ctx context.Context) (*ethclient.Client, error) {
	a.clientMux.Lock()
	defer a.clientMux.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	client, err := ethclient.DialContext(ctx, a.opts.RPCURL)
	if err != nil {
		return nil, err
	}
	a.client = client
	return client, nil
}
