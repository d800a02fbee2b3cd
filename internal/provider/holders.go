package provider

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
)

var transferTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// HolderEstimatorOptions parameterise the on-chain fallback counter.
type HolderEstimatorOptions struct {
	RPCURL string
	// BlockWindow is how far back from the head the transfer scan reaches.
	BlockWindow uint64
	// MaxEvents caps how many of the most recent transfers are sampled.
	MaxEvents int
	Timeout   time.Duration
}

// HolderEstimator approximates a token's holder count by sampling recent
// transfer events and counting distinct participants. It is an
// approximation, not an exact count: it only sees addresses active inside
// the sampled window.
type HolderEstimator struct {
	opts      HolderEstimatorOptions
	logger    zerolog.Logger
	client    *ethclient.Client
	clientMux sync.Mutex
}

// NewHolderEstimator builds the transfer-sampling holder source.
func NewHolderEstimator(opts HolderEstimatorOptions, logger zerolog.Logger) *HolderEstimator {
	if opts.BlockWindow == 0 {
		opts.BlockWindow = 10_000
	}
	if opts.MaxEvents <= 0 || opts.MaxEvents > 1_000 {
		opts.MaxEvents = 1_000
	}
	return &HolderEstimator{
		opts:   opts,
		logger: logger.With().Str("component", "holder_estimator").Logger(),
	}
}

// HolderCount samples recent transfer logs for the token and counts distinct
// from/to addresses, excluding the zero address and the token contract
// itself.
func (h *HolderEstimator) HolderCount(ctx context.Context, address string) (int64, error) {
	if h.opts.RPCURL == "" {
		return 0, errors.New("ethereum rpc url not configured")
	}

	timeout := h.opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	var cancel context.CancelFunc
	ctx, cancel = context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := h.getClient(ctx)
	if err != nil {
		return 0, err
	}

	head, err := client.BlockNumber(ctx)
	if err != nil {
		return 0, err
	}

	from := uint64(0)
	if head > h.opts.BlockWindow {
		from = head - h.opts.BlockWindow
	}

	token := common.HexToAddress(address)
	logs, err := client.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(head),
		Addresses: []common.Address{token},
		Topics:    [][]common.Hash{{transferTopic}},
	})
	if err != nil {
		return 0, err
	}

	if len(logs) > h.opts.MaxEvents {
		logs = logs[len(logs)-h.opts.MaxEvents:]
	}

	count := countParticipants(logs, token)
	h.logger.Debug().Str("address", address).Int("events", len(logs)).Int64("holders", count).
		Msg("estimated holder count from transfer sample")
	return count, nil
}

func countParticipants(logs []types.Log, token common.Address) int64 {
	seen := make(map[common.Address]struct{}, len(logs)*2)
	for _, entry := range logs {
		// Indexed from/to live in topics 1 and 2.
		if len(entry.Topics) < 3 {
			continue
		}
		seen[common.BytesToAddress(entry.Topics[1].Bytes())] = struct{}{}
		seen[common.BytesToAddress(entry.Topics[2].Bytes())] = struct{}{}
	}

	delete(seen, common.Address{})
	delete(seen, token)
	return int64(len(seen))
}

func (h *HolderEstimator) getClient(ctx context.Context) (*ethclient.Client, error) {
	h.clientMux.Lock()
	defer h.clientMux.Unlock()

	if h.client != nil {
		return h.client, nil
	}

	client, err := ethclient.DialContext(ctx, h.opts.RPCURL)
	if err != nil {
		return nil, err
	}
	h.client = client
	return client, nil
}

var _ HolderSource = (*HolderEstimator)(nil)
