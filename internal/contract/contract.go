// Package contract inspects token contract bytecode for suspicious
// capability patterns.
package contract

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
)

// ErrInvalidAddress is returned when the given string is not a hex address.
var ErrInvalidAddress = errors.New("invalid contract address")

// patternGroups maps a capability name to the function names that signal it.
// Matching is a plain substring scan over the deployed code, which only
// catches strings the compiler embedded verbatim. Real selector matching
// would need the four-byte hashes; this is a cheap first-pass heuristic.
var patternGroups = []struct {
	name      string
	functions []string
	riskLevel string
}{
	{"mint_function", []string{"mint", "createTokens", "generateTokens"}, "high"},
	{"blacklist_function", []string{"blacklist", "blackList", "isBlacklisted"}, "high"},
	{"whitelist_function", []string{"whitelist", "whiteList", "isWhitelisted"}, "medium"},
	{"pause_function", []string{"pause", "unpause", "paused"}, "medium"},
	{"ownership_function", []string{"transferOwnership", "renounceOwnership"}, "medium"},
	{"tax_function", []string{"setTax", "setFee", "setMaxTxAmount"}, "medium"},
	{"proxy_pattern", []string{"delegatecall", "implementation", "upgradeTo"}, "medium"},
}

// Indicator is one matched capability pattern.
type Indicator struct {
	Pattern   string `json:"pattern"`
	Function  string `json:"function"`
	RiskLevel string `json:"risk_level"`
}

// Inspection summarises what the bytecode scan found.
type Inspection struct {
	Address    string      `json:"address"`
	HasCode    bool        `json:"has_code"`
	CodeSize   int         `json:"code_size"`
	Indicators []Indicator `json:"indicators"`
}

// Options parameterise the inspector.
type Options struct {
	RPCURL  string
	Timeout time.Duration
}

// Inspector fetches deployed bytecode and scans it for capability patterns.
type Inspector struct {
	opts      Options
	logger    zerolog.Logger
	client    *ethclient.Client
	clientMux sync.Mutex
}

// NewInspector builds a bytecode inspector. The RPC connection is opened
// lazily on first use.
func NewInspector(opts Options, logger zerolog.Logger) *Inspector {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &Inspector{
		opts:   opts,
		logger: logger.With().Str("component", "contract_inspector").Logger(),
	}
}

// Inspect fetches the contract's deployed code at the latest block and scans
// it for suspicious capability patterns.
func (i *Inspector) Inspect(ctx context.Context, address string) (Inspection, error) {
	if !common.IsHexAddress(address) {
		return Inspection{Address: address}, ErrInvalidAddress
	}
	if i.opts.RPCURL == "" {
		return Inspection{Address: address}, errors.New("ethereum rpc url not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, i.opts.Timeout)
	defer cancel()

	client, err := i.getClient(ctx)
	if err != nil {
		return Inspection{Address: address}, err
	}

	code, err := client.CodeAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return Inspection{Address: address}, err
	}

	inspection := Inspection{
		Address:    address,
		HasCode:    len(code) > 0,
		CodeSize:   len(code),
		Indicators: scanCode(code),
	}
	i.logger.Debug().Str("address", address).Int("code_size", inspection.CodeSize).
		Int("indicators", len(inspection.Indicators)).Msg("inspected contract bytecode")
	return inspection, nil
}

// scanCode matches each pattern group's function names against the raw code
// and its hex rendering. A group reports at most one indicator.
func scanCode(code []byte) []Indicator {
	if len(code) == 0 {
		return nil
	}

	raw := strings.ToLower(string(code))
	encoded := strings.ToLower(hex.EncodeToString(code))

	var indicators []Indicator
	for _, group := range patternGroups {
		for _, fn := range group.functions {
			needle := strings.ToLower(fn)
			if strings.Contains(raw, needle) || strings.Contains(encoded, strings.ToLower(hex.EncodeToString([]byte(fn)))) {
				indicators = append(indicators, Indicator{
					Pattern:   group.name,
					Function:  fn,
					RiskLevel: group.riskLevel,
				})
				break
			}
		}
	}
	return indicators
}

func (i *Inspector) getClient(ctx context.Context) (*ethclient.Client, error) {
	i.clientMux.Lock()
	defer i.clientMux.Unlock()

	if i.client != nil {
		return i.client, nil
	}

	client, err := ethclient.DialContext(ctx, i.opts.RPCURL)
	if err != nil {
		return nil, err
	}
	i.client = client
	return client, nil
}
