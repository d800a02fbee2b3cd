package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// EtherscanOptions parameterise the block-explorer client.
type EtherscanOptions struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Etherscan talks to the Etherscan-compatible explorer API for token
// metadata and holder counts.
type Etherscan struct {
	opts   EtherscanOptions
	logger zerolog.Logger
	client *resty.Client
}

// NewEtherscan constructs an explorer client. Retries are deliberately off:
// the adapter's fallback chain is the only recovery mechanism.
func NewEtherscan(opts EtherscanOptions, logger zerolog.Logger) *Etherscan {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.etherscan.io/api"
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0)

	return &Etherscan{
		opts:   opts,
		logger: logger.With().Str("component", "etherscan").Logger(),
		client: client,
	}
}

type etherscanEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

type etherscanTokenInfo struct {
	Symbol      string `json:"symbol"`
	TokenName   string `json:"tokenName"`
	Description string `json:"description"`
}

// FetchTokenInfo retrieves token metadata. Status "0" with message "OK"
// absent means the token is unknown to the explorer.
func (e *Etherscan) FetchTokenInfo(ctx context.Context, address string) (TokenInfo, error) {
	env, err := e.call(ctx, map[string]string{
		"module":          "token",
		"action":          "tokeninfo",
		"contractaddress": address,
	})
	if err != nil {
		return TokenInfo{}, err
	}
	if env.Status != "1" {
		return TokenInfo{}, ErrTokenNotListed
	}

	var infos []etherscanTokenInfo
	if err := json.Unmarshal(env.Result, &infos); err != nil {
		return TokenInfo{}, fmt.Errorf("decode tokeninfo result: %w", err)
	}
	if len(infos) == 0 {
		return TokenInfo{}, ErrTokenNotListed
	}

	info := infos[0]
	return TokenInfo{
		Symbol:      strings.ToUpper(info.Symbol),
		Name:        info.TokenName,
		Description: info.Description,
	}, nil
}

type etherscanHolderEntry struct {
	TokenHolderCount string `json:"TokenHolderCount"`
}

// HolderCount queries the explorer's holder statistics directly.
func (e *Etherscan) HolderCount(ctx context.Context, address string) (int64, error) {
	env, err := e.call(ctx, map[string]string{
		"module":          "token",
		"action":          "tokenholderlist",
		"contractaddress": address,
		"page":            "1",
		"offset":          "1",
	})
	if err != nil {
		return 0, err
	}
	if env.Status != "1" {
		return 0, fmt.Errorf("etherscan holder query rejected: %s", env.Message)
	}

	var entries []etherscanHolderEntry
	if err := json.Unmarshal(env.Result, &entries); err != nil {
		return 0, fmt.Errorf("decode holder result: %w", err)
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("etherscan holder result empty")
	}

	count, err := strconv.ParseInt(entries[0].TokenHolderCount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse holder count: %w", err)
	}
	return count, nil
}

func (e *Etherscan) call(ctx context.Context, params map[string]string) (etherscanEnvelope, error) {
	if e.opts.APIKey != "" {
		params["apikey"] = e.opts.APIKey
	}

	var env etherscanEnvelope
	resp, err := e.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&env).
		Get("")
	if err != nil {
		return etherscanEnvelope{}, err
	}
	if resp.StatusCode() != 200 {
		return etherscanEnvelope{}, fmt.Errorf("etherscan error (%d): %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return env, nil
}

var (
	_ ExplorerProvider = (*Etherscan)(nil)
	_ HolderSource     = (*Etherscan)(nil)
)
