package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	tokenPricePath = "/simple/token_price/ethereum"
	coinInfoPath   = "/coins/ethereum/contract/"
)

// CoinGeckoOptions parameterise the market-data client.
type CoinGeckoOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// CoinGecko fetches price, market cap, volume, and coin metadata from the
// CoinGecko token-price API.
type CoinGecko struct {
	opts    CoinGeckoOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewCoinGecko constructs a market-data client.
func NewCoinGecko(opts CoinGeckoOptions, logger zerolog.Logger) *CoinGecko {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.coingecko.com/api/v3"
	}

	return &CoinGecko{
		opts:    opts,
		logger:  logger.With().Str("component", "coingecko").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

type tokenPriceEntry struct {
	USD          float64 `json:"usd"`
	USDMarketCap float64 `json:"usd_market_cap"`
	USD24hVol    float64 `json:"usd_24h_vol"`
}

type coinInfoResponse struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Description struct {
		EN string `json:"en"`
	} `json:"description"`
}

// FetchMarketData retrieves the token's USD pricing and metadata. A token
// absent from the price map is reported as ErrTokenNotListed; transport and
// payload failures surface as plain errors.
func (c *CoinGecko) FetchMarketData(ctx context.Context, address string) (MarketData, error) {
	query := url.Values{}
	query.Set("contract_addresses", address)
	query.Set("vs_currencies", "usd")
	query.Set("include_24hr_vol", "true")
	query.Set("include_market_cap", "true")

	var prices map[string]tokenPriceEntry
	if err := c.getJSON(ctx, tokenPricePath+"?"+query.Encode(), &prices); err != nil {
		return MarketData{}, err
	}

	entry, ok := prices[strings.ToLower(address)]
	if !ok {
		return MarketData{}, ErrTokenNotListed
	}

	var info coinInfoResponse
	if err := c.getJSON(ctx, coinInfoPath+address, &info); err != nil {
		return MarketData{}, err
	}

	return MarketData{
		Price:       decimal.NewFromFloat(entry.USD),
		MarketCap:   decimal.NewFromFloat(entry.USDMarketCap),
		Volume24h:   decimal.NewFromFloat(entry.USD24hVol),
		Symbol:      strings.ToUpper(info.Symbol),
		Name:        info.Name,
		Description: info.Description.EN,
	}, nil
}

func (c *CoinGecko) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return ErrTokenNotListed
		}
		return fmt.Errorf("coingecko error (%d): %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode coingecko payload: %w", err)
	}
	return nil
}

var _ MarketDataProvider = (*CoinGecko)(nil)
