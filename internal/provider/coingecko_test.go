package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCoinGeckoFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, tokenPricePath):
			_ = json.NewEncoder(w).Encode(map[string]any{
				strings.ToLower(testAddress): map[string]float64{
					"usd":            0.25,
					"usd_market_cap": 2_000_000,
					"usd_24h_vol":    150_000,
				},
			})
		case strings.HasPrefix(r.URL.Path, coinInfoPath):
			_ = json.NewEncoder(w).Encode(map[string]any{
				"symbol": "tkn",
				"name":   "Token",
				"description": map[string]string{
					"en": "a useful token",
				},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	cg := NewCoinGecko(CoinGeckoOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())

	data, err := cg.FetchMarketData(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.Symbol != "TKN" {
		t.Fatalf("symbol should be uppercased, got %s", data.Symbol)
	}
	if data.Name != "Token" || data.Description != "a useful token" {
		t.Fatalf("metadata not populated: %+v", data)
	}
	if !data.MarketCap.Equal(dec(2_000_000)) || !data.Volume24h.Equal(dec(150_000)) {
		t.Fatalf("pricing not populated: %+v", data)
	}
}

func TestCoinGeckoTokenNotListed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	cg := NewCoinGecko(CoinGeckoOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())

	if _, err := cg.FetchMarketData(context.Background(), testAddress); !errors.Is(err, ErrTokenNotListed) {
		t.Fatalf("expected ErrTokenNotListed, got %v", err)
	}
}

func TestCoinGeckoHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"status":{"error_code":429}}`))
	}))
	defer srv.Close()

	cg := NewCoinGecko(CoinGeckoOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())

	if _, err := cg.FetchMarketData(context.Background(), testAddress); err == nil {
		t.Fatal("HTTP 429 should surface as an error")
	}
}

func TestCoinGeckoMalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	cg := NewCoinGecko(CoinGeckoOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())

	if _, err := cg.FetchMarketData(context.Background(), testAddress); err == nil {
		t.Fatal("malformed payload should surface as an error")
	}
}
