package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestEtherscanFetchTokenInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "tokeninfo" {
			t.Fatalf("unexpected action %s", r.URL.Query().Get("action"))
		}
		if r.URL.Query().Get("apikey") != "key" {
			t.Fatalf("api key not forwarded")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"1","message":"OK","result":[{"symbol":"tkn","tokenName":"Token","description":"explorer description"}]}`))
	}))
	defer srv.Close()

	es := NewEtherscan(EtherscanOptions{BaseURL: srv.URL, APIKey: "key", Timeout: time.Second}, noopLogger())

	info, err := es.FetchTokenInfo(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Symbol != "TKN" || info.Name != "Token" || info.Description != "explorer description" {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestEtherscanTokenUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"0","message":"NOTOK","result":"contract not found"}`))
	}))
	defer srv.Close()

	es := NewEtherscan(EtherscanOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())

	if _, err := es.FetchTokenInfo(context.Background(), testAddress); !errors.Is(err, ErrTokenNotListed) {
		t.Fatalf("expected ErrTokenNotListed, got %v", err)
	}
}

func TestEtherscanHolderCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "tokenholderlist" {
			t.Fatalf("unexpected action %s", r.URL.Query().Get("action"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"1","message":"OK","result":[{"TokenHolderCount":"4521"}]}`))
	}))
	defer srv.Close()

	es := NewEtherscan(EtherscanOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())

	count, err := es.HolderCount(context.Background(), testAddress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 4521 {
		t.Fatalf("expected 4521 holders, got %d", count)
	}
}

func TestEtherscanHolderCountRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"0","message":"rate limit","result":""}`))
	}))
	defer srv.Close()

	es := NewEtherscan(EtherscanOptions{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())

	if _, err := es.HolderCount(context.Background(), testAddress); err == nil {
		t.Fatal("rejected holder query should error so the sampler takes over")
	}
}
