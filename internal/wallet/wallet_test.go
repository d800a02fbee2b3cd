package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

const testWallet = "0x1234567890abcdef1234567890abcdef12345678"

func TestAnalyzeRejectsInvalidAddress(t *testing.T) {
	a := NewAnalyzer(Options{RPCURL: "http://localhost:0"}, zerolog.Nop())

	if _, err := a.Analyze(context.Background(), "nope"); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
}

func TestAnalyzeRequiresRPC(t *testing.T) {
	a := NewAnalyzer(Options{}, zerolog.Nop())

	if _, err := a.Analyze(context.Background(), testWallet); err == nil {
		t.Fatal("missing rpc url should error")
	}
}

func TestCheckSuspiciousKnownScammer(t *testing.T) {
	a := NewAnalyzer(Options{KnownScammers: []string{"0x1234567890ABCDEF1234567890abcdef12345678"}}, zerolog.Nop())

	flags := a.checkSuspicious(testWallet)
	if len(flags) != 1 {
		t.Fatalf("expected one flag, got %d", len(flags))
	}
	if flags[0].Type != "known_scammer" || flags[0].Severity != "high" {
		t.Fatalf("unexpected flag: %+v", flags[0])
	}

	if extra := a.checkSuspicious("0x0000000000000000000000000000000000000001"); extra != nil {
		t.Fatalf("clean wallet should have no flags, got %+v", extra)
	}
}
