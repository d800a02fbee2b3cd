package contract

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestScanCodeMatchesEmbeddedNames(t *testing.T) {
	code := []byte("\x60\x80mint something transferOwnership\x00paused")

	indicators := scanCode(code)
	if len(indicators) != 3 {
		t.Fatalf("expected 3 indicators, got %d: %+v", len(indicators), indicators)
	}

	byPattern := make(map[string]Indicator, len(indicators))
	for _, ind := range indicators {
		byPattern[ind.Pattern] = ind
	}

	mint, ok := byPattern["mint_function"]
	if !ok || mint.RiskLevel != "high" {
		t.Fatalf("mint pattern should be a high-risk indicator: %+v", byPattern)
	}
	if own := byPattern["ownership_function"]; own.RiskLevel != "medium" {
		t.Fatalf("ownership pattern should be medium risk: %+v", own)
	}
	if pause := byPattern["pause_function"]; pause.Function != "pause" {
		t.Fatalf("group should report its first matching function, got %q", pause.Function)
	}
}

func TestScanCodeOneIndicatorPerGroup(t *testing.T) {
	code := []byte("blacklist blackList isBlacklisted")

	indicators := scanCode(code)
	if len(indicators) != 1 {
		t.Fatalf("a group matches at most once, got %d", len(indicators))
	}
	if indicators[0].Function != "blacklist" {
		t.Fatalf("expected first function of the group, got %q", indicators[0].Function)
	}
}

func TestScanCodeEmpty(t *testing.T) {
	if got := scanCode(nil); got != nil {
		t.Fatalf("empty code should yield no indicators, got %+v", got)
	}
}

func TestInspectRejectsInvalidAddress(t *testing.T) {
	ins := NewInspector(Options{RPCURL: "http://localhost:0"}, noopLogger())

	if _, err := ins.Inspect(context.Background(), "not-an-address"); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
}

func TestInspectRequiresRPC(t *testing.T) {
	ins := NewInspector(Options{}, noopLogger())

	if _, err := ins.Inspect(context.Background(), "0x1234567890abcdef1234567890abcdef12345678"); err == nil {
		t.Fatal("missing rpc url should error")
	}
}
