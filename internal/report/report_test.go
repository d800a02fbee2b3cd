package report

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"rugshield/internal/analysis"
	"rugshield/internal/contract"
	"rugshield/internal/storage"
	"rugshield/internal/wallet"
)

func TestEscapeMarkdown(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"a_b*c", `a\_b\*c`},
		{"1.5% (est.)", `1\.5% \(est\.\)`},
		{"[link](url)", `\[link\]\(url\)`},
		{"a-b+c=d", `a\-b\+c\=d`},
		{"", ""},
	}
	for _, tc := range cases {
		if got := EscapeMarkdown(tc.in); got != tc.want {
			t.Errorf("EscapeMarkdown(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRiskRendersFactorsInOrder(t *testing.T) {
	assessment := analysis.RiskAssessment{
		OverallRisk:     analysis.RiskHigh,
		RiskFactors:     []string{"Very low market cap", "Low trading volume"},
		Recommendations: []string{"Extreme caution advised", "Check token liquidity"},
		RiskMetrics:     analysis.RiskMetrics{MarketCapRisk: true, VolumeRisk: true},
	}

	msg := Risk("0xabc", assessment)

	if !strings.Contains(msg, "🟠") {
		t.Error("high risk should carry the orange marker")
	}
	if !strings.Contains(msg, "`HIGH`") {
		t.Errorf("overall risk missing: %s", msg)
	}
	first := strings.Index(msg, "Very low market cap")
	second := strings.Index(msg, "Low trading volume")
	if first < 0 || second < 0 || first > second {
		t.Errorf("factors missing or out of order: %s", msg)
	}
	// Risky metrics render as crosses, safe ones as checks.
	if !strings.Contains(msg, "Market Cap Risk: ❌") || !strings.Contains(msg, "Holder Risk: ✅") {
		t.Errorf("risk metric markers wrong: %s", msg)
	}
}

func TestRiskEmptyFactors(t *testing.T) {
	msg := Risk("0xabc", analysis.RiskAssessment{OverallRisk: analysis.RiskMinimal})
	if !strings.Contains(msg, "None detected") {
		t.Errorf("empty factor list should render a placeholder: %s", msg)
	}
}

func TestMetricsTitlesEnumValues(t *testing.T) {
	snap := analysis.NewTokenSnapshot("0xabc", "TKN", "Token",
		decimal.NewFromFloat(0.5), decimal.NewFromInt(1_000_000), decimal.NewFromInt(150_000), 500, "", analysis.SourceMarket)
	metrics := analysis.MetricsClassification{
		PriceTrend:         analysis.TrendBullish,
		VolumeLevel:        analysis.VolumeHigh,
		HolderDistribution: analysis.HoldersConcentrated,
		LiquidityLevel:     analysis.LiquidityInsufficient,
	}

	msg := Metrics("0xabc", snap, metrics)
	if !strings.Contains(msg, "`Bullish`") || !strings.Contains(msg, "`Insufficient`") {
		t.Errorf("enum values should be title-cased: %s", msg)
	}
}

func TestSocialIncludesRecentPosts(t *testing.T) {
	snap := analysis.SocialSnapshot{
		Mentions:       12,
		Engagement:     340,
		SentimentScore: 0.78,
		ActivityLevel:  analysis.ActivityMedium,
		RecentPosts: []analysis.SocialPost{
			{Text: "looking good", AuthorHandle: "alice", AuthorFollowers: 100, Likes: 5},
		},
	}

	msg := Social("Token", "TKN", snap)
	if !strings.Contains(msg, "@alice") || !strings.Contains(msg, "looking good") {
		t.Errorf("recent post missing: %s", msg)
	}
	if !strings.Contains(msg, "`0.78`") {
		t.Errorf("sentiment missing: %s", msg)
	}

	empty := Social("Token", "TKN", analysis.EmptySocialSnapshot())
	if !strings.Contains(empty, "No recent posts found") {
		t.Errorf("empty snapshot should render placeholder: %s", empty)
	}
}

func TestSocialTruncatesLongPosts(t *testing.T) {
	long := strings.Repeat("x", 150)
	snap := analysis.SocialSnapshot{RecentPosts: []analysis.SocialPost{{Text: long, AuthorHandle: "bob"}}}

	msg := Social("Token", "TKN", snap)
	if !strings.Contains(msg, strings.Repeat("x", 100)+`\.\.\.`) {
		t.Errorf("long post should be truncated at 100 chars: %s", msg)
	}
	if strings.Contains(msg, strings.Repeat("x", 101)) {
		t.Error("post text not truncated")
	}
}

func TestContractRendering(t *testing.T) {
	msg := Contract(contract.Inspection{Address: "0xabc", HasCode: false})
	if !strings.Contains(msg, "No contract code") {
		t.Errorf("missing-code notice absent: %s", msg)
	}

	msg = Contract(contract.Inspection{
		Address:  "0xabc",
		HasCode:  true,
		CodeSize: 1234,
		Indicators: []contract.Indicator{
			{Pattern: "mint_function", Function: "mint", RiskLevel: "high"},
		},
	})
	if !strings.Contains(msg, "Mint Function") || !strings.Contains(msg, "`HIGH`") {
		t.Errorf("indicator missing: %s", msg)
	}

	clean := Contract(contract.Inspection{Address: "0xabc", HasCode: true, CodeSize: 10})
	if !strings.Contains(clean, "No suspicious patterns detected") {
		t.Errorf("clean contract should say so: %s", clean)
	}
}

func TestWalletRendering(t *testing.T) {
	overview := wallet.Overview{
		Address:    "0xabc",
		BalanceETH: decimal.NewFromFloat(1.23456),
		FirstSeen:  "Unknown",
	}

	msg := Wallet(overview)
	if !strings.Contains(msg, "`1.2346 ETH`") {
		t.Errorf("balance should render with four decimals: %s", msg)
	}
	if !strings.Contains(msg, "No suspicious activity") {
		t.Errorf("clean wallet should say so: %s", msg)
	}

	overview.SuspiciousActivities = []wallet.Activity{{Type: "known_scammer", Severity: "high", Description: "flagged"}}
	msg = Wallet(overview)
	if !strings.Contains(msg, "Known Scammer") || !strings.Contains(msg, "HIGH") {
		t.Errorf("activity missing: %s", msg)
	}
}

func TestScamAlertRendering(t *testing.T) {
	rep := storage.ScamReport{
		Address:         "0xabc",
		Type:            "honeypot",
		Severity:        "high",
		Description:     "cannot sell",
		WarningSigns:    []string{"trapped liquidity"},
		Recommendations: []string{"do not buy"},
		Source:          "community",
		ReportedDate:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}

	msg := ScamAlert(rep)
	for _, want := range []string{"SCAM ALERT", "`honeypot`", "`2024-05-01`", "trapped liquidity", "do not buy"} {
		if !strings.Contains(msg, want) {
			t.Errorf("missing %q in: %s", want, msg)
		}
	}

	if !strings.Contains(ScamClean(), "not found in scam database") {
		t.Error("clean lookup message wrong")
	}
}

func TestRiskChangeAlert(t *testing.T) {
	msg := RiskChangeAlert("0xabc", "TKN", analysis.RiskLow, analysis.RiskExtreme)
	if !strings.Contains(msg, "`LOW`") || !strings.Contains(msg, "`EXTREME`") {
		t.Errorf("levels missing: %s", msg)
	}
	if !strings.Contains(msg, "🔴") {
		t.Errorf("current level marker missing: %s", msg)
	}
}
