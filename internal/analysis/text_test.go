package analysis

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestScoreTextEmptyDescription(t *testing.T) {
	got := ScoreText("", 0, decimal.Zero, decimal.Zero)

	assert.Equal(t, SentimentNeutral, got.Sentiment)
	assert.Equal(t, 0.5, got.CredibilityScore)
	assert.Equal(t, PresenceLow, got.SocialPresence)
	assert.Equal(t, EngagementMinimal, got.CommunityEngagement)
	assert.Equal(t, 0, got.Description.Length)
}

func TestScoreTextSentiment(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        Sentiment
	}{
		{
			name:        "positive keywords dominate",
			description: "Fully audited and verified project with a trusted team",
			want:        SentimentPositive,
		},
		{
			name:        "negative keywords dominate",
			description: "Looks like a scam, unverified and risky",
			want:        SentimentNegative,
		},
		{
			name:        "balanced keywords stay neutral",
			description: "audited but risky",
			want:        SentimentNeutral,
		},
		{
			name:        "matching is case-insensitive",
			description: "SCAM WARNING do not buy",
			want:        SentimentNegative,
		},
		{
			name:        "each keyword counts once",
			description: "scam scam scam but audited verified",
			want:        SentimentPositive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreText(tt.description, 0, decimal.Zero, decimal.Zero)
			assert.Equal(t, tt.want, got.Sentiment)
		})
	}
}

func TestScoreTextCredibility(t *testing.T) {
	// 100 chars, one technical term, no hype:
	// (0.2 + 0.2 + 1.0) / 3
	desc := "This blockchain project does useful things. " + strings.Repeat("x", 56)
	got := ScoreText(desc, 0, decimal.Zero, decimal.Zero)
	assert.InDelta(t, (0.2+0.2+1.0)/3, got.CredibilityScore, 1e-9)
	assert.True(t, got.Description.HasTechnicalTerms)
	assert.False(t, got.Description.HasWarningSigns)
	assert.Equal(t, 100, got.Description.Length)

	// Hype terms drag the warning sub-score down.
	hype := "guaranteed 100x moon get rich quick profit " + strings.Repeat("y", 57)
	got = ScoreText(hype, 0, decimal.Zero, decimal.Zero)
	assert.True(t, got.Description.HasWarningSigns)
	assert.InDelta(t, (0.2+0.0+0.0)/3, got.CredibilityScore, 1e-9)
}

func TestScoreTextCredibilityBounds(t *testing.T) {
	inputs := []string{
		"",
		"x",
		strings.Repeat("long description ", 100),
		"smart contract blockchain tokenomics liquidity audit",
		"guaranteed 100x moon get rich quick profit",
	}
	for _, desc := range inputs {
		got := ScoreText(desc, 0, decimal.Zero, decimal.Zero)
		assert.GreaterOrEqual(t, got.CredibilityScore, 0.0, "description %q", desc)
		assert.LessOrEqual(t, got.CredibilityScore, 1.0, "description %q", desc)
	}
}

func TestScoreTextLengthScoreCaps(t *testing.T) {
	long := strings.Repeat("a", 600)
	got := ScoreText(long, 0, decimal.Zero, decimal.Zero)
	// length capped at 1, no technical terms, no hype: (1 + 0 + 1) / 3
	assert.InDelta(t, 2.0/3, got.CredibilityScore, 1e-9)
	assert.Equal(t, 600, got.Description.Length)
}

func TestScoreTextPresenceAndEngagement(t *testing.T) {
	tests := []struct {
		name           string
		holders        int64
		volume24h      int64
		marketCap      int64
		wantPresence   SocialPresence
		wantEngagement CommunityEngagement
	}{
		{"large base active market", 5_000, 200_000, 1_000_000, PresenceHigh, EngagementActive},
		{"medium base moderate market", 500, 20_000, 1_000_000, PresenceMedium, EngagementModerate},
		{"small base quiet market", 50, 1_000, 1_000_000, PresenceLow, EngagementMinimal},
		{"boundary holders are exclusive", 1_000, 0, 0, PresenceMedium, EngagementMinimal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreText("irrelevant", tt.holders, decimal.NewFromInt(tt.volume24h), decimal.NewFromInt(tt.marketCap))
			assert.Equal(t, tt.wantPresence, got.SocialPresence)
			assert.Equal(t, tt.wantEngagement, got.CommunityEngagement)
		})
	}
}
