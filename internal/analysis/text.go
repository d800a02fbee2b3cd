package analysis

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Sentiment is the categorical description sentiment.
type Sentiment string

// SocialPresence buckets the holder base as a social-reach proxy.
type SocialPresence string

// CommunityEngagement buckets trading activity as an engagement proxy.
type CommunityEngagement string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"

	PresenceHigh   SocialPresence = "high"
	PresenceMedium SocialPresence = "medium"
	PresenceLow    SocialPresence = "low"

	EngagementActive   CommunityEngagement = "active"
	EngagementModerate CommunityEngagement = "moderate"
	EngagementMinimal  CommunityEngagement = "minimal"
)

// Fixed keyword lists. Matching is case-insensitive substring presence; each
// listed term counts at most once regardless of repetition.
var (
	positiveWords = []string{"secure", "safe", "trusted", "verified", "audited", "reliable"}
	negativeWords = []string{"scam", "fake", "suspicious", "unverified", "risky", "warning"}

	technicalTerms = []string{"smart contract", "blockchain", "tokenomics", "liquidity", "audit"}
	hypeTerms      = []string{"guaranteed", "100x", "moon", "get rich", "quick profit"}
)

// DescriptionAnalysis records raw signals extracted from the description.
type DescriptionAnalysis struct {
	Length            int  `json:"length"`
	HasTechnicalTerms bool `json:"has_technical_terms"`
	HasWarningSigns   bool `json:"has_warning_signs"`
}

// TextAnalysis scores a free-text token description together with coarse
// market signals.
type TextAnalysis struct {
	Sentiment           Sentiment           `json:"sentiment"`
	CredibilityScore    float64             `json:"credibility_score"`
	SocialPresence      SocialPresence      `json:"social_media_presence"`
	CommunityEngagement CommunityEngagement `json:"community_engagement"`
	Description         DescriptionAnalysis `json:"description_analysis"`
}

// ScoreText derives sentiment and a 0..1 credibility score from the token
// description, plus social-presence and engagement proxies from holders and
// volume. Pure and total; an empty description yields the neutral defaults
// (credibility exactly 0.5).
func ScoreText(description string, holders int64, volume24h, marketCap decimal.Decimal) TextAnalysis {
	lower := strings.ToLower(description)

	sentiment := SentimentNeutral
	credibility := 0.5
	var descAnalysis DescriptionAnalysis

	if description != "" {
		positive := countPresent(lower, positiveWords)
		negative := countPresent(lower, negativeWords)
		switch {
		case positive > negative:
			sentiment = SentimentPositive
		case negative > positive:
			sentiment = SentimentNegative
		}

		// Credibility blends three clamped sub-scores: length (max at 500
		// chars), technical-term coverage, and absence of hype terms.
		lengthScore := float64(len(description)) / 500
		if lengthScore > 1 {
			lengthScore = 1
		}
		technicalScore := float64(countPresent(lower, technicalTerms)) / float64(len(technicalTerms))
		warningScore := 1 - float64(countPresent(lower, hypeTerms))/float64(len(hypeTerms))
		credibility = (lengthScore + technicalScore + warningScore) / 3

		descAnalysis = DescriptionAnalysis{
			Length:            len(description),
			HasTechnicalTerms: technicalScore > 0,
			HasWarningSigns:   warningScore < 1,
		}
	}

	presence := PresenceLow
	switch {
	case holders > 1_000:
		presence = PresenceHigh
	case holders > 100:
		presence = PresenceMedium
	}

	engagement := EngagementMinimal
	switch {
	case volume24h.GreaterThan(marketCap.Mul(ratioTenth)):
		engagement = EngagementActive
	case volume24h.GreaterThan(marketCap.Mul(ratioHundredth)):
		engagement = EngagementModerate
	}

	return TextAnalysis{
		Sentiment:           sentiment,
		CredibilityScore:    credibility,
		SocialPresence:      presence,
		CommunityEngagement: engagement,
		Description:         descAnalysis,
	}
}

func countPresent(haystack string, terms []string) int {
	count := 0
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			count++
		}
	}
	return count
}
