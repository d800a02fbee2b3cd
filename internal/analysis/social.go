package analysis

// ActivityLevel is the ordinal bucket of social mention volume.
type ActivityLevel string

const (
	ActivityVeryHigh ActivityLevel = "very_high"
	ActivityHigh     ActivityLevel = "high"
	ActivityMedium   ActivityLevel = "medium"
	ActivityLow      ActivityLevel = "low"
	ActivityVeryLow  ActivityLevel = "very_low"
)

// ClassifyActivity maps a mention count into an activity level. Boundaries
// are strict: exactly 1000 mentions is high, 1001 is very_high.
func ClassifyActivity(mentions int) ActivityLevel {
	switch {
	case mentions > 1_000:
		return ActivityVeryHigh
	case mentions > 500:
		return ActivityHigh
	case mentions > 100:
		return ActivityMedium
	case mentions > 10:
		return ActivityLow
	default:
		return ActivityVeryLow
	}
}

// EngagementSentiment is the engagement-based sentiment proxy: total
// engagement normalised by 100 interactions per post, clamped to [0,1].
// Zero posts yields the neutral 0.5.
func EngagementSentiment(totalEngagement int64, posts int) float64 {
	if posts == 0 {
		return 0.5
	}
	score := float64(totalEngagement) / (float64(posts) * 100)
	if score > 1 {
		return 1
	}
	return score
}
