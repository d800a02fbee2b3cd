package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyActivityBoundaries(t *testing.T) {
	tests := []struct {
		mentions int
		want     ActivityLevel
	}{
		{0, ActivityVeryLow},
		{10, ActivityVeryLow},
		{11, ActivityLow},
		{100, ActivityLow},
		{101, ActivityMedium},
		{500, ActivityMedium},
		{501, ActivityHigh},
		{1000, ActivityHigh},
		{1001, ActivityVeryHigh},
		{50_000, ActivityVeryHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyActivity(tt.mentions), "mentions=%d", tt.mentions)
	}
}

func TestEngagementSentiment(t *testing.T) {
	// Zero posts is the neutral default.
	assert.Equal(t, 0.5, EngagementSentiment(0, 0))
	assert.Equal(t, 0.5, EngagementSentiment(9_999, 0))

	// 100 interactions per post normalises to 1.0; the score is clamped.
	assert.Equal(t, 1.0, EngagementSentiment(1_000, 10))
	assert.Equal(t, 1.0, EngagementSentiment(100_000, 10))

	assert.InDelta(t, 0.25, EngagementSentiment(250, 10), 1e-9)
	assert.Equal(t, 0.0, EngagementSentiment(0, 10))
}

func TestSocialPostEngagement(t *testing.T) {
	post := SocialPost{Likes: 3, Retweets: 2, Replies: 1}
	assert.Equal(t, int64(6), post.Engagement())
}

func TestEmptySocialSnapshot(t *testing.T) {
	snap := EmptySocialSnapshot()
	assert.Equal(t, 0, snap.Mentions)
	assert.Equal(t, int64(0), snap.Engagement)
	assert.Equal(t, 0.5, snap.SentimentScore)
	assert.Equal(t, ActivityVeryLow, snap.ActivityLevel)
	assert.Empty(t, snap.RecentPosts)
}
