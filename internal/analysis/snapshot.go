package analysis

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Source identifies which upstream populated a snapshot.
type Source string

const (
	// SourceMarket means the primary pricing/market API answered.
	SourceMarket Source = "market"
	// SourceExplorer means the block-explorer metadata API answered.
	SourceExplorer Source = "explorer"
	// SourceFallback means every upstream failed and the snapshot is synthetic.
	SourceFallback Source = "fallback"
)

// DefaultDescription is used whenever no upstream supplies one.
const DefaultDescription = "No description available"

// TokenSnapshot is the immutable per-request data bundle every classifier
// consumes. It is always fully populated: numeric fields default to zero and
// the description to an explanatory string when upstreams are unreachable.
type TokenSnapshot struct {
	Address     string
	Symbol      string
	Name        string
	Price       decimal.Decimal
	MarketCap   decimal.Decimal
	Volume24h   decimal.Decimal
	Holders     int64
	Description string
	Source      Source
}

// NewTokenSnapshot builds a snapshot enforcing the data-model invariants:
// negative numerics are clamped to zero and an empty description is replaced
// with the default placeholder.
func NewTokenSnapshot(address, symbol, name string, price, marketCap, volume24h decimal.Decimal, holders int64, description string, source Source) TokenSnapshot {
	if price.IsNegative() {
		price = decimal.Zero
	}
	if marketCap.IsNegative() {
		marketCap = decimal.Zero
	}
	if volume24h.IsNegative() {
		volume24h = decimal.Zero
	}
	if holders < 0 {
		holders = 0
	}
	if strings.TrimSpace(description) == "" {
		description = DefaultDescription
	}

	return TokenSnapshot{
		Address:     address,
		Symbol:      symbol,
		Name:        name,
		Price:       price,
		MarketCap:   marketCap,
		Volume24h:   volume24h,
		Holders:     holders,
		Description: description,
		Source:      source,
	}
}

// SyntheticSnapshot derives a zeroed snapshot from the address alone, used
// when every upstream source is unavailable. The symbol is the uppercased
// first six characters of the address; the name keeps the original casing.
func SyntheticSnapshot(address, description string) TokenSnapshot {
	prefix := address
	if len(prefix) > 6 {
		prefix = prefix[:6]
	}
	return NewTokenSnapshot(
		address,
		strings.ToUpper(prefix),
		"Token "+prefix,
		decimal.Zero,
		decimal.Zero,
		decimal.Zero,
		0,
		description,
		SourceFallback,
	)
}

// SocialPost is one recent social item attached to a SocialSnapshot.
type SocialPost struct {
	Text            string
	CreatedAt       string
	Likes           int64
	Retweets        int64
	Replies         int64
	AuthorHandle    string
	AuthorFollowers int64
}

// Engagement sums the post's interaction counters.
func (p SocialPost) Engagement() int64 {
	return p.Likes + p.Retweets + p.Replies
}

// SocialSnapshot captures per-request social-search results.
type SocialSnapshot struct {
	Mentions       int
	Engagement     int64
	SentimentScore float64
	ActivityLevel  ActivityLevel
	RecentPosts    []SocialPost
}

// EmptySocialSnapshot is the neutral default when the social provider is
// unreachable: zero mentions, neutral sentiment, very low activity.
func EmptySocialSnapshot() SocialSnapshot {
	return SocialSnapshot{
		SentimentScore: 0.5,
		ActivityLevel:  ActivityVeryLow,
		RecentPosts:    []SocialPost{},
	}
}
