package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"rugshield/internal/analysis"
)

const recentSearchPath = "/2/tweets/search/recent"

// TwitterOptions parameterise the social-search client.
type TwitterOptions struct {
	BaseURL     string
	BearerToken string
	MaxResults  int
	Timeout     time.Duration
}

// Twitter searches recent tweets mentioning a token and condenses them into
// a SocialSnapshot.
type Twitter struct {
	opts   TwitterOptions
	logger zerolog.Logger
	client *resty.Client
}

// NewTwitter constructs the social-search client.
func NewTwitter(opts TwitterOptions, logger zerolog.Logger) *Twitter {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if opts.MaxResults <= 0 || opts.MaxResults > 100 {
		opts.MaxResults = 100
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.twitter.com"
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetAuthToken(opts.BearerToken)

	return &Twitter{
		opts:   opts,
		logger: logger.With().Str("component", "twitter").Logger(),
		client: client,
	}
}

type tweetMetrics struct {
	RetweetCount int64 `json:"retweet_count"`
	ReplyCount   int64 `json:"reply_count"`
	LikeCount    int64 `json:"like_count"`
}

type tweet struct {
	Text          string       `json:"text"`
	CreatedAt     string       `json:"created_at"`
	AuthorID      string       `json:"author_id"`
	PublicMetrics tweetMetrics `json:"public_metrics"`
}

type tweetUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	PublicMetrics struct {
		FollowersCount int64 `json:"followers_count"`
	} `json:"public_metrics"`
}

type recentSearchResponse struct {
	Data     []tweet `json:"data"`
	Includes struct {
		Users []tweetUser `json:"users"`
	} `json:"includes"`
}

// FetchSocial searches recent tweets for the identifier (cashtag/hashtag,
// plus a truncated form when the identifier is a contract address) and
// returns mention and engagement aggregates with up to five recent posts.
func (t *Twitter) FetchSocial(ctx context.Context, identifier string) (analysis.SocialSnapshot, error) {
	var result recentSearchResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":        buildSocialQuery(identifier),
			"max_results":  fmt.Sprintf("%d", t.opts.MaxResults),
			"tweet.fields": "created_at,public_metrics,lang",
			"expansions":   "author_id",
			"user.fields":  "public_metrics",
		}).
		SetResult(&result).
		Get(recentSearchPath)
	if err != nil {
		return analysis.SocialSnapshot{}, err
	}
	if resp.StatusCode() != 200 {
		return analysis.SocialSnapshot{}, fmt.Errorf("twitter error (%d): %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}

	users := make(map[string]tweetUser, len(result.Includes.Users))
	for _, user := range result.Includes.Users {
		users[user.ID] = user
	}

	var engagement int64
	for _, tw := range result.Data {
		engagement += tw.PublicMetrics.RetweetCount + tw.PublicMetrics.ReplyCount + tw.PublicMetrics.LikeCount
	}

	recent := make([]analysis.SocialPost, 0, 5)
	for _, tw := range result.Data {
		if len(recent) == 5 {
			break
		}
		author := users[tw.AuthorID]
		recent = append(recent, analysis.SocialPost{
			Text:            tw.Text,
			CreatedAt:       tw.CreatedAt,
			Likes:           tw.PublicMetrics.LikeCount,
			Retweets:        tw.PublicMetrics.RetweetCount,
			Replies:         tw.PublicMetrics.ReplyCount,
			AuthorHandle:    author.Username,
			AuthorFollowers: author.PublicMetrics.FollowersCount,
		})
	}

	mentions := len(result.Data)
	return analysis.SocialSnapshot{
		Mentions:       mentions,
		Engagement:     engagement,
		SentimentScore: analysis.EngagementSentiment(engagement, mentions),
		ActivityLevel:  analysis.ClassifyActivity(mentions),
		RecentPosts:    recent,
	}, nil
}

func buildSocialQuery(identifier string) string {
	query := fmt.Sprintf("#%s OR $%s", identifier, identifier)
	if strings.HasPrefix(strings.ToLower(identifier), "0x") && len(identifier) > 10 {
		query += fmt.Sprintf(" OR %s...%s", identifier[:6], identifier[len(identifier)-4:])
	}
	return query
}

var _ SocialProvider = (*Twitter)(nil)
