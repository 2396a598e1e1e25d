package domain

import (
	"fmt"
	"time"
)

// TimeWindow is the recency filter applied to a content-source search.
type TimeWindow string

// Supported time windows, matching the source API's filter values.
const (
	WindowHour  TimeWindow = "hour"
	WindowDay   TimeWindow = "day"
	WindowWeek  TimeWindow = "week"
	WindowMonth TimeWindow = "month"
	WindowYear  TimeWindow = "year"
	WindowAll   TimeWindow = "all"
)

// Valid reports whether w is a supported window.
func (w TimeWindow) Valid() bool {
	switch w {
	case WindowHour, WindowDay, WindowWeek, WindowMonth, WindowYear, WindowAll:
		return true
	default:
		return false
	}
}

// Collection request bounds and defaults.
const (
	DefaultCollectLimit = 10
	MaxCollectLimit     = 100
	DefaultQueryLimit   = 50
	MaxQueryLimit       = 500

	// SampleSize is the maximum number of enriched records returned
	// inline with a collection result.
	SampleSize = 3
)

// DefaultSubreddits is the community list used when a collection
// request does not name any.
var DefaultSubreddits = []string{"marketing", "socialmedia", "smallbusiness"}

// CollectionRequest describes one run of the collection pipeline.
type CollectionRequest struct {
	// Keywords are the search terms, OR-combined into one query.
	// At least one is required.
	Keywords []string `json:"keywords"`

	// Subreddits are the communities to search. Defaults to
	// DefaultSubreddits when empty.
	Subreddits []string `json:"subreddits"`

	// Limit is the maximum number of posts to collect (1-100,
	// default 10).
	Limit int `json:"limit"`

	// Window restricts results by post age (default week).
	Window TimeWindow `json:"time_filter"`
}

// Validate applies defaults and rejects out-of-range values.
func (r *CollectionRequest) Validate() error {
	if len(r.Keywords) == 0 {
		return fmt.Errorf("%w: at least one keyword is required", ErrInvalidInput)
	}
	if len(r.Subreddits) == 0 {
		r.Subreddits = append([]string(nil), DefaultSubreddits...)
	}
	if r.Limit == 0 {
		r.Limit = DefaultCollectLimit
	}
	if r.Limit < 1 || r.Limit > MaxCollectLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, MaxCollectLimit)
	}
	if r.Window == "" {
		r.Window = WindowWeek
	}
	if !r.Window.Valid() {
		return fmt.Errorf("%w: unknown time filter %q", ErrInvalidInput, r.Window)
	}
	return nil
}

// CollectionResult summarises one collection run.
//
// Success is true only when Errors is empty. Degraded enrichments
// (defaulted sentiment or summary) are not errors and leave Success
// untouched.
type CollectionResult struct {
	Success        bool           `json:"success"`
	PostsCollected int            `json:"posts_collected"`
	PostsEnriched  int            `json:"posts_enriched"`
	PostsStored    int            `json:"posts_stored"`
	Errors         []string       `json:"errors"`
	Sample         []EnrichedPost `json:"sample"`
}

// QueryFilter selects stored records for retrieval.
type QueryFilter struct {
	// Sentiment filters to an exact label when non-empty.
	Sentiment Sentiment

	// Subreddit filters to an exact community when non-empty.
	Subreddit string

	// Limit is the maximum number of records (1-500, default 50).
	Limit int

	// Skip is the number of records to pass over for pagination.
	Skip int
}

// Normalize applies defaults and rejects out-of-range values.
func (f *QueryFilter) Normalize() error {
	if f.Sentiment != "" && !f.Sentiment.Valid() {
		return fmt.Errorf("%w: unknown sentiment %q", ErrInvalidInput, f.Sentiment)
	}
	if f.Limit == 0 {
		f.Limit = DefaultQueryLimit
	}
	if f.Limit < 1 || f.Limit > MaxQueryLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, MaxQueryLimit)
	}
	if f.Skip < 0 {
		return fmt.Errorf("%w: skip must not be negative", ErrInvalidInput)
	}
	return nil
}

// DNAStats aggregates the stored Product DNA collection. BySentiment
// and BySubreddit each sum to TotalPosts.
type DNAStats struct {
	TotalPosts  int            `json:"total_posts"`
	BySentiment map[string]int `json:"by_sentiment"`
	BySubreddit map[string]int `json:"by_subreddit"`

	// LastEnrichedAt is the most recent enrichment timestamp across
	// all records, nil when the collection is empty.
	LastEnrichedAt *time.Time `json:"last_collection"`
}
