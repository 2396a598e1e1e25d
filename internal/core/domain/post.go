package domain

import "time"

// DeletedAuthor is the sentinel recorded when a post's author account
// is missing or deleted upstream.
const DeletedAuthor = "[deleted]"

// Sentiment classifies the overall tone of a post.
type Sentiment string

const (
	// SentimentPositive indicates a favourable tone.
	SentimentPositive Sentiment = "positive"

	// SentimentNeutral indicates no clear tone. It is also the default
	// when classification is unavailable.
	SentimentNeutral Sentiment = "neutral"

	// SentimentNegative indicates an unfavourable tone.
	SentimentNegative Sentiment = "negative"
)

// Valid reports whether s is one of the defined labels.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	default:
		return false
	}
}

// RawPost is an unprocessed post as returned by the content source.
// It lives only for the duration of one collection run.
type RawPost struct {
	// PostID is the source-assigned identifier.
	PostID string

	// Title is the post title.
	Title string

	// Body is the self-text, empty for link posts.
	Body string

	// Score is the net upvote count.
	Score int

	// URL is the canonical permalink on the source site.
	URL string

	// ExternalURL is the outbound link. Nil for self posts.
	ExternalURL *string

	// Subreddit is the community the post was found in.
	Subreddit string

	// Author is the poster's username, or DeletedAuthor.
	Author string

	// CreatedUTC is the post creation time.
	CreatedUTC time.Time

	// NumComments is the comment count at collection time.
	NumComments int

	// UpvoteRatio is the fraction of votes that were upvotes.
	UpvoteRatio float64

	// IsSelf is true for text posts with no outbound link.
	IsSelf bool
}

// PostMetadata carries the source attributes persisted alongside an
// enriched post.
type PostMetadata struct {
	Score       int       `json:"score"`
	URL         string    `json:"url"`
	Subreddit   string    `json:"subreddit"`
	Author      string    `json:"author"`
	CreatedUTC  time.Time `json:"created_utc"`
	NumComments int       `json:"num_comments"`
	UpvoteRatio float64   `json:"upvote_ratio"`
}

// EnrichedPost is a Product DNA record: a raw post augmented with
// sentiment and summary. PostID is the sole identity key in storage;
// at most one record exists per PostID.
type EnrichedPost struct {
	PostID     string       `json:"post_id"`
	Title      string       `json:"title"`
	Body       string       `json:"body"`
	Sentiment  Sentiment    `json:"sentiment"`
	Summary    string       `json:"summary"`
	Metadata   PostMetadata `json:"metadata"`
	Keywords   []string     `json:"keywords"`
	EnrichedAt time.Time    `json:"enriched_at"`
}
