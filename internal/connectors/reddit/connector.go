// Package reddit implements the content-source connector against
// Reddit's public JSON listing API. It enforces a minimum spacing
// between outbound calls and maps listing entries to domain.RawPost.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pulse-labs/productdna/internal/core/domain"
	"github.com/pulse-labs/productdna/internal/core/ports/driven"
	"github.com/pulse-labs/productdna/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.PostSource = (*Connector)(nil)

// Default configuration values.
const (
	DefaultBaseURL   = "https://www.reddit.com"
	DefaultUserAgent = "productdna/1.0"
	DefaultTimeout   = 30 * time.Second

	// DefaultRequestInterval is the minimum spacing between outbound
	// calls: one request per second.
	DefaultRequestInterval = time.Second
)

// searchFallbackSubreddits is used when a search names no communities
// at all (request-level defaulting normally prevents this).
var searchFallbackSubreddits = []string{"marketing", "socialmedia", "smallbusiness", "Entrepreneur"}

// Config holds configuration for the Reddit connector.
type Config struct {
	// BaseURL is the API root (default: https://www.reddit.com).
	BaseURL string

	// UserAgent identifies the client; Reddit throttles anonymous
	// default agents aggressively.
	UserAgent string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// RequestInterval is the minimum spacing between calls
	// (default: 1s).
	RequestInterval time.Duration
}

// Connector fetches posts from Reddit under a one-slot rate gate.
type Connector struct {
	baseURL   string
	userAgent string
	client    *http.Client
	gate      *rate.Limiter
}

// New creates a Reddit connector from configuration.
func New(cfg Config) *Connector {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestInterval == 0 {
		cfg.RequestInterval = DefaultRequestInterval
	}

	return &Connector{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
		// Burst 1: the gate admits one call, then spaces the rest.
		gate: rate.NewLimiter(rate.Every(cfg.RequestInterval), 1),
	}
}

// Search returns up to limit posts matching the OR-combined keywords
// across the given subreddits. It fails as a single unit: any
// transport or API error aborts the whole call with no partial batch.
func (c *Connector) Search(ctx context.Context, keywords, subreddits []string, limit int, window domain.TimeWindow) ([]domain.RawPost, error) {
	if len(subreddits) == 0 {
		subreddits = searchFallbackSubreddits
	}

	// The gate suspends only this goroutine; unrelated work keeps
	// running while we wait out the interval.
	if err := c.gate.Wait(ctx); err != nil {
		return nil, err
	}

	query := strings.Join(keywords, " OR ")
	multi := strings.Join(subreddits, "+")

	logger.Info("searching reddit: %q in r/%s", query, multi)

	listing, err := c.search(ctx, multi, query, limit, window)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}

	posts := make([]domain.RawPost, 0, limit)
	for _, child := range listing.Data.Children {
		posts = append(posts, extractPost(child.Data))
		if len(posts) >= limit {
			break
		}
	}

	logger.Info("found %d posts matching query", len(posts))
	return posts, nil
}

// search performs the HTTP call against /r/<multi>/search.json.
func (c *Connector) search(ctx context.Context, multi, query string, limit int, window domain.TimeWindow) (*listingEnvelope, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("restrict_sr", "1")
	params.Set("sort", "relevance")
	params.Set("t", string(window))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("raw_json", "1")

	endpoint := fmt.Sprintf("%s/r/%s/search.json?%s", c.baseURL, url.PathEscape(multi), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("reddit error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var listing listingEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &listing, nil
}

// extractPost maps one listing entry to the domain type.
func extractPost(sub submission) domain.RawPost {
	author := sub.Author
	if author == "" {
		author = domain.DeletedAuthor
	}

	// Link posts carry the outbound target in url; self posts repeat
	// their own permalink there, so it is dropped.
	var external *string
	if !sub.IsSelf && sub.URL != "" {
		u := sub.URL
		external = &u
	}

	sec, frac := int64(sub.CreatedUTC), sub.CreatedUTC-float64(int64(sub.CreatedUTC))

	return domain.RawPost{
		PostID:      sub.ID,
		Title:       sub.Title,
		Body:        sub.Selftext,
		Score:       sub.Score,
		URL:         "https://reddit.com" + sub.Permalink,
		ExternalURL: external,
		Subreddit:   sub.Subreddit,
		Author:      author,
		CreatedUTC:  time.Unix(sec, int64(frac*float64(time.Second))).UTC(),
		NumComments: sub.NumComments,
		UpvoteRatio: sub.UpvoteRatio,
		IsSelf:      sub.IsSelf,
	}
}
