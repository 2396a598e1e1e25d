package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-labs/productdna/internal/core/domain"
)

const testListing = `{
	"data": {
		"children": [
			{"data": {
				"id": "abc123",
				"title": "Struggling with invoicing tools",
				"selftext": "Every tool I try is too complex.",
				"score": 57,
				"permalink": "/r/smallbusiness/comments/abc123/struggling/",
				"url": "https://www.reddit.com/r/smallbusiness/comments/abc123/struggling/",
				"subreddit": "smallbusiness",
				"author": "founder42",
				"created_utc": 1748779200.0,
				"num_comments": 14,
				"upvote_ratio": 0.93,
				"is_self": true
			}},
			{"data": {
				"id": "def456",
				"title": "New CRM comparison chart",
				"selftext": "",
				"score": 12,
				"permalink": "/r/marketing/comments/def456/comparison/",
				"url": "https://example.com/crm-chart",
				"subreddit": "marketing",
				"author": "",
				"created_utc": 1748692800.5,
				"num_comments": 3,
				"upvote_ratio": 0.71,
				"is_self": false
			}}
		]
	}
}`

// newTestConnector points a connector at a stub server with the rate
// gate effectively disabled.
func newTestConnector(t *testing.T, handler http.HandlerFunc) *Connector {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(Config{
		BaseURL:         server.URL,
		UserAgent:       "productdna-test/1.0",
		RequestInterval: time.Nanosecond,
	})
}

func TestConnector_Search_QueryConstruction(t *testing.T) {
	var captured *http.Request
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		w.Write([]byte(`{"data": {"children": []}}`))
	})

	_, err := conn.Search(context.Background(),
		[]string{"crm", "invoicing"},
		[]string{"marketing", "smallbusiness"},
		25, domain.WindowMonth)
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, "/r/marketing+smallbusiness/search.json", captured.URL.Path)

	query := captured.URL.Query()
	assert.Equal(t, "crm OR invoicing", query.Get("q"))
	assert.Equal(t, "1", query.Get("restrict_sr"))
	assert.Equal(t, "relevance", query.Get("sort"))
	assert.Equal(t, "month", query.Get("t"))
	assert.Equal(t, "25", query.Get("limit"))
	assert.Equal(t, "1", query.Get("raw_json"))
	assert.Equal(t, "productdna-test/1.0", captured.Header.Get("User-Agent"))
}

func TestConnector_Search_Extraction(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(testListing))
	})

	posts, err := conn.Search(context.Background(), []string{"crm"}, []string{"marketing"}, 10, domain.WindowWeek)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	self := posts[0]
	assert.Equal(t, "abc123", self.PostID)
	assert.Equal(t, "Struggling with invoicing tools", self.Title)
	assert.Equal(t, "Every tool I try is too complex.", self.Body)
	assert.Equal(t, 57, self.Score)
	assert.Equal(t, "https://reddit.com/r/smallbusiness/comments/abc123/struggling/", self.URL)
	assert.Nil(t, self.ExternalURL)
	assert.Equal(t, "smallbusiness", self.Subreddit)
	assert.Equal(t, "founder42", self.Author)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), self.CreatedUTC)
	assert.Equal(t, 14, self.NumComments)
	assert.InDelta(t, 0.93, self.UpvoteRatio, 1e-9)
	assert.True(t, self.IsSelf)

	link := posts[1]
	assert.Equal(t, domain.DeletedAuthor, link.Author)
	require.NotNil(t, link.ExternalURL)
	assert.Equal(t, "https://example.com/crm-chart", *link.ExternalURL)
	assert.False(t, link.IsSelf)
}

func TestConnector_Search_TruncatesToLimit(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(testListing))
	})

	posts, err := conn.Search(context.Background(), []string{"crm"}, []string{"marketing"}, 1, domain.WindowWeek)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "abc123", posts[0].PostID)
}

func TestConnector_Search_FallbackSubreddits(t *testing.T) {
	var captured string
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Path
		w.Write([]byte(`{"data": {"children": []}}`))
	})

	_, err := conn.Search(context.Background(), []string{"crm"}, nil, 10, domain.WindowWeek)
	require.NoError(t, err)
	assert.Equal(t, "/r/marketing+socialmedia+smallbusiness+Entrepreneur/search.json", captured)
}

func TestConnector_Search_ServerError(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	_, err := conn.Search(context.Background(), []string{"crm"}, []string{"marketing"}, 10, domain.WindowWeek)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.Contains(t, err.Error(), "status 502")
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestConnector_Search_MalformedResponse(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>rate limited</html>"))
	})

	_, err := conn.Search(context.Background(), []string{"crm"}, []string{"marketing"}, 10, domain.WindowWeek)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestConnector_Search_RateGateSpacing(t *testing.T) {
	var calls []time.Time
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls = append(calls, time.Now())
		w.Write([]byte(`{"data": {"children": []}}`))
	}))
	defer server.Close()

	interval := 50 * time.Millisecond
	conn := New(Config{BaseURL: server.URL, RequestInterval: interval})

	for i := 0; i < 3; i++ {
		_, err := conn.Search(context.Background(), []string{"crm"}, []string{"marketing"}, 10, domain.WindowWeek)
		require.NoError(t, err)
	}

	require.Len(t, calls, 3)
	// First call passes immediately; the rest are spaced out.
	assert.GreaterOrEqual(t, calls[1].Sub(calls[0]), interval/2)
	assert.GreaterOrEqual(t, calls[2].Sub(calls[1]), interval/2)
}

func TestConnector_Search_ContextCancelled(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data": {"children": []}}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conn.Search(ctx, []string{"crm"}, []string{"marketing"}, 10, domain.WindowWeek)
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	conn := New(Config{})
	assert.Equal(t, DefaultBaseURL, conn.baseURL)
	assert.Equal(t, DefaultUserAgent, conn.userAgent)
	assert.Equal(t, DefaultTimeout, conn.client.Timeout)
}
