package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-labs/productdna/internal/core/domain"
	"github.com/pulse-labs/productdna/internal/core/ports/driven"
)

// mockCompleter returns canned responses keyed on the system prompt and
// records every request it receives. The mutex covers the concurrent
// sentiment and summary sub-calls.
type mockCompleter struct {
	sentimentText string
	sentimentErr  error
	summaryText   string
	summaryErr    error

	mu       sync.Mutex
	requests []driven.CompletionRequest
}

func (m *mockCompleter) Complete(_ context.Context, req driven.CompletionRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if req.System == sentimentSystemPrompt {
		return m.sentimentText, m.sentimentErr
	}
	return m.summaryText, m.summaryErr
}

func (m *mockCompleter) requestBySystem(system string) (driven.CompletionRequest, bool) {
	for _, req := range m.requests {
		if strings.HasPrefix(req.System, system) {
			return req, true
		}
	}
	return driven.CompletionRequest{}, false
}

func TestLLMEnricher_Enrich_Success(t *testing.T) {
	mock := &mockCompleter{
		sentimentText: "positive",
		summaryText:   "A founder shares their CRM migration lessons",
	}
	enricher := NewLLMEnricher(mock)

	result, err := enricher.Enrich(context.Background(), "CRM migration", "We moved off spreadsheets.")
	require.NoError(t, err)

	assert.Equal(t, domain.SentimentPositive, result.Sentiment)
	assert.Equal(t, "A founder shares their CRM migration lessons.", result.Summary)
	assert.False(t, result.Degraded())
	assert.Len(t, mock.requests, 2)
}

func TestLLMEnricher_Enrich_NilCompleter(t *testing.T) {
	enricher := NewLLMEnricher(nil)

	result, err := enricher.Enrich(context.Background(), "Some title", "Some body")
	require.NoError(t, err)

	assert.Equal(t, domain.SentimentNeutral, result.Sentiment)
	assert.Equal(t, "Some title...", result.Summary)
	assert.True(t, result.Degraded())
	assert.Contains(t, result.SentimentDegraded, domain.ErrLLMNotConfigured.Error())
	assert.Contains(t, result.SummaryDegraded, domain.ErrLLMNotConfigured.Error())
}

func TestLLMEnricher_Enrich_SentimentFailureDegradesIndependently(t *testing.T) {
	mock := &mockCompleter{
		sentimentErr: errors.New("rate limited"),
		summaryText:  "Summary still works.",
	}
	enricher := NewLLMEnricher(mock)

	result, err := enricher.Enrich(context.Background(), "Title", "Body")
	require.NoError(t, err)

	assert.Equal(t, domain.SentimentNeutral, result.Sentiment)
	assert.Contains(t, result.SentimentDegraded, "rate limited")
	assert.Equal(t, "Summary still works.", result.Summary)
	assert.Empty(t, result.SummaryDegraded)
}

func TestLLMEnricher_Enrich_SummaryFallbackTruncatesTitle(t *testing.T) {
	mock := &mockCompleter{
		sentimentText: "neutral",
		summaryErr:    errors.New("timeout"),
	}
	enricher := NewLLMEnricher(mock)

	longTitle := strings.Repeat("a", 150)
	result, err := enricher.Enrich(context.Background(), longTitle, "Body")
	require.NoError(t, err)

	assert.Equal(t, strings.Repeat("a", titleFallbackLimit)+"...", result.Summary)
	assert.Contains(t, result.SummaryDegraded, "timeout")
}

func TestLLMEnricher_Enrich_BodyCaps(t *testing.T) {
	mock := &mockCompleter{sentimentText: "neutral", summaryText: "ok."}
	enricher := NewLLMEnricher(mock)

	body := strings.Repeat("x", 3000)
	_, err := enricher.Enrich(context.Background(), "Title", body)
	require.NoError(t, err)

	sentReq, ok := mock.requestBySystem(sentimentSystemPrompt)
	require.True(t, ok)
	assert.Contains(t, sentReq.Prompt, strings.Repeat("x", sentimentBodyLimit))
	assert.NotContains(t, sentReq.Prompt, strings.Repeat("x", sentimentBodyLimit+1))

	sumReq, ok := mock.requestBySystem("You are a summarization expert")
	require.True(t, ok)
	assert.Contains(t, sumReq.Prompt, strings.Repeat("x", summaryBodyLimit))
	assert.NotContains(t, sumReq.Prompt, strings.Repeat("x", summaryBodyLimit+1))
}

func TestLLMEnricher_Enrich_EmptyBodyMarker(t *testing.T) {
	mock := &mockCompleter{sentimentText: "neutral", summaryText: "ok."}
	enricher := NewLLMEnricher(mock)

	_, err := enricher.Enrich(context.Background(), "Title only", "")
	require.NoError(t, err)

	for _, req := range mock.requests {
		assert.Contains(t, req.Prompt, "(no content)")
	}
}

func TestLLMEnricher_Enrich_CompletionSettings(t *testing.T) {
	mock := &mockCompleter{sentimentText: "neutral", summaryText: "ok."}
	enricher := NewLLMEnricher(mock)

	_, err := enricher.Enrich(context.Background(), "Title", "Body")
	require.NoError(t, err)

	sentReq, ok := mock.requestBySystem(sentimentSystemPrompt)
	require.True(t, ok)
	assert.Equal(t, sentimentMaxTokens, sentReq.MaxTokens)
	assert.InDelta(t, sentimentTemperature, sentReq.Temperature, 1e-9)

	sumReq, ok := mock.requestBySystem("You are a summarization expert")
	require.True(t, ok)
	assert.Equal(t, summaryMaxTokens, sumReq.MaxTokens)
	assert.InDelta(t, summaryTemperature, sumReq.Temperature, 1e-9)
}

func TestParseSentiment(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.Sentiment
	}{
		{"exact positive", "positive", domain.SentimentPositive},
		{"exact negative", "negative", domain.SentimentNegative},
		{"exact neutral", "neutral", domain.SentimentNeutral},
		{"upper case", "POSITIVE", domain.SentimentPositive},
		{"padded", "  Negative.  ", domain.SentimentNegative},
		{"within sentence", "The sentiment is positive overall", domain.SentimentPositive},
		{"negated still matches", "not positive", domain.SentimentPositive},
		{"both labels prefer positive", "positive and negative aspects", domain.SentimentPositive},
		{"unrecognised", "I cannot tell", domain.SentimentNeutral},
		{"empty", "", domain.SentimentNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSentiment(tt.text))
		})
	}
}

func TestSummaryPunctuation(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		summary string
	}{
		{"adds period", "Summary without ending", "Summary without ending."},
		{"keeps period", "Already ends.", "Already ends."},
		{"keeps exclamation", "Exciting news!", "Exciting news!"},
		{"keeps question", "Is this useful?", "Is this useful?"},
		{"trims whitespace", "  padded text  ", "padded text."},
		{"empty stays empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockCompleter{sentimentText: "neutral", summaryText: tt.text}
			enricher := NewLLMEnricher(mock)

			result, err := enricher.Enrich(context.Background(), "Title", "Body")
			require.NoError(t, err)
			assert.Equal(t, tt.summary, result.Summary)
		})
	}
}
