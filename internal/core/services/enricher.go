package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pulse-labs/productdna/internal/core/domain"
	"github.com/pulse-labs/productdna/internal/core/ports/driven"
	"github.com/pulse-labs/productdna/internal/logger"
)

// Enricher produces sentiment and summary for one post.
type Enricher interface {
	// Enrich analyses a post. It degrades to defaults on completion
	// failures; the returned error covers only faults outside the two
	// guarded analysis paths.
	Enrich(ctx context.Context, title, body string) (domain.Enrichment, error)
}

// Prompt templates sent to the completion service.
const (
	sentimentSystemPrompt = "You are a sentiment analysis expert. Respond with only one word."

	sentimentPrompt = `Analyze the sentiment of the following social media post.
Respond with exactly one word: positive, neutral, or negative.

Title: %s
Content: %s

Sentiment:`

	summarySystemPrompt = "You are a summarization expert. Keep summaries under %d words."

	summaryPrompt = `Summarize the following social media post in one concise sentence (maximum %d words).
Focus on the main topic, user intent, and any key insights.

Title: %s
Content: %s

Summary:`
)

// Enrichment limits. Body text is capped before prompting; the word
// target for summaries is soft, enforced only through the prompt.
const (
	sentimentBodyLimit = 1000
	summaryBodyLimit   = 2000
	summaryMaxWords    = 25
	titleFallbackLimit = 100

	sentimentMaxTokens   = 10
	sentimentTemperature = 0.1
	summaryMaxTokens     = 100
	summaryTemperature   = 0.3
)

// Ensure LLMEnricher implements the interface.
var _ Enricher = (*LLMEnricher)(nil)

// LLMEnricher enriches posts through a completion service. A nil
// completer is valid; every call then degrades to defaults.
type LLMEnricher struct {
	llm driven.TextCompleter
}

// NewLLMEnricher creates an enricher backed by the given completer.
func NewLLMEnricher(llm driven.TextCompleter) *LLMEnricher {
	return &LLMEnricher{llm: llm}
}

// Enrich runs sentiment classification and summarisation concurrently.
// The two sub-calls degrade independently, so the combined call fails
// only on a fault outside those guarded paths.
func (e *LLMEnricher) Enrich(ctx context.Context, title, body string) (domain.Enrichment, error) {
	var result domain.Enrichment

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.Sentiment, result.SentimentDegraded = e.classifySentiment(gctx, title, body)
		return nil
	})
	g.Go(func() error {
		result.Summary, result.SummaryDegraded = e.summarise(gctx, title, body)
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Enrichment{}, err
	}

	return result, nil
}

// classifySentiment returns the label plus a degradation cause, empty
// when the classification succeeded. Failures resolve to neutral.
func (e *LLMEnricher) classifySentiment(ctx context.Context, title, body string) (domain.Sentiment, string) {
	text, err := e.complete(ctx, driven.CompletionRequest{
		System:      sentimentSystemPrompt,
		Prompt:      fmt.Sprintf(sentimentPrompt, title, promptContent(body, sentimentBodyLimit)),
		MaxTokens:   sentimentMaxTokens,
		Temperature: sentimentTemperature,
	})
	if err != nil {
		logger.Warn("sentiment analysis failed, defaulting to neutral: %v", err)
		return domain.SentimentNeutral, err.Error()
	}

	return ParseSentiment(text), ""
}

// summarise returns the summary plus a degradation cause, empty when
// the summarisation succeeded. Failures resolve to the truncated
// title.
func (e *LLMEnricher) summarise(ctx context.Context, title, body string) (string, string) {
	text, err := e.complete(ctx, driven.CompletionRequest{
		System:      fmt.Sprintf(summarySystemPrompt, summaryMaxWords),
		Prompt:      fmt.Sprintf(summaryPrompt, summaryMaxWords, title, promptContent(body, summaryBodyLimit)),
		MaxTokens:   summaryMaxTokens,
		Temperature: summaryTemperature,
	})
	if err != nil {
		logger.Warn("summary generation failed, falling back to title: %v", err)
		return truncate(title, titleFallbackLimit) + "...", err.Error()
	}

	summary := strings.TrimSpace(text)
	if summary != "" && !strings.HasSuffix(summary, ".") &&
		!strings.HasSuffix(summary, "!") && !strings.HasSuffix(summary, "?") {
		summary += "."
	}

	return summary, ""
}

func (e *LLMEnricher) complete(ctx context.Context, req driven.CompletionRequest) (string, error) {
	if e.llm == nil {
		return "", domain.ErrLLMNotConfigured
	}
	return e.llm.Complete(ctx, req)
}

// ParseSentiment maps completion text to a label. Matching is by
// substring containment on the lower-cased text, positive checked
// before negative: text containing both substrings classifies
// positive, and negated phrases like "not positive" classify positive
// as well. That quirk is long-standing pipeline behaviour and is kept
// as is.
func ParseSentiment(text string) domain.Sentiment {
	normalized := strings.ToLower(strings.TrimSpace(text))
	switch {
	case strings.Contains(normalized, "positive"):
		return domain.SentimentPositive
	case strings.Contains(normalized, "negative"):
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

// promptContent caps the body for prompting, substituting a marker
// for empty posts.
func promptContent(body string, limit int) string {
	if body == "" {
		return "(no content)"
	}
	return truncate(body, limit)
}

// truncate cuts s to at most limit runes.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
