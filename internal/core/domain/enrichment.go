package domain

// Enrichment is the outcome of analysing one post. Either half may be
// a degraded default; the cause fields make that visible to callers
// instead of hiding it behind a silent fallback.
type Enrichment struct {
	// Sentiment is the classified label, never empty.
	Sentiment Sentiment

	// Summary is the one-sentence summary, terminated with
	// punctuation.
	Summary string

	// SentimentDegraded holds the failure cause when Sentiment fell
	// back to neutral. Empty on a successful classification.
	SentimentDegraded string

	// SummaryDegraded holds the failure cause when Summary fell back
	// to the truncated title. Empty on a successful summarisation.
	SummaryDegraded string
}

// Degraded reports whether either half of the enrichment was
// defaulted.
func (e Enrichment) Degraded() bool {
	return e.SentimentDegraded != "" || e.SummaryDegraded != ""
}
