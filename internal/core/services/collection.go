package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pulse-labs/productdna/internal/core/domain"
	"github.com/pulse-labs/productdna/internal/core/ports/driven"
	"github.com/pulse-labs/productdna/internal/core/ports/driving"
	"github.com/pulse-labs/productdna/internal/logger"
)

// Ensure DNAService implements the interface.
var _ driving.CollectionService = (*DNAService)(nil)

// DNAService orchestrates the Product DNA pipeline: collect posts
// from the content source, enrich each one, persist the results.
type DNAService struct {
	source   driven.PostSource
	enricher Enricher
	store    driven.PostStore
	now      func() time.Time
}

// NewDNAService wires the pipeline's collaborators together.
func NewDNAService(source driven.PostSource, enricher Enricher, store driven.PostStore) *DNAService {
	return &DNAService{
		source:   source,
		enricher: enricher,
		store:    store,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Collect runs one pipeline pass: Collecting -> Enriching ->
// Persisting -> Done. Collection is all-or-nothing; the later stages
// commit forward item by item regardless of partial failure. There
// are no retries at any stage - re-running the whole request is safe
// because persistence is idempotent by post ID.
func (s *DNAService) Collect(ctx context.Context, req domain.CollectionRequest) (domain.CollectionResult, error) {
	result := domain.CollectionResult{
		Errors: []string{},
		Sample: []domain.EnrichedPost{},
	}

	if err := req.Validate(); err != nil {
		return result, err
	}

	// Short id correlating log lines of one run.
	runID := uuid.NewString()[:8]

	logger.Info("[%s] collecting posts for keywords %v", runID, req.Keywords)

	raw, err := s.source.Search(ctx, req.Keywords, req.Subreddits, req.Limit, req.Window)
	if err != nil {
		logger.Error("[%s] collection pipeline error: %v", runID, err)
		result.Errors = append(result.Errors, fmt.Sprintf("pipeline error: %v", err))
		return result, nil
	}
	result.PostsCollected = len(raw)
	logger.Info("[%s] collected %d posts", runID, result.PostsCollected)

	// Enrichment is strictly sequential across posts: the completion
	// service is rate limited upstream, and the ordering is part of
	// the pipeline's contract. Only the two sub-calls within one post
	// run concurrently.
	enriched := make([]domain.EnrichedPost, 0, len(raw))
	for _, post := range raw {
		outcome, err := s.enricher.Enrich(ctx, post.Title, post.Body)
		if err != nil {
			logger.Warn("[%s] failed to enrich post %s: %v", runID, post.PostID, err)
			result.Errors = append(result.Errors, fmt.Sprintf("enrichment failed for %s: %v", post.PostID, err))
			continue
		}
		if outcome.Degraded() {
			logger.Debug("[%s] post %s enriched with defaults (sentiment=%q summary=%q)",
				runID, post.PostID, outcome.SentimentDegraded, outcome.SummaryDegraded)
		}
		enriched = append(enriched, s.buildRecord(post, outcome, req.Keywords))
		result.PostsEnriched++
	}
	logger.Info("[%s] enriched %d/%d posts", runID, result.PostsEnriched, result.PostsCollected)

	// Upsert failures are logged only; they never appear in
	// result.Errors and the affected post is excluded from the
	// stored count.
	for _, record := range enriched {
		stored, err := s.store.Upsert(ctx, record)
		if err != nil {
			logger.Error("[%s] failed to store post %s: %v", runID, record.PostID, err)
			continue
		}
		if stored {
			result.PostsStored++
		}
	}
	logger.Info("[%s] stored %d posts", runID, result.PostsStored)

	result.Success = len(result.Errors) == 0
	sampleLen := len(enriched)
	if sampleLen > domain.SampleSize {
		sampleLen = domain.SampleSize
	}
	result.Sample = enriched[:sampleLen]

	return result, nil
}

// buildRecord assembles the persisted record for one enriched post.
func (s *DNAService) buildRecord(post domain.RawPost, outcome domain.Enrichment, keywords []string) domain.EnrichedPost {
	return domain.EnrichedPost{
		PostID:    post.PostID,
		Title:     post.Title,
		Body:      post.Body,
		Sentiment: outcome.Sentiment,
		Summary:   outcome.Summary,
		Metadata: domain.PostMetadata{
			Score:       post.Score,
			URL:         post.URL,
			Subreddit:   post.Subreddit,
			Author:      post.Author,
			CreatedUTC:  post.CreatedUTC,
			NumComments: post.NumComments,
			UpvoteRatio: post.UpvoteRatio,
		},
		Keywords:   append([]string(nil), keywords...),
		EnrichedAt: s.now(),
	}
}

// Posts returns stored records matching the filter, newest first.
func (s *DNAService) Posts(ctx context.Context, filter domain.QueryFilter) ([]domain.EnrichedPost, error) {
	if err := filter.Normalize(); err != nil {
		return nil, err
	}
	return s.store.Query(ctx, filter)
}

// Stats aggregates the stored collection.
func (s *DNAService) Stats(ctx context.Context) (domain.DNAStats, error) {
	return s.store.Stats(ctx)
}

// EnsureIndexes creates the store's secondary indexes.
func (s *DNAService) EnsureIndexes(ctx context.Context) error {
	return s.store.EnsureIndexes(ctx)
}
