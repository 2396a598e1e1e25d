package driven

import (
	"context"

	"github.com/pulse-labs/productdna/internal/core/domain"
)

// PostStore persists enriched posts keyed by their source post ID.
type PostStore interface {
	// Upsert inserts or replaces the record for post.PostID. It
	// reports true when a row was written (new record or changed
	// content) and false when an identical record already exists.
	// The enrichment timestamp alone does not count as a change.
	Upsert(ctx context.Context, post domain.EnrichedPost) (bool, error)

	// Query returns stored records matching the filter, newest
	// enrichment first.
	Query(ctx context.Context, filter domain.QueryFilter) ([]domain.EnrichedPost, error)

	// Stats aggregates the stored collection.
	Stats(ctx context.Context) (domain.DNAStats, error)

	// EnsureIndexes creates the secondary indexes used by Query and
	// Stats. Safe to call repeatedly.
	EnsureIndexes(ctx context.Context) error
}
