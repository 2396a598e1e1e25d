package driving

import (
	"context"

	"github.com/pulse-labs/productdna/internal/core/domain"
)

// CollectionService runs the collect-enrich-persist pipeline and
// serves the stored Product DNA collection.
type CollectionService interface {
	// Collect runs one pipeline pass. The returned error covers
	// invalid requests only; pipeline failures are reported inside
	// the result.
	Collect(ctx context.Context, req domain.CollectionRequest) (domain.CollectionResult, error)

	// Posts returns stored records matching the filter, newest first.
	Posts(ctx context.Context, filter domain.QueryFilter) ([]domain.EnrichedPost, error)

	// Stats aggregates the stored collection.
	Stats(ctx context.Context) (domain.DNAStats, error)

	// EnsureIndexes creates the store's secondary indexes.
	EnsureIndexes(ctx context.Context) error
}
