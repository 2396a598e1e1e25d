package driven

import (
	"context"

	"github.com/pulse-labs/productdna/internal/core/domain"
)

// PostSource fetches raw posts from an external content source.
//
// Implementations must enforce their own outbound rate limits and
// fail as a single unit: an error means no partial batch.
type PostSource interface {
	// Search returns up to limit posts matching the OR-combined
	// keywords across the given subreddits, restricted to the window.
	Search(ctx context.Context, keywords, subreddits []string, limit int, window domain.TimeWindow) ([]domain.RawPost, error)
}
