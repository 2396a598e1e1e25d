// Package domain defines the core business entities for the Product
// DNA pipeline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawPost: An unprocessed post from the content source
//   - EnrichedPost: A persisted record with sentiment and summary
//   - CollectionRequest/CollectionResult: One pipeline run
//   - DNAStats: Aggregates over the stored collection
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
