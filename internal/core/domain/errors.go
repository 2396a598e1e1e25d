package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or out-of-range input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceUnavailable indicates the content source rejected the
	// query or could not be reached. A collection run aborts as a
	// whole on this error; no partial batch is returned.
	ErrSourceUnavailable = errors.New("content source unavailable")

	// ErrLLMNotConfigured indicates no completion service is wired.
	// Enrichment degrades to defaults rather than failing.
	ErrLLMNotConfigured = errors.New("llm service not configured")
)
