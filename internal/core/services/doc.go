// Package services implements the core use cases: per-post enrichment
// and the collect-enrich-persist orchestration. Services depend only
// on domain types and the driven ports; all I/O lives in adapters.
package services
