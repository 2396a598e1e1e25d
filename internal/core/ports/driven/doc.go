// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports).
//
// These are the boundaries the core consumes: the content source, the
// completion service, and the record store. Adapters implement them;
// services depend on them.
package driven
