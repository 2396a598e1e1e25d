// Package driving provides interfaces for use-case entry points
// (primary/inbound ports). The CLI and HTTP adapters drive the core
// through these.
package driving
