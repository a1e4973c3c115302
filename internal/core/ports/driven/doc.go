// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports).
//
// Services in internal/core/services depend on these interfaces, never on
// concrete adapters, so every external collaborator (embedding provider,
// LLM provider, vector index, document store, text extraction) can be
// substituted in tests with stubs.
package driven
