package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidArgument indicates malformed caller input, such as
	// requesting zero results from the retriever.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmbeddingUnavailable indicates the embedding provider is
	// unreachable or returned malformed output. Nothing is indexed
	// when this occurs.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrDimensionMismatch indicates an embedding's length disagrees
	// with the vector index's established dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrModelMismatch indicates an embedding was produced by a model
	// other than the one the vector index was built with.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrProviderUnavailable indicates a transient LLM provider failure
	// (5xx-class, rate limiting, or transport error). Safe to retry.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrTimeout indicates a provider call exceeded its deadline.
	ErrTimeout = errors.New("provider timeout")

	// ErrAuthFailed indicates the provider rejected the supplied
	// credential. Never retried.
	ErrAuthFailed = errors.New("provider authentication failed")

	// ErrMalformedResponse indicates the provider returned a body that
	// could not be interpreted as an answer. Never retried.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrUnsupportedFormat indicates no extractor handles the declared
	// MIME type.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrExtractionFailed indicates the document bytes could not be
	// parsed by the extractor for their declared type.
	ErrExtractionFailed = errors.New("text extraction failed")

	// ErrInconsistency indicates the vector index and document store
	// disagree (an index entry without stored text). Recovered by
	// dropping the affected result; never fatal to a query.
	ErrInconsistency = errors.New("index/store inconsistency")
)
