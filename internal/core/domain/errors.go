package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider, processor or file type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrProviderUnavailable indicates the embedding or LLM provider could not be reached.
	// Retrieval fails hard on it; generation degrades to an apology.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrCollectionInit indicates the vector collection could not be created or opened.
	// It is fatal at start-up.
	ErrCollectionInit = errors.New("collection init failed")

	// ErrDimensionMismatch indicates a vector does not match the collection size.
	// Collections are never resized; a new collection is needed instead.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrMalformedDocument indicates a document without indexable content.
	// Such documents are skipped and counted, never fatal to a batch.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrNotInitialised indicates the knowledge base was used before Init.
	ErrNotInitialised = errors.New("knowledge base not initialised")
)

// IngestError reports an aborted ingestion and how far it got.
type IngestError struct {
	// Stored is the number of chunks persisted before the failure.
	Stored int

	// Err is the underlying failure.
	Err error
}

// Error implements error.
func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest aborted after %d stored chunks: %v", e.Stored, e.Err)
}

// Unwrap returns the underlying failure.
func (e *IngestError) Unwrap() error {
	return e.Err
}
