package domain

import "errors"

var (
	// ErrInvalidQuery signals an empty or whitespace-only search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrSearchTimeout signals a storage round-trip exceeding the query budget.
	ErrSearchTimeout = errors.New("search timeout")
	// ErrStorageUnavailable signals an unreachable or saturated storage backend.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrEmbeddingUnavailable signals that the embedding backend failed to produce a vector.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	// ErrVectorDimMismatch signals a vector dimension mismatch between stored and computed embeddings.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")

	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput signals a malformed entity or request payload.
	ErrInvalidInput = errors.New("invalid input")
)
