package hrsearch

import "github.com/kadra-cloud/hrsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery         = domain.ErrInvalidQuery
	ErrSearchTimeout        = domain.ErrSearchTimeout
	ErrStorageUnavailable   = domain.ErrStorageUnavailable
	ErrEmbeddingUnavailable = domain.ErrEmbeddingUnavailable
	ErrVectorDimMismatch    = domain.ErrVectorDimMismatch
	ErrNotFound             = domain.ErrNotFound
	ErrAlreadyExists        = domain.ErrAlreadyExists
	ErrInvalidInput         = domain.ErrInvalidInput
)
