package search

import (
	"context"

	"github.com/kadra-cloud/hrsearch/internal/domain"
	"github.com/kadra-cloud/hrsearch/internal/domain/search/result"
	domweb "github.com/kadra-cloud/hrsearch/internal/domain/webinar"
	"github.com/kadra-cloud/hrsearch/internal/usecase/metadata"
)

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// VectorIndex retrieves nearest-neighbor candidates from stored embeddings.
type VectorIndex interface {
	NearestByKind(
		ctx context.Context, kind domain.EmbeddingKind, vector []float32, k int,
	) ([]result.Candidate, error)
}

// CatalogReader reads webinars and runs the trigram fallback over them.
type CatalogReader interface {
	GetMulti(ctx context.Context, ids []string) ([]domweb.Webinar, error)
	FuzzyMatch(ctx context.Context, query string) ([]result.Candidate, error)
}

// MetadataResolver attaches category, speaker, and tag names to hits.
type MetadataResolver interface {
	Resolve(ctx context.Context, webinars []domweb.Webinar) (map[string]metadata.Metadata, error)
}
