package embedjob

import (
	"context"

	"github.com/kadra-cloud/hrsearch/internal/domain"
	domweb "github.com/kadra-cloud/hrsearch/internal/domain/webinar"
)

// CatalogLister lists webinars eligible for backfill.
type CatalogLister interface {
	ListPublished(ctx context.Context) ([]domweb.Webinar, error)
}

// VectorStore reads and writes stored embedding vectors.
type VectorStore interface {
	Has(ctx context.Context, webinarID string, kind domain.EmbeddingKind) (bool, error)
	Upsert(ctx context.Context, webinarID string, kind domain.EmbeddingKind, vector []float32) error
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
