package catalog

import (
	"context"

	"github.com/kadra-cloud/hrsearch/internal/domain"
	domcat "github.com/kadra-cloud/hrsearch/internal/domain/catalog"
	domweb "github.com/kadra-cloud/hrsearch/internal/domain/webinar"
	"github.com/kadra-cloud/hrsearch/internal/usecase/metadata"
)

// WebinarStore is the webinar storage contract for ingestion and browse.
type WebinarStore interface {
	Upsert(ctx context.Context, w *domweb.Webinar) (bool, error)
	Get(ctx context.Context, id string) (domweb.Webinar, error)
	GetMulti(ctx context.Context, ids []string) ([]domweb.Webinar, error)
	Delete(ctx context.Context, id string) error
	AddSpeaker(ctx context.Context, webinarID, speakerID string) error
	AddTag(ctx context.Context, webinarID, tagID string) error
	WebinarIDsOfSpeaker(ctx context.Context, speakerID string) ([]string, error)
	WebinarIDsOfTag(ctx context.Context, tagID string) ([]string, error)
	WebinarIDsOfCategory(ctx context.Context, categoryID string) ([]string, error)
}

// TaxonomyStore is the taxonomy storage contract.
type TaxonomyStore interface {
	CreateCategory(ctx context.Context, c *domcat.Category) error
	GetCategory(ctx context.Context, id string) (domcat.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (domcat.Category, error)
	ListCategories(ctx context.Context) ([]domcat.Category, error)
	CreateSpeaker(ctx context.Context, s *domcat.Speaker) error
	GetSpeaker(ctx context.Context, id string) (domcat.Speaker, error)
	ListSpeakers(ctx context.Context) ([]domcat.Speaker, error)
	CreateTag(ctx context.Context, t *domcat.Tag) error
	GetTag(ctx context.Context, id string) (domcat.Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (domcat.Tag, error)
	ListTags(ctx context.Context) ([]domcat.Tag, error)
}

// Embedder vectorizes titles at ingest time.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// VectorStore writes and removes stored embedding rows.
type VectorStore interface {
	Upsert(ctx context.Context, webinarID string, kind domain.EmbeddingKind, vector []float32) error
	Delete(ctx context.Context, webinarID string) error
}

// MetadataResolver attaches display metadata to fetched webinars.
type MetadataResolver interface {
	Resolve(ctx context.Context, webinars []domweb.Webinar) (map[string]metadata.Metadata, error)
}
