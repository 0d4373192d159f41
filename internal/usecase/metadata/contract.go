package metadata

import (
	"context"

	"github.com/kadra-cloud/hrsearch/internal/domain/catalog"
)

// RelationReader reads the webinar relation sets.
type RelationReader interface {
	SpeakerIDsOf(ctx context.Context, webinarIDs []string) (map[string][]string, error)
	TagIDsOf(ctx context.Context, webinarIDs []string) (map[string][]string, error)
}

// TaxonomyReader resolves taxonomy ids to entities.
type TaxonomyReader interface {
	GetCategoriesMulti(ctx context.Context, ids []string) (map[string]catalog.Category, error)
	GetSpeakersMulti(ctx context.Context, ids []string) (map[string]catalog.Speaker, error)
	GetTagsMulti(ctx context.Context, ids []string) (map[string]catalog.Tag, error)
}
