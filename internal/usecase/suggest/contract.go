package suggest

import (
	"context"

	"github.com/kadra-cloud/hrsearch/internal/domain/catalog"
	domweb "github.com/kadra-cloud/hrsearch/internal/domain/webinar"
)

// TitleLister lists the published webinars whose titles feed autocomplete.
type TitleLister interface {
	ListPublished(ctx context.Context) ([]domweb.Webinar, error)
}

// TaxonomyLister lists the speaker and tag names that feed autocomplete.
type TaxonomyLister interface {
	ListSpeakers(ctx context.Context) ([]catalog.Speaker, error)
	ListTags(ctx context.Context) ([]catalog.Tag, error)
}
