// Package catalog serves webinar ingestion, taxonomy CRUD, and the browse
// endpoints (by category slug, by speaker name, by tags).
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kadra-cloud/hrsearch/internal/domain"
	domcat "github.com/kadra-cloud/hrsearch/internal/domain/catalog"
	domweb "github.com/kadra-cloud/hrsearch/internal/domain/webinar"
	"github.com/kadra-cloud/hrsearch/internal/trigram"
	"github.com/kadra-cloud/hrsearch/internal/usecase/metadata"
)

// WebinarView is a browse hit: the webinar plus its resolved metadata.
type WebinarView struct {
	Webinar  domweb.Webinar
	Metadata metadata.Metadata
}

// Page is a browse result page with the total before pagination.
type Page struct {
	Items []WebinarView
	Total int
}

// Service implements catalog ingestion and browse.
type Service struct {
	webinars WebinarStore
	taxonomy TaxonomyStore
	embed    Embedder
	vectors  VectorStore
	meta     MetadataResolver
	logger   *zap.Logger
}

// New creates a catalog service.
func New(
	webinars WebinarStore, taxonomy TaxonomyStore,
	embed Embedder, vectors VectorStore,
	meta MetadataResolver, logger *zap.Logger,
) *Service {
	return &Service{
		webinars: webinars, taxonomy: taxonomy,
		embed: embed, vectors: vectors,
		meta: meta, logger: logger,
	}
}

// UpsertWebinar stores a webinar and embeds its title in the background of
// the call. An embedding failure does not fail ingestion: the backfill job
// picks the webinar up later.
func (s *Service) UpsertWebinar(ctx context.Context, w *domweb.Webinar) (bool, error) {
	if w.CategoryID() != "" {
		if _, err := s.taxonomy.GetCategory(ctx, w.CategoryID()); err != nil {
			return false, fmt.Errorf("category %s: %w", w.CategoryID(), err)
		}
	}

	created, err := s.webinars.Upsert(ctx, w)
	if err != nil {
		return false, fmt.Errorf("upsert webinar: %w", err)
	}

	if err := s.embedTitle(ctx, w.ID(), w.Title()); err != nil {
		s.logger.Warn("title embedding deferred to backfill",
			zap.String("webinar_id", w.ID()), zap.Error(err))
	}
	return created, nil
}

// GetWebinar returns a webinar with its resolved metadata.
func (s *Service) GetWebinar(ctx context.Context, id string) (WebinarView, error) {
	w, err := s.webinars.Get(ctx, id)
	if err != nil {
		return WebinarView{}, err
	}

	meta, err := s.meta.Resolve(ctx, []domweb.Webinar{w})
	if err != nil {
		return WebinarView{}, fmt.Errorf("resolve metadata: %w", err)
	}
	return WebinarView{Webinar: w, Metadata: meta[w.ID()]}, nil
}

// DeleteWebinar removes a webinar together with its stored embeddings.
func (s *Service) DeleteWebinar(ctx context.Context, id string) error {
	if err := s.webinars.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.vectors.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete embeddings: %w", err)
	}
	return nil
}

// AddSpeaker links an existing speaker to an existing webinar.
func (s *Service) AddSpeaker(ctx context.Context, webinarID, speakerID string) error {
	if _, err := s.webinars.Get(ctx, webinarID); err != nil {
		return fmt.Errorf("webinar %s: %w", webinarID, err)
	}
	if _, err := s.taxonomy.GetSpeaker(ctx, speakerID); err != nil {
		return fmt.Errorf("speaker %s: %w", speakerID, err)
	}
	return s.webinars.AddSpeaker(ctx, webinarID, speakerID)
}

// AddTag links an existing tag to an existing webinar.
func (s *Service) AddTag(ctx context.Context, webinarID, tagID string) error {
	if _, err := s.webinars.Get(ctx, webinarID); err != nil {
		return fmt.Errorf("webinar %s: %w", webinarID, err)
	}
	if _, err := s.taxonomy.GetTag(ctx, tagID); err != nil {
		return fmt.Errorf("tag %s: %w", tagID, err)
	}
	return s.webinars.AddTag(ctx, webinarID, tagID)
}

// CreateCategory stores a new category.
func (s *Service) CreateCategory(ctx context.Context, c *domcat.Category) error {
	return s.taxonomy.CreateCategory(ctx, c)
}

// CreateSpeaker stores a new speaker.
func (s *Service) CreateSpeaker(ctx context.Context, sp *domcat.Speaker) error {
	return s.taxonomy.CreateSpeaker(ctx, sp)
}

// CreateTag stores a new tag.
func (s *Service) CreateTag(ctx context.Context, t *domcat.Tag) error {
	return s.taxonomy.CreateTag(ctx, t)
}

// ListCategories returns every category.
func (s *Service) ListCategories(ctx context.Context) ([]domcat.Category, error) {
	return s.taxonomy.ListCategories(ctx)
}

// ListSpeakers returns every speaker.
func (s *Service) ListSpeakers(ctx context.Context) ([]domcat.Speaker, error) {
	return s.taxonomy.ListSpeakers(ctx)
}

// ListTags returns every tag.
func (s *Service) ListTags(ctx context.Context) ([]domcat.Tag, error) {
	return s.taxonomy.ListTags(ctx)
}

// ByCategorySlug returns the published webinars of a category,
// recorded date descending, paginated.
func (s *Service) ByCategorySlug(ctx context.Context, slug string, offset, limit int) (Page, error) {
	c, err := s.taxonomy.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return Page{}, err
	}

	ids, err := s.webinars.WebinarIDsOfCategory(ctx, c.ID())
	if err != nil {
		return Page{}, fmt.Errorf("webinars of category: %w", err)
	}
	return s.page(ctx, ids, offset, limit)
}

// BySpeakerName returns the published webinars of every speaker whose name
// contains the given fragment (case- and diacritic-insensitive).
func (s *Service) BySpeakerName(ctx context.Context, name string, offset, limit int) (Page, error) {
	fragment := trigram.Normalize(strings.TrimSpace(name))
	if fragment == "" {
		return Page{}, fmt.Errorf("%w: speaker name is required", domain.ErrInvalidInput)
	}

	speakers, err := s.taxonomy.ListSpeakers(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("list speakers: %w", err)
	}

	idSet := make(map[string]bool)
	for i := range speakers {
		if !strings.Contains(trigram.Normalize(speakers[i].Name()), fragment) {
			continue
		}
		ids, err := s.webinars.WebinarIDsOfSpeaker(ctx, speakers[i].ID())
		if err != nil {
			return Page{}, fmt.Errorf("webinars of speaker: %w", err)
		}
		for _, id := range ids {
			idSet[id] = true
		}
	}
	return s.page(ctx, setToSlice(idSet), offset, limit)
}

// ByTags returns the published webinars carrying any of the given tag slugs
// (OR semantics). Unknown slugs are skipped.
func (s *Service) ByTags(ctx context.Context, slugs []string, offset, limit int) (Page, error) {
	if len(slugs) == 0 {
		return Page{}, fmt.Errorf("%w: at least one tag is required", domain.ErrInvalidInput)
	}

	idSet := make(map[string]bool)
	for _, slug := range slugs {
		t, err := s.taxonomy.GetTagBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return Page{}, err
		}
		ids, err := s.webinars.WebinarIDsOfTag(ctx, t.ID())
		if err != nil {
			return Page{}, fmt.Errorf("webinars of tag: %w", err)
		}
		for _, id := range ids {
			idSet[id] = true
		}
	}
	return s.page(ctx, setToSlice(idSet), offset, limit)
}

// page fetches the webinars, drops unpublished ones, orders by recency,
// applies offset/limit, and resolves metadata for the kept slice.
func (s *Service) page(ctx context.Context, ids []string, offset, limit int) (Page, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = len(ids)
	}

	webinars, err := s.webinars.GetMulti(ctx, ids)
	if err != nil {
		return Page{}, fmt.Errorf("fetch webinars: %w", err)
	}

	published := webinars[:0:0]
	for i := range webinars {
		if webinars[i].Published() {
			published = append(published, webinars[i])
		}
	}

	sort.Slice(published, func(i, j int) bool {
		a, b := &published[i], &published[j]
		if !a.RecordedAt().Equal(b.RecordedAt()) {
			return a.RecordedAt().After(b.RecordedAt())
		}
		return a.ID() < b.ID()
	})

	total := len(published)
	if offset >= total {
		return Page{Items: []WebinarView{}, Total: total}, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	kept := published[offset:end]

	meta, err := s.meta.Resolve(ctx, kept)
	if err != nil {
		return Page{}, fmt.Errorf("resolve metadata: %w", err)
	}

	items := make([]WebinarView, len(kept))
	for i := range kept {
		items[i] = WebinarView{Webinar: kept[i], Metadata: meta[kept[i].ID()]}
	}
	return Page{Items: items, Total: total}, nil
}

func (s *Service) embedTitle(ctx context.Context, webinarID, title string) error {
	res, err := s.embed.Embed(ctx, title)
	if err != nil {
		return err
	}
	return s.vectors.Upsert(ctx, webinarID, domain.KindTitle, res.Embedding)
}

func setToSlice(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
