package hrsearch

import (
	"context"
	"fmt"
	"time"

	domcat "github.com/kadra-cloud/hrsearch/internal/domain/catalog"
	domweb "github.com/kadra-cloud/hrsearch/internal/domain/webinar"
	cataloguc "github.com/kadra-cloud/hrsearch/internal/usecase/catalog"
)

// WebinarService manages the webinar catalog.
type WebinarService struct {
	svc *cataloguc.Service
	obs *observer
}

// Upsert creates or updates a webinar. Returns true when the webinar was
// created. The title is embedded on the spot; an embedding failure does
// not fail the write.
func (s *WebinarService) Upsert(ctx context.Context, w Webinar) (bool, error) {
	start := time.Now()

	webinar, err := domweb.New(
		w.ID, w.Title, w.Description, w.CategoryID,
		w.DurationMin, w.RecordedAt, domweb.Status(w.Status),
	)
	if err != nil {
		return false, fmt.Errorf("hrsearch: %w", err)
	}

	created, err := s.svc.UpsertWebinar(ctx, &webinar)
	s.obs.observe("webinar_upsert", start, err)
	return created, err
}

// Get fetches a webinar with its resolved metadata.
func (s *WebinarService) Get(ctx context.Context, id string) (WebinarView, error) {
	start := time.Now()
	view, err := s.svc.GetWebinar(ctx, id)
	s.obs.observe("webinar_get", start, err)
	if err != nil {
		return WebinarView{}, err
	}
	return viewFromDomain(&view), nil
}

// Delete removes a webinar, its relations, and its stored embeddings.
func (s *WebinarService) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.svc.DeleteWebinar(ctx, id)
	s.obs.observe("webinar_delete", start, err)
	return err
}

// AddSpeaker links a speaker to a webinar. Both sides must exist.
func (s *WebinarService) AddSpeaker(ctx context.Context, webinarID, speakerID string) error {
	start := time.Now()
	err := s.svc.AddSpeaker(ctx, webinarID, speakerID)
	s.obs.observe("webinar_add_speaker", start, err)
	return err
}

// AddTag links a tag to a webinar. Both sides must exist.
func (s *WebinarService) AddTag(ctx context.Context, webinarID, tagID string) error {
	start := time.Now()
	err := s.svc.AddTag(ctx, webinarID, tagID)
	s.obs.observe("webinar_add_tag", start, err)
	return err
}

// ByCategory pages published webinars of a category slug, newest first.
func (s *WebinarService) ByCategory(ctx context.Context, slug string, offset, limit int) (Page, error) {
	start := time.Now()
	page, err := s.svc.ByCategorySlug(ctx, slug, offset, limit)
	s.obs.observe("webinar_by_category", start, err)
	if err != nil {
		return Page{}, err
	}
	return pageFromDomain(page), nil
}

// BySpeaker pages published webinars whose speaker name contains the
// fragment, diacritic-insensitive.
func (s *WebinarService) BySpeaker(ctx context.Context, name string, offset, limit int) (Page, error) {
	start := time.Now()
	page, err := s.svc.BySpeakerName(ctx, name, offset, limit)
	s.obs.observe("webinar_by_speaker", start, err)
	if err != nil {
		return Page{}, err
	}
	return pageFromDomain(page), nil
}

// ByTags pages published webinars carrying any of the tag slugs (OR).
func (s *WebinarService) ByTags(ctx context.Context, slugs []string, offset, limit int) (Page, error) {
	start := time.Now()
	page, err := s.svc.ByTags(ctx, slugs, offset, limit)
	s.obs.observe("webinar_by_tags", start, err)
	if err != nil {
		return Page{}, err
	}
	return pageFromDomain(page), nil
}

// TaxonomyService manages categories, speakers, and tags.
type TaxonomyService struct {
	svc *cataloguc.Service
	obs *observer
}

// CreateCategory registers a category. The slug must be unique.
func (s *TaxonomyService) CreateCategory(ctx context.Context, c Category) error {
	start := time.Now()

	category, err := domcat.NewCategory(c.ID, c.Name, c.Slug)
	if err != nil {
		return fmt.Errorf("hrsearch: %w", err)
	}

	err = s.svc.CreateCategory(ctx, &category)
	s.obs.observe("category_create", start, err)
	return err
}

// CreateSpeaker registers a speaker.
func (s *TaxonomyService) CreateSpeaker(ctx context.Context, sp Speaker) error {
	start := time.Now()

	speaker, err := domcat.NewSpeaker(sp.ID, sp.Name, sp.Bio)
	if err != nil {
		return fmt.Errorf("hrsearch: %w", err)
	}

	err = s.svc.CreateSpeaker(ctx, &speaker)
	s.obs.observe("speaker_create", start, err)
	return err
}

// CreateTag registers a tag. The slug must be unique.
func (s *TaxonomyService) CreateTag(ctx context.Context, t Tag) error {
	start := time.Now()

	tag, err := domcat.NewTag(t.ID, t.Name, t.Slug)
	if err != nil {
		return fmt.Errorf("hrsearch: %w", err)
	}

	err = s.svc.CreateTag(ctx, &tag)
	s.obs.observe("tag_create", start, err)
	return err
}

// Categories lists all categories sorted by name.
func (s *TaxonomyService) Categories(ctx context.Context) ([]Category, error) {
	categories, err := s.svc.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Category, len(categories))
	for i := range categories {
		out[i] = Category{
			ID: categories[i].ID(), Name: categories[i].Name(), Slug: categories[i].Slug(),
		}
	}
	return out, nil
}

// Speakers lists all speakers sorted by name.
func (s *TaxonomyService) Speakers(ctx context.Context) ([]Speaker, error) {
	speakers, err := s.svc.ListSpeakers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Speaker, len(speakers))
	for i := range speakers {
		out[i] = Speaker{
			ID: speakers[i].ID(), Name: speakers[i].Name(), Bio: speakers[i].Bio(),
		}
	}
	return out, nil
}

// Tags lists all tags sorted by name.
func (s *TaxonomyService) Tags(ctx context.Context) ([]Tag, error) {
	tags, err := s.svc.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Tag, len(tags))
	for i := range tags {
		out[i] = Tag{
			ID: tags[i].ID(), Name: tags[i].Name(), Slug: tags[i].Slug(),
		}
	}
	return out, nil
}

func viewFromDomain(v *cataloguc.WebinarView) WebinarView {
	speakers := v.Metadata.Speakers
	if speakers == nil {
		speakers = []string{}
	}
	tags := v.Metadata.Tags
	if tags == nil {
		tags = []string{}
	}
	return WebinarView{
		Webinar:  webinarFromDomain(&v.Webinar),
		Category: v.Metadata.Category,
		Speakers: speakers,
		Tags:     tags,
	}
}

func pageFromDomain(p cataloguc.Page) Page {
	items := make([]WebinarView, len(p.Items))
	for i := range p.Items {
		items[i] = viewFromDomain(&p.Items[i])
	}
	return Page{Items: items, Total: p.Total}
}
