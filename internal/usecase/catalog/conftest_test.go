package catalog

import (
	"context"

	"go.uber.org/zap"

	"github.com/kadra-cloud/hrsearch/internal/domain"
	domcat "github.com/kadra-cloud/hrsearch/internal/domain/catalog"
	domweb "github.com/kadra-cloud/hrsearch/internal/domain/webinar"
	"github.com/kadra-cloud/hrsearch/internal/usecase/metadata"
)

type mockWebinars struct {
	upsertFn     func(ctx context.Context, w *domweb.Webinar) (bool, error)
	getFn        func(ctx context.Context, id string) (domweb.Webinar, error)
	getMultiFn   func(ctx context.Context, ids []string) ([]domweb.Webinar, error)
	deleteFn     func(ctx context.Context, id string) error
	addSpeakerFn func(ctx context.Context, webinarID, speakerID string) error
	addTagFn     func(ctx context.Context, webinarID, tagID string) error
	ofSpeakerFn  func(ctx context.Context, speakerID string) ([]string, error)
	ofTagFn      func(ctx context.Context, tagID string) ([]string, error)
	ofCategoryFn func(ctx context.Context, categoryID string) ([]string, error)
}

func (m *mockWebinars) Upsert(ctx context.Context, w *domweb.Webinar) (bool, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, w)
	}
	return true, nil
}

func (m *mockWebinars) Get(ctx context.Context, id string) (domweb.Webinar, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domweb.Webinar{}, domain.ErrNotFound
}

func (m *mockWebinars) GetMulti(ctx context.Context, ids []string) ([]domweb.Webinar, error) {
	if m.getMultiFn != nil {
		return m.getMultiFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockWebinars) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockWebinars) AddSpeaker(ctx context.Context, webinarID, speakerID string) error {
	if m.addSpeakerFn != nil {
		return m.addSpeakerFn(ctx, webinarID, speakerID)
	}
	return nil
}

func (m *mockWebinars) AddTag(ctx context.Context, webinarID, tagID string) error {
	if m.addTagFn != nil {
		return m.addTagFn(ctx, webinarID, tagID)
	}
	return nil
}

func (m *mockWebinars) WebinarIDsOfSpeaker(ctx context.Context, speakerID string) ([]string, error) {
	if m.ofSpeakerFn != nil {
		return m.ofSpeakerFn(ctx, speakerID)
	}
	return nil, nil
}

func (m *mockWebinars) WebinarIDsOfTag(ctx context.Context, tagID string) ([]string, error) {
	if m.ofTagFn != nil {
		return m.ofTagFn(ctx, tagID)
	}
	return nil, nil
}

func (m *mockWebinars) WebinarIDsOfCategory(ctx context.Context, categoryID string) ([]string, error) {
	if m.ofCategoryFn != nil {
		return m.ofCategoryFn(ctx, categoryID)
	}
	return nil, nil
}

type mockTaxonomy struct {
	getCategoryFn       func(ctx context.Context, id string) (domcat.Category, error)
	getCategoryBySlugFn func(ctx context.Context, slug string) (domcat.Category, error)
	listSpeakersFn      func(ctx context.Context) ([]domcat.Speaker, error)
	getSpeakerFn        func(ctx context.Context, id string) (domcat.Speaker, error)
	getTagFn            func(ctx context.Context, id string) (domcat.Tag, error)
	getTagBySlugFn      func(ctx context.Context, slug string) (domcat.Tag, error)
}

func (m *mockTaxonomy) CreateCategory(_ context.Context, _ *domcat.Category) error { return nil }

func (m *mockTaxonomy) GetCategory(ctx context.Context, id string) (domcat.Category, error) {
	if m.getCategoryFn != nil {
		return m.getCategoryFn(ctx, id)
	}
	return domcat.ReconstructCategory(id, "Category", "category"), nil
}

func (m *mockTaxonomy) GetCategoryBySlug(ctx context.Context, slug string) (domcat.Category, error) {
	if m.getCategoryBySlugFn != nil {
		return m.getCategoryBySlugFn(ctx, slug)
	}
	return domcat.Category{}, domain.ErrNotFound
}

func (m *mockTaxonomy) ListCategories(_ context.Context) ([]domcat.Category, error) {
	return nil, nil
}

func (m *mockTaxonomy) CreateSpeaker(_ context.Context, _ *domcat.Speaker) error { return nil }

func (m *mockTaxonomy) GetSpeaker(ctx context.Context, id string) (domcat.Speaker, error) {
	if m.getSpeakerFn != nil {
		return m.getSpeakerFn(ctx, id)
	}
	return domcat.Speaker{}, domain.ErrNotFound
}

func (m *mockTaxonomy) ListSpeakers(ctx context.Context) ([]domcat.Speaker, error) {
	if m.listSpeakersFn != nil {
		return m.listSpeakersFn(ctx)
	}
	return nil, nil
}

func (m *mockTaxonomy) CreateTag(_ context.Context, _ *domcat.Tag) error { return nil }

func (m *mockTaxonomy) GetTag(ctx context.Context, id string) (domcat.Tag, error) {
	if m.getTagFn != nil {
		return m.getTagFn(ctx, id)
	}
	return domcat.Tag{}, domain.ErrNotFound
}

func (m *mockTaxonomy) GetTagBySlug(ctx context.Context, slug string) (domcat.Tag, error) {
	if m.getTagBySlugFn != nil {
		return m.getTagBySlugFn(ctx, slug)
	}
	return domcat.Tag{}, domain.ErrNotFound
}

func (m *mockTaxonomy) ListTags(_ context.Context) ([]domcat.Tag, error) { return nil, nil }

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1}}, nil
}

type mockVectors struct {
	upsertFn func(ctx context.Context, webinarID string, kind domain.EmbeddingKind, vector []float32) error
	deleteFn func(ctx context.Context, webinarID string) error
}

func (m *mockVectors) Upsert(
	ctx context.Context, webinarID string, kind domain.EmbeddingKind, vector []float32,
) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, webinarID, kind, vector)
	}
	return nil
}

func (m *mockVectors) Delete(ctx context.Context, webinarID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, webinarID)
	}
	return nil
}

type mockMeta struct{}

func (m *mockMeta) Resolve(
	_ context.Context, ws []domweb.Webinar,
) (map[string]metadata.Metadata, error) {
	out := make(map[string]metadata.Metadata, len(ws))
	for i := range ws {
		out[ws[i].ID()] = metadata.Metadata{Speakers: []string{}, Tags: []string{}}
	}
	return out, nil
}

func newTestService(w *mockWebinars, tax *mockTaxonomy, emb *mockEmbedder, vec *mockVectors) *Service {
	return New(w, tax, emb, vec, &mockMeta{}, zap.NewNop())
}
