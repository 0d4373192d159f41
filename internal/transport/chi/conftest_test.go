package chi

import (
	"context"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kadra-cloud/hrsearch/internal/config"
	"github.com/kadra-cloud/hrsearch/internal/domain"
	domcat "github.com/kadra-cloud/hrsearch/internal/domain/catalog"
	"github.com/kadra-cloud/hrsearch/internal/domain/search/result"
	domweb "github.com/kadra-cloud/hrsearch/internal/domain/webinar"
	cataloguc "github.com/kadra-cloud/hrsearch/internal/usecase/catalog"
	healthuc "github.com/kadra-cloud/hrsearch/internal/usecase/health"
	"github.com/kadra-cloud/hrsearch/internal/usecase/metadata"
	searchuc "github.com/kadra-cloud/hrsearch/internal/usecase/search"
	suggestuc "github.com/kadra-cloud/hrsearch/internal/usecase/suggest"
)

// --- Search pipeline stubs ---

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if s.err != nil {
		return domain.EmbeddingResult{}, s.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

type stubVectors struct {
	candidates []result.Candidate
	err        error
}

func (s *stubVectors) NearestByKind(
	_ context.Context, _ domain.EmbeddingKind, _ []float32, _ int,
) ([]result.Candidate, error) {
	return s.candidates, s.err
}

type stubCatalogReader struct {
	webinars map[string]domweb.Webinar
	fuzzy    []result.Candidate
}

func (s *stubCatalogReader) GetMulti(_ context.Context, ids []string) ([]domweb.Webinar, error) {
	out := make([]domweb.Webinar, 0, len(ids))
	for _, id := range ids {
		if w, ok := s.webinars[id]; ok {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *stubCatalogReader) FuzzyMatch(_ context.Context, _ string) ([]result.Candidate, error) {
	return s.fuzzy, nil
}

type stubMeta struct{}

func (s *stubMeta) Resolve(
	_ context.Context, webinars []domweb.Webinar,
) (map[string]metadata.Metadata, error) {
	out := make(map[string]metadata.Metadata, len(webinars))
	for i := range webinars {
		out[webinars[i].ID()] = metadata.Metadata{Speakers: []string{}, Tags: []string{}}
	}
	return out, nil
}

// --- Autocomplete stubs ---

type stubTitles struct {
	webinars []domweb.Webinar
}

func (s *stubTitles) ListPublished(_ context.Context) ([]domweb.Webinar, error) {
	return s.webinars, nil
}

type stubTaxonomyLister struct {
	speakers []domcat.Speaker
	tags     []domcat.Tag
}

func (s *stubTaxonomyLister) ListSpeakers(_ context.Context) ([]domcat.Speaker, error) {
	return s.speakers, nil
}

func (s *stubTaxonomyLister) ListTags(_ context.Context) ([]domcat.Tag, error) {
	return s.tags, nil
}

// --- Catalog stubs ---

type stubWebinarStore struct {
	upsertFn func(ctx context.Context, w *domweb.Webinar) (bool, error)
	getFn    func(ctx context.Context, id string) (domweb.Webinar, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubWebinarStore) Upsert(ctx context.Context, w *domweb.Webinar) (bool, error) {
	if s.upsertFn != nil {
		return s.upsertFn(ctx, w)
	}
	return true, nil
}

func (s *stubWebinarStore) Get(ctx context.Context, id string) (domweb.Webinar, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return domweb.Webinar{}, domain.ErrNotFound
}

func (s *stubWebinarStore) GetMulti(_ context.Context, _ []string) ([]domweb.Webinar, error) {
	return nil, nil
}

func (s *stubWebinarStore) Delete(ctx context.Context, id string) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *stubWebinarStore) AddSpeaker(_ context.Context, _, _ string) error { return nil }
func (s *stubWebinarStore) AddTag(_ context.Context, _, _ string) error     { return nil }

func (s *stubWebinarStore) WebinarIDsOfSpeaker(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

func (s *stubWebinarStore) WebinarIDsOfTag(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

func (s *stubWebinarStore) WebinarIDsOfCategory(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

type stubTaxonomyStore struct {
	createCategoryFn func(ctx context.Context, c *domcat.Category) error
}

func (s *stubTaxonomyStore) CreateCategory(ctx context.Context, c *domcat.Category) error {
	if s.createCategoryFn != nil {
		return s.createCategoryFn(ctx, c)
	}
	return nil
}

func (s *stubTaxonomyStore) GetCategory(_ context.Context, _ string) (domcat.Category, error) {
	return domcat.Category{}, domain.ErrNotFound
}

func (s *stubTaxonomyStore) GetCategoryBySlug(_ context.Context, _ string) (domcat.Category, error) {
	return domcat.Category{}, domain.ErrNotFound
}

func (s *stubTaxonomyStore) ListCategories(_ context.Context) ([]domcat.Category, error) {
	return nil, nil
}

func (s *stubTaxonomyStore) CreateSpeaker(_ context.Context, _ *domcat.Speaker) error { return nil }

func (s *stubTaxonomyStore) GetSpeaker(_ context.Context, _ string) (domcat.Speaker, error) {
	return domcat.Speaker{}, domain.ErrNotFound
}

func (s *stubTaxonomyStore) ListSpeakers(_ context.Context) ([]domcat.Speaker, error) {
	return nil, nil
}

func (s *stubTaxonomyStore) CreateTag(_ context.Context, _ *domcat.Tag) error { return nil }

func (s *stubTaxonomyStore) GetTag(_ context.Context, _ string) (domcat.Tag, error) {
	return domcat.Tag{}, domain.ErrNotFound
}

func (s *stubTaxonomyStore) GetTagBySlug(_ context.Context, _ string) (domcat.Tag, error) {
	return domcat.Tag{}, domain.ErrNotFound
}

func (s *stubTaxonomyStore) ListTags(_ context.Context) ([]domcat.Tag, error) { return nil, nil }

type stubVectorStore struct{}

func (s *stubVectorStore) Upsert(_ context.Context, _ string, _ domain.EmbeddingKind, _ []float32) error {
	return nil
}

func (s *stubVectorStore) Delete(_ context.Context, _ string) error { return nil }

// --- Health stubs ---

type stubPinger struct {
	err error
}

func (s *stubPinger) Ping(_ context.Context) error { return s.err }

type stubEmbChecker struct {
	err error
}

func (s *stubEmbChecker) HealthCheck(_ context.Context) error { return s.err }

// --- Fixtures ---

func testConfig() config.SearchConfig {
	return config.SearchConfig{
		SemanticThreshold:   0.3,
		FuzzyThreshold:      0.2,
		MaxQueryLength:      200,
		DefaultLimit:        20,
		MaxLimit:            50,
		AutocompleteLimit:   10,
		AutocompletePerKind: 3,
		QueryTimeoutSec:     10,
	}
}

func publishedWebinar(id, title string) domweb.Webinar {
	return domweb.Reconstruct(
		id, title, "", "", 45,
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		domweb.StatusPublished,
	)
}

// testDeps bundles the stubbed backends behind a test server.
type testDeps struct {
	embed    *stubEmbedder
	vectors  *stubVectors
	reader   *stubCatalogReader
	titles   *stubTitles
	listers  *stubTaxonomyLister
	webinars *stubWebinarStore
	taxonomy *stubTaxonomyStore
	pinger   *stubPinger
	checker  *stubEmbChecker
}

func newTestServer(d *testDeps) *httptest.Server {
	if d.embed == nil {
		d.embed = &stubEmbedder{}
	}
	if d.vectors == nil {
		d.vectors = &stubVectors{}
	}
	if d.reader == nil {
		d.reader = &stubCatalogReader{}
	}
	if d.titles == nil {
		d.titles = &stubTitles{}
	}
	if d.listers == nil {
		d.listers = &stubTaxonomyLister{}
	}
	if d.webinars == nil {
		d.webinars = &stubWebinarStore{}
	}
	if d.taxonomy == nil {
		d.taxonomy = &stubTaxonomyStore{}
	}
	if d.pinger == nil {
		d.pinger = &stubPinger{}
	}
	if d.checker == nil {
		d.checker = &stubEmbChecker{}
	}

	logger := zap.NewNop()
	cfg := testConfig()

	searchSvc := searchuc.New(d.embed, d.vectors, d.reader, &stubMeta{}, cfg, logger)
	suggestSvc := suggestuc.New(d.titles, d.listers, cfg, logger)
	catalogSvc := cataloguc.New(d.webinars, d.taxonomy, d.embed, &stubVectorStore{}, &stubMeta{}, logger)
	healthSvc := healthuc.New(d.pinger, d.checker)

	server := NewServer(searchSvc, suggestSvc, catalogSvc, healthSvc, logger)
	r := chi.NewRouter()
	server.Register(r)
	return httptest.NewServer(r)
}
