package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kadra-cloud/hrsearch/internal/config"
	"github.com/kadra-cloud/hrsearch/internal/domain"
	"github.com/kadra-cloud/hrsearch/internal/domain/search/result"
	domweb "github.com/kadra-cloud/hrsearch/internal/domain/webinar"
	"github.com/kadra-cloud/hrsearch/internal/usecase/metadata"
)

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

type mockVectorIndex struct {
	nearestFn func(ctx context.Context, kind domain.EmbeddingKind, vector []float32, k int) ([]result.Candidate, error)
}

func (m *mockVectorIndex) NearestByKind(
	ctx context.Context, kind domain.EmbeddingKind, vector []float32, k int,
) ([]result.Candidate, error) {
	if m.nearestFn != nil {
		return m.nearestFn(ctx, kind, vector, k)
	}
	return nil, nil
}

type mockCatalog struct {
	getMultiFn   func(ctx context.Context, ids []string) ([]domweb.Webinar, error)
	fuzzyMatchFn func(ctx context.Context, query string) ([]result.Candidate, error)
}

func (m *mockCatalog) GetMulti(ctx context.Context, ids []string) ([]domweb.Webinar, error) {
	if m.getMultiFn != nil {
		return m.getMultiFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockCatalog) FuzzyMatch(ctx context.Context, query string) ([]result.Candidate, error) {
	if m.fuzzyMatchFn != nil {
		return m.fuzzyMatchFn(ctx, query)
	}
	return nil, nil
}

type mockMeta struct {
	resolveFn func(ctx context.Context, ws []domweb.Webinar) (map[string]metadata.Metadata, error)
}

func (m *mockMeta) Resolve(
	ctx context.Context, ws []domweb.Webinar,
) (map[string]metadata.Metadata, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, ws)
	}
	out := make(map[string]metadata.Metadata, len(ws))
	for i := range ws {
		out[ws[i].ID()] = metadata.Metadata{Speakers: []string{}, Tags: []string{}}
	}
	return out, nil
}

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		SemanticThreshold: 0.3,
		FuzzyThreshold:    0.2,
		MaxQueryLength:    200,
		DefaultLimit:      20,
		MaxLimit:          50,
		QueryTimeoutSec:   10,
	}
}

func publishedWebinar(id string, recorded time.Time) domweb.Webinar {
	return domweb.Reconstruct(
		id, "Title "+id, "", "", 30, recorded, domweb.StatusPublished,
	)
}

func draftWebinar(id string) domweb.Webinar {
	return domweb.Reconstruct(
		id, "Title "+id, "", "", 30, time.Time{}, domweb.StatusDraft,
	)
}

func newTestService(
	embed *mockEmbedder, vectors *mockVectorIndex, catalog *mockCatalog,
) *Service {
	return New(embed, vectors, catalog, &mockMeta{}, testSearchConfig(), zap.NewNop())
}

// getMultiFromFixtures returns the fixture webinars matching the requested ids.
func getMultiFromFixtures(fixtures map[string]domweb.Webinar) func(context.Context, []string) ([]domweb.Webinar, error) {
	return func(_ context.Context, ids []string) ([]domweb.Webinar, error) {
		out := make([]domweb.Webinar, 0, len(ids))
		for _, id := range ids {
			if w, ok := fixtures[id]; ok {
				out = append(out, w)
			}
		}
		return out, nil
	}
}
