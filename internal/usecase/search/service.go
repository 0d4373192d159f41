// Package search runs the two-stage retrieval pipeline: semantic KNN over
// title embeddings first, trigram fuzzy matching as the fallback. The two
// stages never blend; a response comes entirely from one of them.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kadra-cloud/hrsearch/internal/config"
	"github.com/kadra-cloud/hrsearch/internal/db"
	"github.com/kadra-cloud/hrsearch/internal/domain"
	"github.com/kadra-cloud/hrsearch/internal/domain/search/result"
	domweb "github.com/kadra-cloud/hrsearch/internal/domain/webinar"
	"github.com/kadra-cloud/hrsearch/internal/metrics"
)

// candidateOversample widens the KNN request so that draft or deleted
// webinars among the neighbors cannot starve the page.
const candidateOversample = 2

// Path labels for search metrics.
const (
	pathSemantic = "semantic"
	pathFuzzy    = "fuzzy"
	pathEmpty    = "empty"
)

// Service orchestrates the search pipeline.
type Service struct {
	embed   Embedder
	vectors VectorIndex
	catalog CatalogReader
	meta    MetadataResolver
	cfg     config.SearchConfig
	logger  *zap.Logger
}

// New creates a search service.
func New(
	embed Embedder, vectors VectorIndex, catalog CatalogReader,
	meta MetadataResolver, cfg config.SearchConfig, logger *zap.Logger,
) *Service {
	return &Service{
		embed: embed, vectors: vectors, catalog: catalog,
		meta: meta, cfg: cfg, logger: logger,
	}
}

// Search validates the query, runs the semantic stage, and degrades to the
// fuzzy stage when the semantic one yields nothing or the embedding backend
// is down. limit <= 0 selects the default page size.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]result.Result, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, domain.ErrInvalidQuery
	}
	q = truncateRunes(q, s.cfg.MaxQueryLength)
	limit = s.clampLimit(limit)

	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.QueryTimeoutSec)*time.Second)
	defer cancel()

	start := time.Now()

	results, path, err := s.retrieve(ctx, q, limit)
	if err != nil {
		return nil, s.mapError(err)
	}

	metrics.SearchesTotal.WithLabelValues(path).Inc()
	metrics.SearchDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())

	s.logger.Debug("search resolved",
		zap.String("path", path),
		zap.Int("results", len(results)),
		zap.Duration("took", time.Since(start)),
	)
	return results, nil
}

// retrieve runs the stages in order. Fuzzy runs when the semantic stage
// returns no hits above threshold or fails with ErrEmbeddingUnavailable;
// any other semantic failure aborts the search.
func (s *Service) retrieve(
	ctx context.Context, query string, limit int,
) ([]result.Result, string, error) {
	semantic, semErr := s.semanticStage(ctx, query, limit)
	if semErr == nil && len(semantic) > 0 {
		return semantic, pathSemantic, nil
	}
	if semErr != nil && !errors.Is(semErr, domain.ErrEmbeddingUnavailable) {
		return nil, "", semErr
	}
	if semErr != nil {
		s.logger.Warn("embedding unavailable, degrading to fuzzy matching", zap.Error(semErr))
	}

	fuzzy, fuzErr := s.fuzzyStage(ctx, query, limit)
	if fuzErr != nil {
		if semErr != nil {
			// Both stages down: surface the embedding failure so the
			// caller sees a dependency outage, not a partial one.
			return nil, "", fmt.Errorf("fuzzy fallback also failed: %v: %w", fuzErr, semErr)
		}
		return nil, "", fuzErr
	}
	if len(fuzzy) == 0 {
		return []result.Result{}, pathEmpty, nil
	}
	return fuzzy, pathFuzzy, nil
}

func (s *Service) semanticStage(ctx context.Context, query string, limit int) ([]result.Result, error) {
	embRes, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	cands, err := s.vectors.NearestByKind(
		ctx, domain.KindTitle, embRes.Embedding, limit*candidateOversample,
	)
	if err != nil {
		return nil, fmt.Errorf("knn candidates: %w", err)
	}

	kept := cands[:0:0]
	for _, c := range cands {
		if c.Score > s.cfg.SemanticThreshold {
			kept = append(kept, c)
		}
	}

	return s.materialize(ctx, kept, result.SourceSemantic, limit)
}

func (s *Service) fuzzyStage(ctx context.Context, query string, limit int) ([]result.Result, error) {
	cands, err := s.catalog.FuzzyMatch(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fuzzy candidates: %w", err)
	}

	kept := cands[:0:0]
	for _, c := range cands {
		if c.Score > s.cfg.FuzzyThreshold {
			kept = append(kept, c)
		}
	}

	return s.materialize(ctx, kept, result.SourceFuzzy, limit)
}

// materialize fetches the candidate webinars, drops unpublished ones, orders
// and trims the page, then attaches metadata.
func (s *Service) materialize(
	ctx context.Context, cands []result.Candidate, source result.Source, limit int,
) ([]result.Result, error) {
	if len(cands) == 0 {
		return nil, nil
	}

	ids := make([]string, len(cands))
	scores := make(map[string]float64, len(cands))
	for i, c := range cands {
		ids[i] = c.ID
		scores[c.ID] = c.Score
	}

	webinars, err := s.catalog.GetMulti(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}

	published := webinars[:0:0]
	for i := range webinars {
		if webinars[i].Published() {
			published = append(published, webinars[i])
		}
	}

	sortWebinarsByScore(published, scores)
	if len(published) > limit {
		published = published[:limit]
	}

	meta, err := s.meta.Resolve(ctx, published)
	if err != nil {
		return nil, fmt.Errorf("attach metadata: %w", err)
	}

	results := make([]result.Result, 0, len(published))
	for i := range published {
		w := &published[i]
		m := meta[w.ID()]
		results = append(results, result.New(
			w.ID(), w.Title(), w.Description(),
			scores[w.ID()], source,
			w.RecordedAt(), w.DurationMin(),
			m.Category, m.Speakers, m.Tags,
		))
	}
	return results, nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		return s.cfg.MaxLimit
	}
	return limit
}

// mapError translates infrastructure failures into the sentinel errors the
// transport layer maps to status codes.
func (s *Service) mapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrSearchTimeout, err)
	}
	var dbErr *db.Error
	if errors.As(err, &dbErr) {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return err
}

// truncateRunes caps a string at n runes without splitting a character.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n]))
}

// sortWebinarsByScore orders by score descending, then recorded date
// descending, then id ascending.
func sortWebinarsByScore(ws []domweb.Webinar, scores map[string]float64) {
	sort.Slice(ws, func(i, j int) bool {
		a, b := &ws[i], &ws[j]
		sa, sb := scores[a.ID()], scores[b.ID()]
		if sa != sb {
			return sa > sb
		}
		if !a.RecordedAt().Equal(b.RecordedAt()) {
			return a.RecordedAt().After(b.RecordedAt())
		}
		return a.ID() < b.ID()
	})
}
