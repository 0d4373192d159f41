package hrsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kadra-cloud/hrsearch/internal/config"
	"github.com/kadra-cloud/hrsearch/internal/db"
	dbRedis "github.com/kadra-cloud/hrsearch/internal/db/redis"
	"github.com/kadra-cloud/hrsearch/internal/domain"
	domres "github.com/kadra-cloud/hrsearch/internal/domain/search/result"
	domsug "github.com/kadra-cloud/hrsearch/internal/domain/search/suggestion"
	domweb "github.com/kadra-cloud/hrsearch/internal/domain/webinar"
	embeddingrepo "github.com/kadra-cloud/hrsearch/internal/repository/embedding"
	taxonomyrepo "github.com/kadra-cloud/hrsearch/internal/repository/taxonomy"
	webinarrepo "github.com/kadra-cloud/hrsearch/internal/repository/webinar"
	cataloguc "github.com/kadra-cloud/hrsearch/internal/usecase/catalog"
	healthuc "github.com/kadra-cloud/hrsearch/internal/usecase/health"
	"github.com/kadra-cloud/hrsearch/internal/usecase/metadata"
	searchuc "github.com/kadra-cloud/hrsearch/internal/usecase/search"
	suggestuc "github.com/kadra-cloud/hrsearch/internal/usecase/suggest"
)

const (
	defaultDimensions       = 384
	defaultReadinessTimeout = 10 * time.Second
)

// Internal interfaces for test substitution.
type searchUseCase interface {
	Search(ctx context.Context, query string, limit int) ([]domres.Result, error)
}

type suggestUseCase interface {
	Autocomplete(ctx context.Context, prefix string) []domsug.Suggestion
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the hrsearch SDK entry point.
type Client struct {
	store      db.Store
	searchSvc  searchUseCase
	suggestSvc suggestUseCase
	catalogSvc *cataloguc.Service
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a Client, connects to the database, and ensures the search
// indexes exist. The provided context bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{dimensions: defaultDimensions}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("hrsearch: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("hrsearch: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("hrsearch: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	client, err := wireClient(ctx, store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return client, nil
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	searchCfg := searchConfigFrom(cfg)
	logger := zap.NewNop()

	var domEmb domain.Embedder = &noopEmbedder{}
	if cfg.embedder != nil {
		domEmb = &embedderAdapter{inner: cfg.embedder}
	}

	webinars := webinarrepo.New(store, cfg.keyPrefix)
	taxonomy := taxonomyrepo.New(store, cfg.keyPrefix)
	vectors := embeddingrepo.New(store, cfg.dimensions, cfg.keyPrefix)

	if err := webinars.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("hrsearch: ensure webinar index: %w", err)
	}
	if err := vectors.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("hrsearch: ensure embedding index: %w", err)
	}
	if err := vectors.VerifyDimensions(ctx); err != nil {
		return nil, fmt.Errorf("hrsearch: %w", err)
	}

	meta := metadata.New(webinars, taxonomy)

	return &Client{
		store:      store,
		searchSvc:  searchuc.New(domEmb, vectors, webinars, meta, searchCfg, logger),
		suggestSvc: suggestuc.New(webinars, taxonomy, searchCfg, logger),
		catalogSvc: cataloguc.New(webinars, taxonomy, domEmb, vectors, meta, logger),
		healthSvc:  healthuc.New(store, nil),
		obs:        obs,
	}, nil
}

// searchConfigFrom maps SDK options onto the pipeline tunables.
func searchConfigFrom(cfg *clientConfig) config.SearchConfig {
	var full config.Config
	full.ApplyDefaults()
	sc := full.Search

	if cfg.semanticThreshold > 0 {
		sc.SemanticThreshold = cfg.semanticThreshold
	}
	if cfg.fuzzyThreshold > 0 {
		sc.FuzzyThreshold = cfg.fuzzyThreshold
	}
	if cfg.defaultLimit > 0 {
		sc.DefaultLimit = cfg.defaultLimit
	}
	if cfg.maxLimit > 0 {
		sc.MaxLimit = cfg.maxLimit
	}
	return sc
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search runs the two-stage pipeline. limit <= 0 selects the default page
// size.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	start := time.Now()
	results, err := c.searchSvc.Search(ctx, query, limit)
	c.obs.observe("search", start, err)
	if err != nil {
		return nil, err
	}

	out := make([]SearchResult, len(results))
	for i := range results {
		out[i] = searchResultFromDomain(&results[i])
	}
	return out, nil
}

// Autocomplete returns completions for the prefix, ordered by kind and
// then alphabetically. It never fails; degraded sources shrink the list.
func (c *Client) Autocomplete(ctx context.Context, prefix string) []Suggestion {
	start := time.Now()
	suggestions := c.suggestSvc.Autocomplete(ctx, prefix)
	c.obs.observe("autocomplete", start, nil)

	out := make([]Suggestion, len(suggestions))
	for i := range suggestions {
		out[i] = Suggestion{
			Text: suggestions[i].Text(),
			Kind: string(suggestions[i].Kind()),
		}
	}
	return out
}

// Webinars returns the webinar catalog service.
func (c *Client) Webinars() *WebinarService {
	return &WebinarService{svc: c.catalogSvc, obs: c.obs}
}

// Taxonomy returns the category, speaker, and tag service.
func (c *Client) Taxonomy() *TaxonomyService {
	return &TaxonomyService{svc: c.catalogSvc, obs: c.obs}
}

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// embedderAdapter wraps the public Embedder to satisfy domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{Embedding: r.Embedding}, nil
}

// noopEmbedder reports the embedding backend as unavailable, which routes
// every query through the trigram fallback.
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, fmt.Errorf(
		"hrsearch: embedder not configured: %w", domain.ErrEmbeddingUnavailable,
	)
}

func searchResultFromDomain(r *domres.Result) SearchResult {
	return SearchResult{
		ID:          r.ID(),
		Title:       r.Title(),
		Description: r.Description(),
		Score:       r.Score(),
		Source:      string(r.Source()),
		RecordedAt:  r.RecordedAt(),
		DurationMin: r.DurationMin(),
		Category:    r.Category(),
		Speakers:    r.Speakers(),
		Tags:        r.Tags(),
	}
}

func webinarFromDomain(w *domweb.Webinar) Webinar {
	return Webinar{
		ID:          w.ID(),
		Title:       w.Title(),
		Description: w.Description(),
		CategoryID:  w.CategoryID(),
		DurationMin: w.DurationMin(),
		RecordedAt:  w.RecordedAt(),
		Status:      WebinarStatus(w.Status()),
	}
}
