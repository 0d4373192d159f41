package embedjob

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kadra-cloud/hrsearch/internal/domain"
	domweb "github.com/kadra-cloud/hrsearch/internal/domain/webinar"
)

// DefaultBatchSize is the number of titles embedded per provider call.
const DefaultBatchSize = 32

// Report summarizes a backfill run.
type Report struct {
	Scanned  int
	Missing  int
	Embedded int
	Failed   int
}

// Service backfills title embeddings for published webinars that lack one.
// Runs are idempotent: webinars with a stored title vector are skipped.
type Service struct {
	catalog   CatalogLister
	vectors   VectorStore
	embed     Embedder
	batchSize int
	logger    *zap.Logger
}

// New creates a backfill service.
func New(catalog CatalogLister, vectors VectorStore, embed Embedder, batchSize int, logger *zap.Logger) *Service {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		catalog:   catalog,
		vectors:   vectors,
		embed:     embed,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Run scans the published catalog and embeds every missing title vector.
// An embedding provider outage aborts the run; storage errors on single
// webinars are counted as failures and the run continues.
func (s *Service) Run(ctx context.Context) (Report, error) {
	var report Report

	webinars, err := s.catalog.ListPublished(ctx)
	if err != nil {
		return report, fmt.Errorf("list published: %w", err)
	}
	report.Scanned = len(webinars)

	missing := make([]domweb.Webinar, 0, len(webinars))
	for i := range webinars {
		has, err := s.vectors.Has(ctx, webinars[i].ID(), domain.KindTitle)
		if err != nil {
			return report, fmt.Errorf("check embedding %s: %w", webinars[i].ID(), err)
		}
		if !has {
			missing = append(missing, webinars[i])
		}
	}
	report.Missing = len(missing)

	for start := 0; start < len(missing); start += s.batchSize {
		end := start + s.batchSize
		if end > len(missing) {
			end = len(missing)
		}
		if err := s.processBatch(ctx, missing[start:end], &report); err != nil {
			return report, err
		}
	}

	s.logger.Info("embedding backfill finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("missing", report.Missing),
		zap.Int("embedded", report.Embedded),
		zap.Int("failed", report.Failed))
	return report, nil
}

func (s *Service) processBatch(ctx context.Context, batch []domweb.Webinar, report *Report) error {
	texts := make([]string, len(batch))
	for i := range batch {
		texts[i] = batch[i].Title()
	}

	res, err := s.batchEmbed(ctx, texts)
	if err != nil {
		if errors.Is(err, domain.ErrEmbeddingUnavailable) {
			return fmt.Errorf("embed batch: %w", err)
		}
		report.Failed += len(batch)
		s.logger.Warn("batch embed failed, skipping batch",
			zap.Int("size", len(batch)), zap.Error(err))
		return nil
	}
	if len(res.Embeddings) != len(batch) {
		report.Failed += len(batch)
		s.logger.Warn("batch embed returned wrong count",
			zap.Int("want", len(batch)), zap.Int("got", len(res.Embeddings)))
		return nil
	}

	for i := range batch {
		err := s.vectors.Upsert(ctx, batch[i].ID(), domain.KindTitle, res.Embeddings[i])
		if err != nil {
			report.Failed++
			s.logger.Warn("store embedding failed",
				zap.String("webinar_id", batch[i].ID()), zap.Error(err))
			continue
		}
		report.Embedded++
	}
	return nil
}

// batchEmbed uses the provider's native batch call when available.
func (s *Service) batchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if be, ok := s.embed.(domain.BatchEmbedder); ok {
		return be.BatchEmbed(ctx, texts)
	}
	return domain.BatchFallback(ctx, s.embed, texts)
}
