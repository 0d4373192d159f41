// Command hrsearch-embed backfills missing title embeddings and exits.
// Run it after bulk imports or after switching the embedding model.
package main

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kadra-cloud/hrsearch/internal/config"
	dbRedis "github.com/kadra-cloud/hrsearch/internal/db/redis"
	logpkg "github.com/kadra-cloud/hrsearch/internal/logger"
	"github.com/kadra-cloud/hrsearch/internal/metrics"
	"github.com/kadra-cloud/hrsearch/internal/repository/embcache"
	embeddingrepo "github.com/kadra-cloud/hrsearch/internal/repository/embedding"
	webinarrepo "github.com/kadra-cloud/hrsearch/internal/repository/webinar"
	openaiEmb "github.com/kadra-cloud/hrsearch/internal/transport/openai"
	"github.com/kadra-cloud/hrsearch/internal/usecase/embedjob"
	"github.com/kadra-cloud/hrsearch/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting embedding backfill",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.Int("batch_size", cfg.Search.EmbedBatchSize),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}

	metrics.RegisterSearchMetrics()

	baseEmbedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})
	embedder := embcache.New(
		baseEmbedder, store, cfg.Embedding.Model, cfg.Storage.KeyPrefix, 0, metrics.EmbeddingCacheTotal, logger,
	)

	webinars := webinarrepo.New(store, cfg.Storage.KeyPrefix)
	vectors := embeddingrepo.New(store, cfg.Embedding.Dimensions, cfg.Storage.KeyPrefix)

	if err := vectors.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to create embedding index", zap.Error(err))
	}
	if err := vectors.VerifyDimensions(ctx); err != nil {
		logger.Fatal("Stored embeddings do not match the configured model",
			zap.Int("dimensions", cfg.Embedding.Dimensions), zap.Error(err))
	}

	job := embedjob.New(webinars, vectors, embedder, cfg.Search.EmbedBatchSize, logger)

	report, err := job.Run(ctx)
	if err != nil {
		logger.Error("Backfill aborted",
			zap.Int("embedded", report.Embedded),
			zap.Int("failed", report.Failed),
			zap.Error(err))
		os.Exit(1)
	}

	if report.Failed > 0 {
		os.Exit(1)
	}
}
