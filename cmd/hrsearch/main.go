package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kadra-cloud/hrsearch/internal/config"
	dbRedis "github.com/kadra-cloud/hrsearch/internal/db/redis"
	logpkg "github.com/kadra-cloud/hrsearch/internal/logger"
	"github.com/kadra-cloud/hrsearch/internal/metrics"
	"github.com/kadra-cloud/hrsearch/internal/repository/embcache"
	embeddingrepo "github.com/kadra-cloud/hrsearch/internal/repository/embedding"
	taxonomyrepo "github.com/kadra-cloud/hrsearch/internal/repository/taxonomy"
	webinarrepo "github.com/kadra-cloud/hrsearch/internal/repository/webinar"
	chiTransport "github.com/kadra-cloud/hrsearch/internal/transport/chi"
	openaiEmb "github.com/kadra-cloud/hrsearch/internal/transport/openai"
	cataloguc "github.com/kadra-cloud/hrsearch/internal/usecase/catalog"
	healthuc "github.com/kadra-cloud/hrsearch/internal/usecase/health"
	"github.com/kadra-cloud/hrsearch/internal/usecase/metadata"
	searchuc "github.com/kadra-cloud/hrsearch/internal/usecase/search"
	suggestuc "github.com/kadra-cloud/hrsearch/internal/usecase/suggest"
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

	logger.Info("Starting hrsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("embedding_model", cfg.Embedding.Model),
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
	logger.Info("Connected to database")

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Embedder chain: OpenAI provider behind a Redis-backed cache.
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
	taxonomy := taxonomyrepo.New(store, cfg.Storage.KeyPrefix)
	vectors := embeddingrepo.New(store, cfg.Embedding.Dimensions, cfg.Storage.KeyPrefix)

	if err := webinars.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to create webinar index", zap.Error(err))
	}
	if err := vectors.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to create embedding index", zap.Error(err))
	}
	if err := vectors.VerifyDimensions(ctx); err != nil {
		logger.Fatal("Stored embeddings do not match the configured model",
			zap.Int("dimensions", cfg.Embedding.Dimensions), zap.Error(err))
	}

	meta := metadata.New(webinars, taxonomy)
	searchSvc := searchuc.New(embedder, vectors, webinars, meta, cfg.Search, logger)
	suggestSvc := suggestuc.New(webinars, taxonomy, cfg.Search, logger)
	catalogSvc := cataloguc.New(webinars, taxonomy, embedder, vectors, meta, logger)
	healthSvc := healthuc.New(store, baseEmbedder)

	server := chiTransport.NewServer(searchSvc, suggestSvc, catalogSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
