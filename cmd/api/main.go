package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/riftrewind/scoring-api/internal/config"
	"github.com/riftrewind/scoring-api/internal/handlers"
	"github.com/riftrewind/scoring-api/internal/logic"
	"github.com/riftrewind/scoring-api/internal/mlstore"
	"github.com/riftrewind/scoring-api/internal/worker"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg.Env)
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Backends are optional. A missing URL just disables the feature;
	// a configured-but-unreachable backend is fatal.
	var pg *pgxpool.Pool
	if cfg.PostgresURL != "" {
		pg, err = pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			sugar.Fatalw("Failed to connect to Postgres", "error", err)
		}
		defer pg.Close()
	}

	var ch driver.Conn
	if cfg.ClickHouseURL != "" {
		ch, err = connectClickHouse(ctx, cfg.ClickHouseURL)
		if err != nil {
			sugar.Fatalw("Failed to connect to ClickHouse", "error", err)
		}
		defer ch.Close()
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			sugar.Fatalw("Invalid REDIS_URL", "error", err)
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
	}

	// Model cache over the artifact directory.
	store := mlstore.NewFSStore(cfg.ModelDir)
	cache := mlstore.NewCache(store, cfg.ModelLoadTimeout, sugar)

	scorer := logic.NewScorer(scorerConfig(cfg))
	inference := logic.NewInferenceService(cache, scorer, sugar)

	var registry handlers.VersionRegistry
	if pg != nil {
		registry = mlstore.NewRegistry(pg)
	}

	var pool *worker.Pool
	var queue handlers.IngestQueue
	if ch != nil {
		pool = worker.NewPool(worker.PoolConfig{
			WorkerCount:   cfg.WorkerCount,
			QueueSize:     cfg.QueueSize,
			BatchSize:     cfg.BatchSize,
			FlushInterval: cfg.FlushInterval,
			ClickHouse:    ch,
			Logger:        logger,
		})
		pool.Start(ctx)
		queue = pool
	} else {
		sugar.Warn("CLICKHOUSE_URL not set, corpus ingestion disabled")
	}

	h := handlers.New(handlers.Config{
		WorkerPool:     queue,
		Postgres:       pg,
		ClickHouse:     ch,
		Redis:          rdb,
		Logger:         logger,
		Inference:      inference,
		Cache:          cache,
		Registry:       registry,
		ResultCacheTTL: cfg.ResultCacheTTL,
		IngestToken:    cfg.IngestToken,
	})

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(writeTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/performance/score", h.ScorePerformance)
		r.Get("/models/status", h.ModelStatus)
		r.Post("/models/reload", h.ModelReload)
		r.Post("/ingest/samples", h.IngestSamples)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	go func() {
		sugar.Infow("Starting HTTP server", "port", cfg.Port, "env", cfg.Env, "model_dir", cfg.ModelDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalw("HTTP server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Server shutdown failed", "error", err)
	}

	if pool != nil {
		pool.Stop()
	}

	sugar.Info("Server stopped")
}

func newLogger(env string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	return logger
}

func scorerConfig(cfg *config.Config) logic.ScorerConfig {
	sc := logic.DefaultScorerConfig()
	sc.ScoreMin = cfg.ScoreMin
	sc.ScoreMax = cfg.ScoreMax
	if len(cfg.GradeThresholds) == 5 {
		sc.Grades = logic.GradeThresholds{
			S: cfg.GradeThresholds[0],
			A: cfg.GradeThresholds[1],
			B: cfg.GradeThresholds[2],
			C: cfg.GradeThresholds[3],
			D: cfg.GradeThresholds[4],
		}
	}
	return sc
}

func connectClickHouse(ctx context.Context, url string) (driver.Conn, error) {
	opts, err := clickhouse.ParseDSN(url)
	if err != nil {
		return nil, fmt.Errorf("invalid CLICKHOUSE_URL: %w", err)
	}
	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}
	return conn, nil
}
