package handlers

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/riftrewind/scoring-api/internal/logic"
	"github.com/riftrewind/scoring-api/internal/models"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

// IngestQueue is the ingestion worker pool as the handlers see it.
type IngestQueue interface {
	Enqueue(sample models.TrainingSample) bool
	QueueDepth() int
}

// ModelCache is the process model cache surface the admin endpoints use.
type ModelCache interface {
	Status() []models.RoleModelStatus
	Reload(ctx context.Context) error
}

// VersionRegistry lists stored model versions for the status endpoint.
type VersionRegistry interface {
	List(ctx context.Context) ([]models.RegistryVersion, error)
}

type Config struct {
	WorkerPool IngestQueue
	Postgres   *pgxpool.Pool
	ClickHouse driver.Conn
	Redis      *redis.Client
	Logger     *zap.Logger
	// Services
	Inference logic.InferenceService
	Cache     ModelCache
	Registry  VersionRegistry
	// Inference result cache TTL; zero disables caching even with Redis up.
	ResultCacheTTL time.Duration
	// Shared secret for the ingest endpoint; empty disables the check.
	IngestToken string
}

type Handler struct {
	pool           IngestQueue
	pg             *pgxpool.Pool
	ch             driver.Conn
	redis          *redis.Client
	logger         *zap.SugaredLogger
	validator      *validator.Validate
	inference      logic.InferenceService
	cache          ModelCache
	registry       VersionRegistry
	resultCacheTTL time.Duration
	ingestToken    string
}

func New(cfg Config) *Handler {
	return &Handler{
		pool:           cfg.WorkerPool,
		pg:             cfg.Postgres,
		ch:             cfg.ClickHouse,
		redis:          cfg.Redis,
		logger:         cfg.Logger.Sugar(),
		validator:      validator.New(),
		inference:      cfg.Inference,
		cache:          cfg.Cache,
		registry:       cfg.Registry,
		resultCacheTTL: cfg.ResultCacheTTL,
		ingestToken:    cfg.IngestToken,
	}
}
