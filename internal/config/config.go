package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port int
	Env  string

	// CORS
	AllowedOrigins []string

	// Model artifacts
	ModelDir         string
	ModelLoadTimeout time.Duration

	// Scoring
	ScoreMin        float64
	ScoreMax        float64
	GradeThresholds []float64 // S, A, B, C, D lower bounds

	// Training
	MinSamplesPerRole int
	TrainTestFraction float64
	TrainSeed         int64
	RidgeLambda       float64

	// Backends. All optional: the service runs degraded without them
	// (no corpus ingest, no version registry, no result cache).
	PostgresURL   string
	ClickHouseURL string
	RedisURL      string

	// Inference result cache
	ResultCacheTTL time.Duration

	// Ingest worker pool
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration

	// Shared secret collectors present on the ingest endpoint. Empty
	// leaves the endpoint open (local development).
	IngestToken string
}

// Load loads configuration from environment variables. Unparseable values
// fall back to their defaults; Load errors only when the resulting
// configuration is inconsistent (grade thresholds, score bounds, split
// fraction).
func Load() (*Config, error) {
	cfg := &Config{
		Port: getEnvInt("PORT", 8080),
		Env:  getEnv("ENV", "development"),

		ModelDir:         getEnv("MODEL_DIR", "./models"),
		ModelLoadTimeout: getEnvDuration("MODEL_LOAD_TIMEOUT", 10*time.Second),

		ScoreMin: getEnvFloat("SCORE_MIN", 0),
		ScoreMax: getEnvFloat("SCORE_MAX", 100),

		MinSamplesPerRole: getEnvInt("MIN_SAMPLES_PER_ROLE", 100),
		TrainTestFraction: getEnvFloat("TRAIN_TEST_FRACTION", 0.2),
		TrainSeed:         int64(getEnvInt("TRAIN_SEED", 42)),
		RidgeLambda:       getEnvFloat("RIDGE_LAMBDA", 1.0),

		PostgresURL:   getEnv("POSTGRES_URL", ""),
		ClickHouseURL: getEnv("CLICKHOUSE_URL", ""),
		RedisURL:      getEnv("REDIS_URL", ""),

		ResultCacheTTL: getEnvDuration("RESULT_CACHE_TTL", time.Hour),

		WorkerCount:   getEnvInt("WORKER_COUNT", 4),
		QueueSize:     getEnvInt("QUEUE_SIZE", 10000),
		BatchSize:     getEnvInt("BATCH_SIZE", 500),
		FlushInterval: getEnvDuration("FLUSH_INTERVAL", 1*time.Second),

		IngestToken: getEnv("INGEST_TOKEN", ""),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	// Grade thresholds: five comma-separated lower bounds, S through D.
	thresholds := getEnv("GRADE_THRESHOLDS", "90,80,70,60,50")
	parsed, err := parseThresholds(thresholds)
	if err != nil {
		return nil, fmt.Errorf("invalid GRADE_THRESHOLDS %q: %w", thresholds, err)
	}
	cfg.GradeThresholds = parsed

	if cfg.ScoreMax <= cfg.ScoreMin {
		return nil, fmt.Errorf("SCORE_MAX (%v) must exceed SCORE_MIN (%v)", cfg.ScoreMax, cfg.ScoreMin)
	}
	if cfg.TrainTestFraction <= 0 || cfg.TrainTestFraction >= 1 {
		return nil, fmt.Errorf("TRAIN_TEST_FRACTION must be in (0,1), got %v", cfg.TrainTestFraction)
	}

	return cfg, nil
}

func parseThresholds(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 5 {
		return nil, fmt.Errorf("want 5 values, got %d", len(parts))
	}
	out := make([]float64, 5)
	prev := 0.0
	for i := len(parts) - 1; i >= 0; i-- {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return nil, err
		}
		if i < len(parts)-1 && v <= prev {
			return nil, fmt.Errorf("thresholds must be strictly decreasing")
		}
		out[i] = v
		prev = v
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
