// Package worker implements the buffered worker pool for async corpus
// ingestion. It decouples the HTTP ingest endpoint from ClickHouse writes:
// - Backpressure handling via load shedding
// - Batch inserts for efficient ClickHouse writes
// - Graceful shutdown with flush guarantees
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/riftrewind/scoring-api/internal/models"
)

var (
	samplesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "perf_samples_ingested_total",
		Help: "Total number of training samples accepted into the queue",
	})

	samplesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "perf_samples_processed_total",
		Help: "Total number of training samples written to ClickHouse",
	})

	samplesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "perf_samples_failed_total",
		Help: "Total number of training samples that failed to persist",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "perf_worker_queue_depth",
		Help: "Current depth of the ingest worker queue",
	})

	batchInsertDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "perf_batch_insert_duration_seconds",
		Help:    "Duration of batch inserts to ClickHouse",
		Buckets: prometheus.DefBuckets,
	})

	samplesLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "perf_samples_load_shed_total",
		Help: "Total number of training samples dropped due to load shedding",
	})
)

// Job is one sample queued for persistence, stamped with receipt time.
type Job struct {
	Sample     models.TrainingSample
	ReceivedAt time.Time
}

// PoolConfig configures the ingest worker pool.
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	ClickHouse    driver.Conn
	Logger        *zap.Logger
}

// Pool manages a pool of workers draining queued samples into ClickHouse.
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger
}

// NewPool creates a new worker pool.
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = time.Second
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Ingest worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop gracefully shuts down the worker pool, flushing queued samples.
func (p *Pool) Stop() {
	p.logger.Info("Stopping ingest worker pool...")
	p.cancel()
	close(p.jobQueue)
	p.wg.Wait()
	p.logger.Info("Ingest worker pool stopped")
}

// Enqueue queues one sample without blocking. A full queue sheds the sample
// so a slow ClickHouse never backs up into the HTTP handlers.
func (p *Pool) Enqueue(sample models.TrainingSample) bool {
	job := Job{Sample: sample, ReceivedAt: time.Now()}

	// Protect against sending on closed channel
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warnw("Failed to enqueue sample (pool stopped)", "error", r)
		}
	}()

	select {
	case p.jobQueue <- job:
		samplesIngested.Inc()
		return true
	default:
		samplesLoadShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size.
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// worker drains jobs from the queue in batches.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	batch := make([]Job, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		if err := p.insertBatch(batch); err != nil {
			p.logger.Errorw("Batch insert failed",
				"worker", id,
				"batchSize", len(batch),
				"error", err,
			)
			samplesFailed.Add(float64(len(batch)))
		} else {
			samplesProcessed.Add(float64(len(batch)))
		}
		batchInsertDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
	}

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				flush()
				return
			}

			batch = append(batch, job)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()
		}
	}
}

// insertBatch writes one batch of samples to the training_samples table.
func (p *Pool) insertBatch(batch []Job) error {
	ctx := context.Background()

	chBatch, err := p.config.ClickHouse.PrepareBatch(ctx, `
		INSERT INTO lol_stats.training_samples (
			ingested_at, match_id, puuid, champion, role, win,
			kills, deaths, assists, kda,
			cs_per_min, jungle_cs, gold_per_min,
			damage_per_min, damage_taken_per_min, damage_mitigated, damage_share,
			vision_per_min, wards_placed, wards_killed, control_wards,
			turret_plates, turrets, dragons, barons,
			cs_at_10, cs_advantage, gold_advantage,
			kill_participation, solo_kills, multikills,
			cc_time, healing, shielding,
			time_dead_pct, longest_living,
			skillshots_hit, skillshots_dodged,
			first_blood, first_tower, game_duration
		)
	`)
	if err != nil {
		return err
	}

	for _, job := range batch {
		s := &job.Sample
		win := uint8(0)
		if s.Win {
			win = 1
		}

		err := chBatch.Append(
			job.ReceivedAt,
			s.MatchID,
			s.PUUID,
			s.Champion,
			string(s.Role),
			win,
			s.Kills, s.Deaths, s.Assists, s.KDA,
			s.CSPerMin, s.JungleCS, s.GoldPerMin,
			s.DamagePerMin, s.DamageTakenPerMin, s.DamageMitigated, s.DamageShare,
			s.VisionPerMin, s.WardsPlaced, s.WardsKilled, s.ControlWards,
			s.TurretPlates, s.Turrets, s.Dragons, s.Barons,
			s.CSAt10, s.CSAdvantage, s.GoldAdvantage,
			s.KillParticipation, s.SoloKills, s.Multikills,
			s.CCTime, s.Healing, s.Shielding,
			s.TimeDeadPct, s.LongestLiving,
			s.SkillshotsHit, s.SkillshotsDodged,
			s.FirstBlood, s.FirstTower, s.GameDuration,
		)
		if err != nil {
			p.logger.Warnw("Failed to append sample to batch",
				"error", err, "match_id", s.MatchID, "puuid", s.PUUID)
			continue
		}
	}

	return chBatch.Send()
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
