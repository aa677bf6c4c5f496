package mlstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/riftrewind/scoring-api/internal/logic"
	"github.com/riftrewind/scoring-api/internal/models"
)

// Role model lifecycle states, reported on the status endpoint.
const (
	StateUnloaded    = "unloaded"
	StateLoading     = "loading"
	StateLoaded      = "loaded"
	StateUnavailable = "unavailable"
)

var (
	modelLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "perf_model_loads_total",
		Help: "Model store load attempts by role and result",
	}, []string{"role", "result"})

	modelLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "perf_model_load_duration_seconds",
		Help:    "Duration of model store fetches",
		Buckets: prometheus.DefBuckets,
	})

	modelReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "perf_model_reloads_total",
		Help: "Model cache reloads (retrained model swap-ins)",
	})
)

type roleEntry struct {
	state   string
	model   *models.RoleModel
	loadErr error
}

// Cache is the process-wide warm model cache. Models load lazily on first
// use, one load at a time per role: concurrent cold requests share a
// single store fetch and observe the same outcome. Loaded models are
// immutable and shared by unlimited readers; Reload swaps a fresh snapshot
// in, it never mutates a model already in use.
//
// The cache lives for the process lifetime and is passed explicitly to the
// inference service; there is no ambient global.
type Cache struct {
	store       Store
	logger      *zap.SugaredLogger
	loadTimeout time.Duration

	sf singleflight.Group

	mu        sync.RWMutex
	roles     map[models.Role]*roleEntry
	baselines map[models.Role]*models.RoleBaseline
}

func NewCache(store Store, loadTimeout time.Duration, logger *zap.SugaredLogger) *Cache {
	if loadTimeout <= 0 {
		loadTimeout = 10 * time.Second
	}
	c := &Cache{
		store:       store,
		logger:      logger,
		loadTimeout: loadTimeout,
		roles:       make(map[models.Role]*roleEntry, len(models.Roles)),
	}
	for _, r := range models.Roles {
		c.roles[r] = &roleEntry{state: StateUnloaded}
	}
	return c
}

// Resolve returns the role's model and baseline for scoring. A nil model
// with a nil error means the model is unavailable and the caller should
// fall back to statistical scoring — model absence is an expected outcome,
// not an error. A missing baseline is an error: scoring cannot proceed at
// all without one.
func (c *Cache) Resolve(ctx context.Context, role models.Role) (*models.RoleModel, *models.RoleBaseline, error) {
	baseline, err := c.baseline(ctx, role)
	if err != nil {
		return nil, nil, err
	}

	c.mu.RLock()
	entry, ok := c.roles[role]
	if ok && (entry.state == StateLoaded || entry.state == StateUnavailable) {
		model, loadErr := entry.model, entry.loadErr
		c.mu.RUnlock()
		// Schema mismatches are deployment inconsistencies and stay fatal
		// to this role's scoring path; plain outages degrade silently.
		if loadErr != nil && errors.Is(loadErr, logic.ErrFeatureSchemaMismatch) {
			return nil, baseline, loadErr
		}
		return model, baseline, nil
	}
	c.mu.RUnlock()

	// Cold path: collapse concurrent loads of the same role.
	v, err, _ := c.sf.Do("model:"+string(role), func() (any, error) {
		return c.loadModel(ctx, role)
	})
	if err != nil {
		return nil, baseline, err
	}
	model, _ := v.(*models.RoleModel)
	return model, baseline, nil
}

// loadModel performs the guarded store fetch and records the outcome.
// Retrieval failure is recoverable: the role parks in Unavailable and
// requests fall back until the next reload. A feature-schema mismatch is
// not recoverable and is returned as an error instead.
func (c *Cache) loadModel(ctx context.Context, role models.Role) (*models.RoleModel, error) {
	c.setState(role, StateLoading, nil, nil)

	loadCtx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()

	start := time.Now()
	model, err := c.store.LoadModel(loadCtx, role)
	modelLoadDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		modelLoads.WithLabelValues(string(role), "failure").Inc()
		c.setState(role, StateUnavailable, nil, err)
		if errors.Is(err, logic.ErrFeatureSchemaMismatch) {
			c.logger.Errorw("Model schema mismatch, role scoring disabled", "role", role, "error", err)
			return nil, err
		}
		c.logger.Warnw("Model load failed, role degraded to statistical scoring",
			"role", role, "error", err)
		return nil, nil
	}

	modelLoads.WithLabelValues(string(role), "success").Inc()
	c.logger.Infow("Model loaded", "role", role, "version", model.Version)
	c.setState(role, StateLoaded, model, nil)
	return model, nil
}

// baseline returns the role's baseline, loading the baselines document on
// first use. Unlike model failures, a baselines failure is not cached:
// it is fatal to the request and worth retrying on the next one.
func (c *Cache) baseline(ctx context.Context, role models.Role) (*models.RoleBaseline, error) {
	c.mu.RLock()
	cached := c.baselines
	c.mu.RUnlock()

	if cached == nil {
		v, err, _ := c.sf.Do("baselines", func() (any, error) {
			loadCtx, cancel := context.WithTimeout(ctx, c.loadTimeout)
			defer cancel()
			return c.store.LoadBaselines(loadCtx)
		})
		if err != nil {
			return nil, fmt.Errorf("%w: baselines unavailable: %v", logic.ErrNoBaselineForRole, err)
		}
		cached = v.(map[models.Role]*models.RoleBaseline)

		c.mu.Lock()
		if c.baselines == nil {
			c.baselines = cached
		} else {
			cached = c.baselines
		}
		c.mu.Unlock()
	}

	b, ok := cached[role]
	if !ok || b == nil {
		return nil, &logic.RoleError{Role: role, Err: logic.ErrNoBaselineForRole}
	}
	return b, nil
}

// Reload builds a complete fresh snapshot from the store and swaps it in.
// Used to pick up a retrained deployment without restarting the process.
// Roles whose artifacts fail to load land in Unavailable in the new
// snapshot; an unreadable baselines document aborts the whole reload and
// keeps the old snapshot serving.
func (c *Cache) Reload(ctx context.Context) error {
	loadCtx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()

	baselines, err := c.store.LoadBaselines(loadCtx)
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}

	fresh := make(map[models.Role]*roleEntry, len(models.Roles))
	for _, role := range models.Roles {
		model, err := c.store.LoadModel(loadCtx, role)
		if err != nil {
			c.logger.Warnw("Reload: role unavailable", "role", role, "error", err)
			fresh[role] = &roleEntry{state: StateUnavailable, loadErr: err}
			continue
		}
		fresh[role] = &roleEntry{state: StateLoaded, model: model}
	}

	c.mu.Lock()
	c.roles = fresh
	c.baselines = baselines
	c.mu.Unlock()

	modelReloads.Inc()
	c.logger.Infow("Model cache reloaded", "roles", len(fresh))
	return nil
}

// Status reports each role's current cache state.
func (c *Cache) Status() []models.RoleModelStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.RoleModelStatus, 0, len(models.Roles))
	for _, role := range models.Roles {
		entry, ok := c.roles[role]
		if !ok {
			out = append(out, models.RoleModelStatus{Role: role, State: StateUnloaded})
			continue
		}
		st := models.RoleModelStatus{Role: role, State: entry.state}
		if entry.model != nil {
			st.Version = entry.model.Version
			m := entry.model.Metrics
			st.Metrics = &m
		}
		if entry.loadErr != nil {
			st.Error = entry.loadErr.Error()
		}
		out = append(out, st)
	}
	return out
}

func (c *Cache) setState(role models.Role, state string, model *models.RoleModel, loadErr error) {
	c.mu.Lock()
	c.roles[role] = &roleEntry{state: state, model: model, loadErr: loadErr}
	c.mu.Unlock()
}

// IsUnavailable reports whether the given error marks a recoverable model
// outage as opposed to a schema or baseline problem.
func IsUnavailable(err error) bool {
	return errors.Is(err, logic.ErrModelUnavailable)
}
