package logic

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/riftrewind/scoring-api/internal/models"
)

// TrainerConfig carries the tunable training parameters. Seed fixes the
// train/test shuffle so repeated runs over the same corpus are equivalent.
type TrainerConfig struct {
	MinSamplesPerRole int
	TestFraction      float64
	Seed              int64
	RidgeLambda       float64
}

func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		MinSamplesPerRole: 100,
		TestFraction:      0.2,
		Seed:              42,
		RidgeLambda:       1.0,
	}
}

// TrainedRole bundles one role's training output.
type TrainedRole struct {
	Model    *models.RoleModel
	Baseline *models.RoleBaseline
	Metrics  models.EvaluationMetrics
}

// TrainResult maps trained roles to their artifacts and records which roles
// were skipped and why. A skipped role never fails the other roles.
type TrainResult struct {
	Roles   map[models.Role]*TrainedRole
	Skipped map[models.Role]error
}

// Trainer fits one regression model per role. Training targets come from
// the statistical-mode scorer, so the models learn to approximate and
// generalize the hand-specified composite.
type Trainer struct {
	cfg    TrainerConfig
	scorer *Scorer
	logger *zap.SugaredLogger
}

func NewTrainer(cfg TrainerConfig, scorer *Scorer, logger *zap.SugaredLogger) *Trainer {
	if cfg.MinSamplesPerRole <= 0 {
		cfg.MinSamplesPerRole = 100
	}
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		cfg.TestFraction = 0.2
	}
	return &Trainer{cfg: cfg, scorer: scorer, logger: logger}
}

// Train partitions the corpus by role and trains every role with enough
// samples, in parallel. Roles below the minimum land in Skipped with
// ErrInsufficientData.
func (t *Trainer) Train(ctx context.Context, samples []models.TrainingSample) (*TrainResult, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("train: empty corpus")
	}

	partitions := make(map[models.Role][]models.TrainingSample)
	for _, s := range samples {
		if _, err := models.ParseRole(string(s.Role)); err != nil {
			continue // collector lets the odd Invalid row through
		}
		partitions[s.Role] = append(partitions[s.Role], s)
	}

	result := &TrainResult{
		Roles:   make(map[models.Role]*TrainedRole),
		Skipped: make(map[models.Role]error),
	}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for role, part := range partitions {
		role, part := role, part
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if len(part) < t.cfg.MinSamplesPerRole {
				t.logger.Warnw("Skipping role: insufficient samples",
					"role", role, "samples", len(part), "minimum", t.cfg.MinSamplesPerRole)
				mu.Lock()
				result.Skipped[role] = &RoleError{Role: role, Err: ErrInsufficientData}
				mu.Unlock()
				return nil
			}

			trained, err := t.trainRole(role, part)
			if err != nil {
				return fmt.Errorf("training %s: %w", role, err)
			}

			mu.Lock()
			result.Roles[role] = trained
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// trainRole runs the full per-role procedure: baseline, targets, seeded
// split, ridge fit, held-out evaluation.
func (t *Trainer) trainRole(role models.Role, part []models.TrainingSample) (*TrainedRole, error) {
	baseline := computeBaseline(role, part)

	vectors := make([]models.FeatureVector, len(part))
	targets := make([]float64, len(part))
	for i := range part {
		vectors[i] = part[i].FeatureVector()
		score, err := t.scorer.StatisticalScore(vectors[i], baseline)
		if err != nil {
			return nil, err
		}
		targets[i] = score
	}
	baseline.ScoreQuantiles = scoreQuantiles(targets)

	x := make([][]float64, len(vectors))
	for i := range vectors {
		x[i] = vectors[i].Ordered(models.FeatureColumns)
	}

	// Seeded shuffle keeps the split reproducible across runs.
	idx := rand.New(rand.NewSource(t.cfg.Seed)).Perm(len(x))
	testN := int(float64(len(x)) * t.cfg.TestFraction)
	if testN < 1 {
		testN = 1
	}
	trainN := len(x) - testN

	xTrain := make([][]float64, 0, trainN)
	yTrain := make([]float64, 0, trainN)
	xTest := make([][]float64, 0, testN)
	yTest := make([]float64, 0, testN)
	for i, j := range idx {
		if i < trainN {
			xTrain = append(xTrain, x[j])
			yTrain = append(yTrain, targets[j])
		} else {
			xTest = append(xTest, x[j])
			yTest = append(yTest, targets[j])
		}
	}

	reg := newRidgeRegression(t.cfg.RidgeLambda)
	if err := reg.fit(xTrain, yTrain); err != nil {
		return nil, err
	}

	metrics := evaluate(reg, xTest, yTest)
	metrics.SamplesTrain = trainN
	metrics.SamplesTest = testN

	t.logger.Infow("Trained role model",
		"role", role,
		"samples", len(part),
		"rmse", round2(metrics.RMSE),
		"mae", round2(metrics.MAE),
		"r2", math.Round(metrics.R2*1000)/1000,
	)

	model := &models.RoleModel{
		Role:           role,
		Version:        uuid.New().String(),
		TrainedAt:      time.Now().UTC(),
		FeatureColumns: append([]string(nil), models.FeatureColumns...),
		Intercept:      reg.intercept,
		Weights:        reg.weights,
		Means:          reg.means,
		Scales:         reg.scales,
		Metrics:        metrics,
	}

	return &TrainedRole{Model: model, Baseline: baseline, Metrics: metrics}, nil
}

// computeBaseline derives per-feature mean/stddev for one role's partition.
// Game duration is context, not performance, so it stays out of the
// baseline the same way it stays out of the composite.
func computeBaseline(role models.Role, part []models.TrainingSample) *models.RoleBaseline {
	features := make(map[string]models.FeatureStats, len(models.FeatureColumns))
	n := float64(len(part))

	vectors := make([]models.FeatureVector, len(part))
	for i := range part {
		vectors[i] = part[i].FeatureVector()
	}

	for _, col := range models.FeatureColumns {
		if col == models.FeatGameDuration {
			continue
		}
		var sum float64
		for i := range vectors {
			sum += vectors[i].Get(col)
		}
		mean := sum / n

		var ss float64
		for i := range vectors {
			d := vectors[i].Get(col) - mean
			ss += d * d
		}
		// The epsilon keeps constant features from producing infinite
		// z-scores, matching the reference pipeline.
		std := math.Sqrt(ss/n) + 1e-6

		features[col] = models.FeatureStats{Mean: mean, StdDev: std}
	}

	return &models.RoleBaseline{
		Role:     role,
		Samples:  len(part),
		Features: features,
	}
}

// scoreQuantiles captures 101 order statistics of the training score
// distribution so inference can rank a score without the corpus.
func scoreQuantiles(scores []float64) []float64 {
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	q := make([]float64, 101)
	last := len(sorted) - 1
	for i := 0; i <= 100; i++ {
		pos := float64(i) / 100 * float64(last)
		lo := int(math.Floor(pos))
		hi := int(math.Ceil(pos))
		if lo == hi {
			q[i] = sorted[lo]
			continue
		}
		frac := pos - float64(lo)
		q[i] = sorted[lo]*(1-frac) + sorted[hi]*frac
	}
	return q
}

func evaluate(reg *ridgeRegression, xTest [][]float64, yTest []float64) models.EvaluationMetrics {
	n := float64(len(yTest))
	if n == 0 {
		return models.EvaluationMetrics{}
	}

	var yMean float64
	for _, v := range yTest {
		yMean += v
	}
	yMean /= n

	var sse, sae, sst float64
	for i, row := range xTest {
		pred := reg.predict(row)
		d := yTest[i] - pred
		sse += d * d
		sae += math.Abs(d)
		dm := yTest[i] - yMean
		sst += dm * dm
	}

	r2 := 0.0
	if sst > 0 {
		r2 = 1 - sse/sst
	}

	return models.EvaluationMetrics{
		RMSE: math.Sqrt(sse / n),
		MAE:  sae / n,
		R2:   r2,
	}
}
