package logic

import (
	"math"

	"github.com/riftrewind/scoring-api/internal/models"
)

// Key stats and weights for the statistical composite. Negative weights
// mark "less is better" stats whose z-score is inverted. Order is fixed so
// the float accumulation is bit-for-bit reproducible.
var keyStatWeights = []struct {
	stat   string
	weight float64
}{
	{models.FeatKDA, 2.0},
	{models.FeatCSPerMin, 1.5},
	{models.FeatDamagePerMin, 2.0},
	{models.FeatVisionPerMin, 1.0},
	{models.FeatKillParticipation, 1.5},
	{models.FeatDamageShare, 1.5},
	{models.FeatTimeDeadPct, -2.0},
}

// GradeThresholds are the inclusive lower score bounds per letter grade.
type GradeThresholds struct {
	S float64
	A float64
	B float64
	C float64
	D float64
}

// DefaultGradeThresholds is the fixed production banding.
var DefaultGradeThresholds = GradeThresholds{S: 90, A: 80, B: 70, C: 60, D: 50}

// ScorerConfig carries the externally overridable scoring knobs.
type ScorerConfig struct {
	WinWeight    float64
	StatWeight   float64
	ImpactWeight float64
	WinPoints    float64
	LossPoints   float64
	ScoreMin     float64
	ScoreMax     float64
	Grades       GradeThresholds
}

// DefaultScorerConfig returns the documented 30/50/20 weighting.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		WinWeight:    0.30,
		StatWeight:   0.50,
		ImpactWeight: 0.20,
		WinPoints:    25,
		LossPoints:   5,
		ScoreMin:     0,
		ScoreMax:     100,
		Grades:       DefaultGradeThresholds,
	}
}

// Scorer computes performance scores from feature vectors and role
// baselines. Stateless per call and safe for concurrent use.
type Scorer struct {
	cfg ScorerConfig
}

func NewScorer(cfg ScorerConfig) *Scorer {
	if cfg.ScoreMax <= cfg.ScoreMin {
		cfg.ScoreMin, cfg.ScoreMax = 0, 100
	}
	return &Scorer{cfg: cfg}
}

// Score produces the full result for one feature vector. When model is nil
// the statistical composite is used and the result is flagged degraded at
// the caller's discretion; when a model is present its prediction wins.
// The baseline must belong to the vector's role in both modes — it drives
// z-scores in statistical mode and the percentile mapping in both.
func (s *Scorer) Score(fv models.FeatureVector, baseline *models.RoleBaseline, model *models.RoleModel) (models.ScoreResult, error) {
	if baseline == nil || baseline.Role != fv.Role {
		return models.ScoreResult{}, &RoleError{Role: fv.Role, Err: ErrNoBaselineForRole}
	}

	var score float64
	if model != nil {
		if model.Role != fv.Role {
			return models.ScoreResult{}, &RoleError{Role: fv.Role, Err: ErrNoBaselineForRole}
		}
		score = sanitizeScore(model.Predict(fv.Ordered(model.FeatureColumns)), s.cfg.ScoreMin)
	} else {
		score = s.statisticalScore(fv, baseline)
	}
	score = s.clamp(score)

	return models.ScoreResult{
		PerformanceScore: round2(score),
		Grade:            s.GradeFor(score),
		Percentile:       round1(s.PercentileFor(score, baseline)),
		Role:             fv.Role,
		Win:              fv.Win,
	}, nil
}

// StatisticalScore exposes the composite formula directly; the trainer uses
// it to generate regression targets.
func (s *Scorer) StatisticalScore(fv models.FeatureVector, baseline *models.RoleBaseline) (float64, error) {
	if baseline == nil || baseline.Role != fv.Role {
		return 0, &RoleError{Role: fv.Role, Err: ErrNoBaselineForRole}
	}
	return s.clamp(s.statisticalScore(fv, baseline)), nil
}

// statisticalScore is the weighted composite:
//
//	win/loss  (weight 0.30): WinPoints or LossPoints
//	key stats (weight 0.50): clipped z-scores against role baseline,
//	                         averaged into a 0-100 sub-score
//	impact    (weight 0.20): bounded objective/combat bonuses on a 0-100 scale
func (s *Scorer) statisticalScore(fv models.FeatureVector, baseline *models.RoleBaseline) float64 {
	winPts := s.cfg.LossPoints
	if fv.Win {
		winPts = s.cfg.WinPoints
	}

	var entries []float64
	for _, kw := range keyStatWeights {
		ref, ok := baseline.Features[kw.stat]
		if !ok || ref.StdDev <= 0 {
			continue
		}
		z := (fv.Get(kw.stat) - ref.Mean) / ref.StdDev
		if kw.weight < 0 {
			z = -z
		}
		// Clip to a 0-10 band centered at 5 so outliers cannot dominate.
		entries = append(entries, clampf(5+z, 0, 10)*math.Abs(kw.weight))
	}

	statSub := 50.0 // neutral when the baseline carries none of the key stats
	if len(entries) > 0 {
		var sum float64
		for _, e := range entries {
			sum += e
		}
		statSub = clampf(sum/float64(len(entries))*10, 0, 100)
	}

	impactSub := clampf(impactPoints(fv)*5, 0, 100)

	return s.cfg.WinWeight*winPts + s.cfg.StatWeight*statSub + s.cfg.ImpactWeight*impactSub
}

// impactPoints scores objective participation, combat excellence, and first
// actions on the 0-20 point scale the composite was calibrated with.
func impactPoints(fv models.FeatureVector) float64 {
	pts := math.Min(fv.Get(models.FeatTurrets)*2, 5)
	pts += math.Min(fv.Get(models.FeatDragons)*2, 5)
	pts += math.Min(fv.Get(models.FeatBarons)*5, 5)

	if fv.Get(models.FeatSoloKills) >= 2 {
		pts += 3
	}
	if fv.Get(models.FeatMultikills) >= 1 {
		pts += 2
	}
	pts += 2 * fv.Get(models.FeatFirstBlood)
	pts += 1 * fv.Get(models.FeatFirstTower)

	return math.Min(pts, 20)
}

// GradeFor maps a score to its letter grade. Monotonic by construction.
func (s *Scorer) GradeFor(score float64) models.Grade {
	g := s.cfg.Grades
	switch {
	case score >= g.S:
		return models.GradeS
	case score >= g.A:
		return models.GradeA
	case score >= g.B:
		return models.GradeB
	case score >= g.C:
		return models.GradeC
	case score >= g.D:
		return models.GradeD
	default:
		return models.GradeF
	}
}

// PercentileFor ranks a score against the role's training distribution.
// With quantiles present this is the empirical CDF (linear interpolation
// between order statistics); legacy baselines without quantiles fall back
// to the old linear approximation centered at 50.
func (s *Scorer) PercentileFor(score float64, baseline *models.RoleBaseline) float64 {
	q := baseline.ScoreQuantiles
	if len(q) < 2 {
		return clampf(50+(score-50)*1.5, 0, 100)
	}

	if score <= q[0] {
		return 0
	}
	last := len(q) - 1
	if score >= q[last] {
		return 100
	}
	step := 100.0 / float64(last)
	for i := 1; i <= last; i++ {
		if score > q[i] {
			continue
		}
		lo, hi := q[i-1], q[i]
		frac := 0.0
		if hi > lo {
			frac = (score - lo) / (hi - lo)
		}
		return (float64(i-1) + frac) * step
	}
	return 100
}

func (s *Scorer) clamp(v float64) float64 {
	return clampf(v, s.cfg.ScoreMin, s.cfg.ScoreMax)
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }

// The statistical composite can never be NaN, but a corrupt model artifact
// could produce one; treat it as the floor rather than letting it leak out.
func sanitizeScore(v, lo float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return lo
	}
	return v
}
