package models

import "time"

// FeatureStats is the per-feature reference statistic within one role.
type FeatureStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
}

// RoleBaseline holds per-role reference statistics computed over the
// training corpus. It is immutable after training: the score calculator
// reads it to z-score features, and ScoreQuantiles carries enough of the
// training score distribution to map a score to a percentile without the
// corpus.
type RoleBaseline struct {
	Role     Role                    `json:"role"`
	Samples  int                     `json:"samples"`
	Features map[string]FeatureStats `json:"features"`

	// ScoreQuantiles[i] is the i-th percentile (0..100) of the training
	// score distribution. Empty on artifacts from older trainers; the
	// percentile mapping then falls back to a linear approximation.
	ScoreQuantiles []float64 `json:"score_quantiles,omitempty"`
}

// EvaluationMetrics reports held-out regression quality for one role model.
// Observability output only: the trainer never rejects a model on these.
type EvaluationMetrics struct {
	RMSE         float64 `json:"rmse"`
	MAE          float64 `json:"mae"`
	R2           float64 `json:"r2"`
	SamplesTrain int     `json:"samples_train"`
	SamplesTest  int     `json:"samples_test"`
}

// RoleModel is a trained per-role regressor plus the metadata needed to
// apply it safely. Read-only once loaded; retraining replaces the whole
// value, never mutates one in use.
type RoleModel struct {
	Role      Role      `json:"role"`
	Version   string    `json:"version"`
	TrainedAt time.Time `json:"trained_at"`

	// FeatureColumns is the exact ordering the weights were fit against.
	// It must match the extractor's canonical ordering at load time.
	FeatureColumns []string `json:"feature_columns"`

	// Ridge regression parameters over standardized features.
	Intercept float64   `json:"intercept"`
	Weights   []float64 `json:"weights"`
	Means     []float64 `json:"feature_means"`
	Scales    []float64 `json:"feature_scales"`

	Metrics EvaluationMetrics `json:"metrics"`
}

// Predict runs the regression over an ordered, raw-valued feature slice.
// The caller is responsible for ordering per FeatureColumns.
func (m *RoleModel) Predict(ordered []float64) float64 {
	sum := m.Intercept
	for i, w := range m.Weights {
		if i >= len(ordered) {
			break
		}
		x := ordered[i]
		if i < len(m.Means) && i < len(m.Scales) && m.Scales[i] > 0 {
			x = (x - m.Means[i]) / m.Scales[i]
		}
		sum += w * x
	}
	return sum
}

// Grade is the letter grade band for a performance score.
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// ScoreResult is the externally visible scoring output for one match
// participant. Computed fresh per request, never persisted by the core.
type ScoreResult struct {
	MatchID          string  `json:"match_id,omitempty"`
	PerformanceScore float64 `json:"performance_score"`
	Grade            Grade   `json:"grade"`
	Percentile       float64 `json:"percentile"`
	Role             Role    `json:"role"`
	Champion         string  `json:"champion"`
	Win              bool    `json:"win"`

	// Degraded is set when the role's trained model was unavailable and
	// the statistical fallback produced the score. Operators use this to
	// watch for drift between the two modes.
	Degraded bool `json:"degraded,omitempty"`

	// Passthrough display stats.
	KDA          string `json:"kda"`
	CS           int    `json:"cs"`
	Damage       int    `json:"damage"`
	VisionScore  int    `json:"vision_score"`
	GameDuration string `json:"game_duration"`
}

// ModelArtifactMeta is the sidecar metadata document stored alongside each
// serialized role model in the artifact store.
type ModelArtifactMeta struct {
	TrainingDate   time.Time                  `json:"training_date"`
	NumSamples     int                        `json:"num_samples"`
	NumMatches     int                        `json:"num_matches"`
	Roles          []Role                     `json:"roles"`
	FeatureColumns []string                   `json:"feature_columns"`
	Metrics        map[Role]EvaluationMetrics `json:"metrics"`
}
