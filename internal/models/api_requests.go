package models

// PlayerIdentity names the player being scored. PUUID is the stable key;
// game name and tagline are display passthrough.
type PlayerIdentity struct {
	PUUID    string `json:"puuid" validate:"required"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

type ScoreMatchesRequest struct {
	Player  PlayerIdentity `json:"player" validate:"required"`
	Matches []RawMatch     `json:"matches" validate:"required,min=1,max=50,dive"`
}

// MatchFailure annotates one match that could not be scored. It never
// aborts the batch; the summary excludes it.
type MatchFailure struct {
	MatchID string `json:"match_id"`
	Error   string `json:"error"`
}

type ScoreSummary struct {
	TotalMatches int     `json:"total_matches"`
	AverageScore float64 `json:"average_score"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
}

type ScoreMatchesResponse struct {
	Player   PlayerIdentity `json:"player"`
	Matches  []ScoreResult  `json:"matches"`
	Failures []MatchFailure `json:"failures,omitempty"`
	Summary  ScoreSummary   `json:"summary"`
	Cached   bool           `json:"cached,omitempty"`
}

// RoleModelStatus reports one role's slot in the process model cache.
type RoleModelStatus struct {
	Role    Role   `json:"role"`
	State   string `json:"state"` // unloaded, loading, loaded, unavailable
	Version string `json:"version,omitempty"`
	Error   string `json:"error,omitempty"`

	Metrics *EvaluationMetrics `json:"metrics,omitempty"`
}

type ModelStatusResponse struct {
	Roles    []RoleModelStatus `json:"roles"`
	Registry []RegistryVersion `json:"registry,omitempty"`
}

// RegistryVersion is one row from the model version registry.
type RegistryVersion struct {
	Role         Role    `json:"role"`
	Version      string  `json:"version"`
	CreatedAt    string  `json:"created_at"`
	ArtifactPath string  `json:"artifact_path"`
	RMSE         float64 `json:"rmse"`
	MAE          float64 `json:"mae"`
	R2           float64 `json:"r2"`
	Samples      int     `json:"samples"`
	Active       bool    `json:"active"`
}

type IngestSamplesRequest struct {
	Samples []TrainingSample `json:"samples" validate:"required,min=1,dive"`
}
