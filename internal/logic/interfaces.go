package logic

import (
	"context"

	"github.com/riftrewind/scoring-api/internal/models"
)

// ModelResolver supplies the trained model and baseline for a role. A nil
// model with a nil error means "no model, score statistically" — model
// absence is an expected first-class outcome, not an error to catch.
// Implemented by the mlstore cache.
type ModelResolver interface {
	Resolve(ctx context.Context, role models.Role) (*models.RoleModel, *models.RoleBaseline, error)
}

// InferenceService scores a batch of raw matches for one player identity.
type InferenceService interface {
	ScoreMatches(ctx context.Context, player models.PlayerIdentity, matches []models.RawMatch) (*models.ScoreMatchesResponse, error)
}
