// Package mlstore handles trained-model persistence: the artifact store the
// trainer writes and the inference service reads, the process-wide model
// cache, and the Postgres version registry.
package mlstore

import (
	"context"

	"github.com/riftrewind/scoring-api/internal/models"
)

// Store is the model artifact store. Implementations must validate feature
// ordering at load time and fail fast on drift rather than returning a
// model that would score silently wrong.
type Store interface {
	// LoadModel retrieves one role's trained model. A missing or corrupt
	// artifact wraps logic.ErrModelUnavailable; a feature-order mismatch
	// wraps logic.ErrFeatureSchemaMismatch.
	LoadModel(ctx context.Context, role models.Role) (*models.RoleModel, error)

	// LoadBaselines retrieves the role baseline document for all roles.
	LoadBaselines(ctx context.Context) (map[models.Role]*models.RoleBaseline, error)

	// LoadMetadata retrieves the training metadata sidecar.
	LoadMetadata(ctx context.Context) (*models.ModelArtifactMeta, error)

	// SaveModel, SaveBaselines, and SaveMetadata are the trainer's write
	// side. Writes replace whole documents; nothing mutates in place.
	SaveModel(ctx context.Context, model *models.RoleModel) error
	SaveBaselines(ctx context.Context, baselines map[models.Role]*models.RoleBaseline) error
	SaveMetadata(ctx context.Context, meta *models.ModelArtifactMeta) error
}
