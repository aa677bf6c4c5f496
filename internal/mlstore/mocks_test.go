package mlstore

import (
	"context"
	"sync/atomic"

	"github.com/riftrewind/scoring-api/internal/models"
)

// MockStore implements Store for testing
type MockStore struct {
	LoadModelFunc     func(ctx context.Context, role models.Role) (*models.RoleModel, error)
	LoadBaselinesFunc func(ctx context.Context) (map[models.Role]*models.RoleBaseline, error)
	LoadMetadataFunc  func(ctx context.Context) (*models.ModelArtifactMeta, error)

	ModelLoads    atomic.Int64
	BaselineLoads atomic.Int64
}

func (m *MockStore) LoadModel(ctx context.Context, role models.Role) (*models.RoleModel, error) {
	m.ModelLoads.Add(1)
	if m.LoadModelFunc != nil {
		return m.LoadModelFunc(ctx, role)
	}
	return testModel(role), nil
}

func (m *MockStore) LoadBaselines(ctx context.Context) (map[models.Role]*models.RoleBaseline, error) {
	m.BaselineLoads.Add(1)
	if m.LoadBaselinesFunc != nil {
		return m.LoadBaselinesFunc(ctx)
	}
	baselines := make(map[models.Role]*models.RoleBaseline, len(models.Roles))
	for _, r := range models.Roles {
		baselines[r] = &models.RoleBaseline{
			Role:     r,
			Samples:  100,
			Features: map[string]models.FeatureStats{},
		}
	}
	return baselines, nil
}

func (m *MockStore) LoadMetadata(ctx context.Context) (*models.ModelArtifactMeta, error) {
	if m.LoadMetadataFunc != nil {
		return m.LoadMetadataFunc(ctx)
	}
	return &models.ModelArtifactMeta{}, nil
}

func (m *MockStore) SaveModel(ctx context.Context, model *models.RoleModel) error { return nil }
func (m *MockStore) SaveBaselines(ctx context.Context, baselines map[models.Role]*models.RoleBaseline) error {
	return nil
}
func (m *MockStore) SaveMetadata(ctx context.Context, meta *models.ModelArtifactMeta) error {
	return nil
}
