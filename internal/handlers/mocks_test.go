package handlers

import (
	"context"

	"github.com/riftrewind/scoring-api/internal/models"
)

// MockInferenceService implements logic.InferenceService
type MockInferenceService struct {
	ScoreMatchesFunc func(ctx context.Context, player models.PlayerIdentity, matches []models.RawMatch) (*models.ScoreMatchesResponse, error)
}

func (m *MockInferenceService) ScoreMatches(ctx context.Context, player models.PlayerIdentity, matches []models.RawMatch) (*models.ScoreMatchesResponse, error) {
	if m.ScoreMatchesFunc != nil {
		return m.ScoreMatchesFunc(ctx, player, matches)
	}
	return &models.ScoreMatchesResponse{Player: player}, nil
}

// MockModelCache implements ModelCache
type MockModelCache struct {
	StatusFunc func() []models.RoleModelStatus
	ReloadFunc func(ctx context.Context) error
}

func (m *MockModelCache) Status() []models.RoleModelStatus {
	if m.StatusFunc != nil {
		return m.StatusFunc()
	}
	return []models.RoleModelStatus{{Role: models.RoleTop, State: "loaded", Version: "v1"}}
}

func (m *MockModelCache) Reload(ctx context.Context) error {
	if m.ReloadFunc != nil {
		return m.ReloadFunc(ctx)
	}
	return nil
}

// MockRegistry implements VersionRegistry
type MockRegistry struct {
	ListFunc func(ctx context.Context) ([]models.RegistryVersion, error)
}

func (m *MockRegistry) List(ctx context.Context) ([]models.RegistryVersion, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

// MockIngestQueue implements IngestQueue
type MockIngestQueue struct {
	EnqueueFunc func(sample models.TrainingSample) bool
	Enqueued    []models.TrainingSample
}

func (m *MockIngestQueue) Enqueue(sample models.TrainingSample) bool {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(sample)
	}
	m.Enqueued = append(m.Enqueued, sample)
	return true
}

func (m *MockIngestQueue) QueueDepth() int { return len(m.Enqueued) }
