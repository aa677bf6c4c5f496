package mlstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riftrewind/scoring-api/internal/logic"
	"github.com/riftrewind/scoring-api/internal/models"
)

func testModel(role models.Role) *models.RoleModel {
	cols := append([]string(nil), models.FeatureColumns...)
	return &models.RoleModel{
		Role:           role,
		Version:        "v-test-1",
		TrainedAt:      time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		FeatureColumns: cols,
		Intercept:      55.5,
		Weights:        make([]float64, len(cols)),
		Means:          make([]float64, len(cols)),
		Scales:         make([]float64, len(cols)),
		Metrics:        models.EvaluationMetrics{RMSE: 3.2, MAE: 2.5, R2: 0.91},
	}
}

func TestFSStoreModelRoundTrip(t *testing.T) {
	store := NewFSStore(t.TempDir())
	ctx := context.Background()

	want := testModel(models.RoleJungle)
	want.Weights[0] = 1.25

	if err := store.SaveModel(ctx, want); err != nil {
		t.Fatal(err)
	}

	got, err := store.LoadModel(ctx, models.RoleJungle)
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != want.Version || got.Intercept != want.Intercept {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Weights[0] != 1.25 {
		t.Errorf("weights[0] = %v, want 1.25", got.Weights[0])
	}
	if !got.TrainedAt.Equal(want.TrainedAt) {
		t.Errorf("trained_at = %v, want %v", got.TrainedAt, want.TrainedAt)
	}
}

func TestFSStoreMissingModel(t *testing.T) {
	store := NewFSStore(t.TempDir())

	_, err := store.LoadModel(context.Background(), models.RoleTop)
	if !errors.Is(err, logic.ErrModelUnavailable) {
		t.Errorf("err = %v, want ErrModelUnavailable", err)
	}
}

func TestFSStoreCorruptModel(t *testing.T) {
	dir := t.TempDir()
	store := NewFSStore(dir)

	if err := os.WriteFile(filepath.Join(dir, "performance_model_top.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := store.LoadModel(context.Background(), models.RoleTop)
	if !errors.Is(err, logic.ErrModelUnavailable) {
		t.Errorf("err = %v, want ErrModelUnavailable", err)
	}
}

func TestFSStoreSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	store := NewFSStore(dir)
	ctx := context.Background()

	t.Run("reordered columns", func(t *testing.T) {
		model := testModel(models.RoleMiddle)
		model.FeatureColumns[0], model.FeatureColumns[1] = model.FeatureColumns[1], model.FeatureColumns[0]
		if err := store.SaveModel(ctx, model); err != nil {
			t.Fatal(err)
		}

		_, err := store.LoadModel(ctx, models.RoleMiddle)
		if !errors.Is(err, logic.ErrFeatureSchemaMismatch) {
			t.Errorf("err = %v, want ErrFeatureSchemaMismatch", err)
		}
	})

	t.Run("wrong role in artifact", func(t *testing.T) {
		model := testModel(models.RoleBottom)
		data, _ := json.Marshal(model)
		// Written under TOP's filename but carrying BOTTOM inside.
		if err := os.WriteFile(filepath.Join(dir, "performance_model_top.json"), data, 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := store.LoadModel(ctx, models.RoleTop)
		if !errors.Is(err, logic.ErrFeatureSchemaMismatch) {
			t.Errorf("err = %v, want ErrFeatureSchemaMismatch", err)
		}
	})

	t.Run("weights length drift", func(t *testing.T) {
		model := testModel(models.RoleUtility)
		model.Weights = model.Weights[:10]
		if err := store.SaveModel(ctx, model); err != nil {
			t.Fatal(err)
		}

		_, err := store.LoadModel(ctx, models.RoleUtility)
		if !errors.Is(err, logic.ErrModelUnavailable) {
			t.Errorf("err = %v, want ErrModelUnavailable", err)
		}
	})

	t.Run("features document drift", func(t *testing.T) {
		model := testModel(models.RoleJungle)
		if err := store.SaveModel(ctx, model); err != nil {
			t.Fatal(err)
		}
		doc := featuresDoc{Features: []string{"kills", "deaths"}}
		data, _ := json.Marshal(doc)
		if err := os.WriteFile(filepath.Join(dir, featuresFileName), data, 0o644); err != nil {
			t.Fatal(err)
		}

		_, err := store.LoadModel(ctx, models.RoleJungle)
		if !errors.Is(err, logic.ErrFeatureSchemaMismatch) {
			t.Errorf("err = %v, want ErrFeatureSchemaMismatch", err)
		}
	})
}

func TestFSStoreBaselinesRoundTrip(t *testing.T) {
	store := NewFSStore(t.TempDir())
	ctx := context.Background()

	want := map[models.Role]*models.RoleBaseline{
		models.RoleTop: {
			Role:    models.RoleTop,
			Samples: 240,
			Features: map[string]models.FeatureStats{
				models.FeatKDA: {Mean: 3.1, StdDev: 1.4},
			},
			ScoreQuantiles: []float64{10, 50, 90},
		},
	}

	if err := store.SaveBaselines(ctx, want); err != nil {
		t.Fatal(err)
	}

	got, err := store.LoadBaselines(ctx)
	if err != nil {
		t.Fatal(err)
	}
	b, ok := got[models.RoleTop]
	if !ok {
		t.Fatal("TOP baseline missing after round trip")
	}
	if b.Samples != 240 || b.Features[models.FeatKDA].Mean != 3.1 {
		t.Errorf("baseline mismatch: %+v", b)
	}
	if len(b.ScoreQuantiles) != 3 {
		t.Errorf("quantiles = %v", b.ScoreQuantiles)
	}
}

func TestFSStoreMetadataWritesFeaturesDoc(t *testing.T) {
	dir := t.TempDir()
	store := NewFSStore(dir)
	ctx := context.Background()

	meta := &models.ModelArtifactMeta{
		TrainingDate:   time.Now().UTC(),
		NumSamples:     5000,
		NumMatches:     500,
		Roles:          []models.Role{models.RoleTop},
		FeatureColumns: models.FeatureColumns,
	}
	if err := store.SaveMetadata(ctx, meta); err != nil {
		t.Fatal(err)
	}

	got, err := store.LoadMetadata(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.NumSamples != 5000 {
		t.Errorf("num_samples = %d", got.NumSamples)
	}

	data, err := os.ReadFile(filepath.Join(dir, featuresFileName))
	if err != nil {
		t.Fatalf("features document not written: %v", err)
	}
	var doc featuresDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Features) != len(models.FeatureColumns) {
		t.Errorf("features doc has %d columns, want %d", len(doc.Features), len(models.FeatureColumns))
	}

	// The sidecar keeps loads honest: a valid model must still load.
	if err := store.SaveModel(ctx, testModel(models.RoleTop)); err != nil {
		t.Fatal(err)
	}
	if _, err := store.LoadModel(ctx, models.RoleTop); err != nil {
		t.Errorf("load with matching features doc failed: %v", err)
	}
}
