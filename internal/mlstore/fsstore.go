package mlstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/riftrewind/scoring-api/internal/logic"
	"github.com/riftrewind/scoring-api/internal/models"
)

// Artifact names match the layout the training pipeline has always used:
// one model blob per role plus metadata sidecars and the canonical feature
// ordering document.
const (
	modelFilePattern  = "performance_model_%s.json"
	baselinesFileName = "baselines.json"
	metadataFileName  = "model_metadata.json"
	featuresFileName  = "features.json"
)

// FSStore reads and writes model artifacts under a single directory.
type FSStore struct {
	dir string
}

func NewFSStore(dir string) *FSStore {
	return &FSStore{dir: dir}
}

type featuresDoc struct {
	Features []string `json:"features"`
}

func (s *FSStore) modelPath(role models.Role) string {
	return filepath.Join(s.dir, fmt.Sprintf(modelFilePattern, strings.ToLower(string(role))))
}

// LoadModel reads one role's model blob and validates its feature schema
// against both the extractor's canonical ordering and the store's
// features document before handing it out.
func (s *FSStore) LoadModel(ctx context.Context, role models.Role) (*models.RoleModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.modelPath(role))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s model: %v", logic.ErrModelUnavailable, role, err)
	}

	var model models.RoleModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("%w: corrupt %s model artifact: %v", logic.ErrModelUnavailable, role, err)
	}
	if model.Role != role {
		return nil, fmt.Errorf("%w: artifact for %s carries role %s", logic.ErrFeatureSchemaMismatch, role, model.Role)
	}
	if len(model.Weights) != len(model.FeatureColumns) {
		return nil, fmt.Errorf("%w: %s model has %d weights for %d features",
			logic.ErrModelUnavailable, role, len(model.Weights), len(model.FeatureColumns))
	}

	if err := s.validateSchema(model.FeatureColumns); err != nil {
		return nil, fmt.Errorf("%s model: %w", role, err)
	}

	return &model, nil
}

// validateSchema compares a stored feature ordering to the extractor's
// canonical one and to the store's features document. Ordering mismatches
// are a silent-corruption risk, so any drift is fatal.
func (s *FSStore) validateSchema(stored []string) error {
	if err := compareColumns(stored, models.FeatureColumns); err != nil {
		return err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, featuresFileName))
	if err != nil {
		// No features document means a partial deployment; the canonical
		// check above already passed, so accept the artifact.
		return nil
	}
	var doc featuresDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: corrupt features document: %v", logic.ErrFeatureSchemaMismatch, err)
	}
	return compareColumns(doc.Features, models.FeatureColumns)
}

func compareColumns(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("%w: %d features, extractor emits %d", logic.ErrFeatureSchemaMismatch, len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("%w: position %d is %q, extractor emits %q", logic.ErrFeatureSchemaMismatch, i, got[i], want[i])
		}
	}
	return nil
}

func (s *FSStore) LoadBaselines(ctx context.Context) (map[models.Role]*models.RoleBaseline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, baselinesFileName))
	if err != nil {
		return nil, fmt.Errorf("reading baselines: %w", err)
	}

	baselines := make(map[models.Role]*models.RoleBaseline)
	if err := json.Unmarshal(data, &baselines); err != nil {
		return nil, fmt.Errorf("corrupt baselines document: %w", err)
	}
	return baselines, nil
}

func (s *FSStore) LoadMetadata(ctx context.Context) (*models.ModelArtifactMeta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, metadataFileName))
	if err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}

	var meta models.ModelArtifactMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("corrupt metadata document: %w", err)
	}
	return &meta, nil
}

func (s *FSStore) SaveModel(ctx context.Context, model *models.RoleModel) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.writeJSON(s.modelPath(model.Role), model)
}

func (s *FSStore) SaveBaselines(ctx context.Context, baselines map[models.Role]*models.RoleBaseline) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.writeJSON(filepath.Join(s.dir, baselinesFileName), baselines)
}

func (s *FSStore) SaveMetadata(ctx context.Context, meta *models.ModelArtifactMeta) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.writeJSON(filepath.Join(s.dir, metadataFileName), meta); err != nil {
		return err
	}
	return s.writeJSON(filepath.Join(s.dir, featuresFileName), featuresDoc{Features: meta.FeatureColumns})
}

// writeJSON writes via a temp file and rename so readers never observe a
// half-written artifact.
func (s *FSStore) writeJSON(path string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating model dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
