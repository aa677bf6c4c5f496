package mlstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/riftrewind/scoring-api/internal/models"
)

// PgPool defines the interface for the PostgreSQL connection pool.
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Registry records trained model versions in Postgres. The artifact store
// holds the blobs; the registry is the operator-facing ledger of what was
// trained when, with what quality, and which version each role serves.
type Registry struct {
	pg PgPool
}

func NewRegistry(pg PgPool) *Registry {
	return &Registry{pg: pg}
}

// Register inserts a trained version and marks it active for its role,
// deactivating the previous one in the same statement batch.
func (r *Registry) Register(ctx context.Context, model *models.RoleModel, artifactPath string) error {
	if _, err := r.pg.Exec(ctx,
		`UPDATE model_versions SET active = false WHERE role = $1 AND active = true`,
		string(model.Role)); err != nil {
		return fmt.Errorf("deactivating previous %s version: %w", model.Role, err)
	}

	_, err := r.pg.Exec(ctx, `
		INSERT INTO model_versions (role, version, created_at, artifact_path, rmse, mae, r2, samples, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true)
	`,
		string(model.Role), model.Version, model.TrainedAt, artifactPath,
		model.Metrics.RMSE, model.Metrics.MAE, model.Metrics.R2,
		model.Metrics.SamplesTrain+model.Metrics.SamplesTest,
	)
	if err != nil {
		return fmt.Errorf("registering %s version %s: %w", model.Role, model.Version, err)
	}
	return nil
}

// List returns the registry ledger, newest first.
func (r *Registry) List(ctx context.Context) ([]models.RegistryVersion, error) {
	rows, err := r.pg.Query(ctx, `
		SELECT role, version, created_at::text, artifact_path, rmse, mae, r2, samples, active
		FROM model_versions
		ORDER BY created_at DESC
		LIMIT 50
	`)
	if err != nil {
		return nil, fmt.Errorf("listing model versions: %w", err)
	}
	defer rows.Close()

	versions := []models.RegistryVersion{}
	for rows.Next() {
		var v models.RegistryVersion
		var role string
		if err := rows.Scan(&role, &v.Version, &v.CreatedAt, &v.ArtifactPath,
			&v.RMSE, &v.MAE, &v.R2, &v.Samples, &v.Active); err != nil {
			// A scan failure is a schema drift, not a bad row; a silently
			// shortened listing would hide it.
			return nil, fmt.Errorf("scanning model version row: %w", err)
		}
		v.Role = models.Role(role)
		versions = append(versions, v)
	}
	return versions, rows.Err()
}
