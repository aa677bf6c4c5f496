// Package logic implements the performance-scoring pipeline: feature
// extraction, the role-conditioned score calculator, per-role model
// training, and the inference service that ties them together.
package logic

import (
	"errors"
	"fmt"

	"github.com/riftrewind/scoring-api/internal/models"
)

// Input errors are rejected per item and never abort a batch.
// Configuration/schema errors are fatal to a role's scoring path.
// Resource errors trigger the statistical fallback.
var (
	// ErrMalformedRecord means a raw match record is missing required
	// fields (role, win flag, core stat block) or carries an unusable
	// duration. Callers decide whether to skip or abort.
	ErrMalformedRecord = errors.New("malformed match record")

	// ErrNoBaselineForRole means no baseline exists for the vector's
	// role. Substituting another role's baseline is never acceptable.
	ErrNoBaselineForRole = errors.New("no baseline for role")

	// ErrInsufficientData means a role's corpus partition is below the
	// configured minimum; other roles still train.
	ErrInsufficientData = errors.New("insufficient training samples for role")

	// ErrFeatureSchemaMismatch means a stored model expects a feature
	// ordering different from the extractor's. Scoring with it would be
	// silently wrong, so loads fail fast instead.
	ErrFeatureSchemaMismatch = errors.New("feature schema mismatch")

	// ErrModelUnavailable means the role's model could not be retrieved
	// from the store. Recoverable: callers fall back to statistical mode.
	ErrModelUnavailable = errors.New("model unavailable")
)

// RoleError wraps a role-scoped failure so per-role errors stay isolated
// when several roles are processed together.
type RoleError struct {
	Role models.Role
	Err  error
}

func (e *RoleError) Error() string {
	return fmt.Sprintf("role %s: %v", e.Role, e.Err)
}

func (e *RoleError) Unwrap() error { return e.Err }
