package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/riftrewind/scoring-api/internal/models"
)

func TestModelStatus(t *testing.T) {
	cache := &MockModelCache{
		StatusFunc: func() []models.RoleModelStatus {
			return []models.RoleModelStatus{
				{Role: models.RoleTop, State: "loaded", Version: "v2"},
				{Role: models.RoleUtility, State: "unavailable", Error: "artifact gone"},
			}
		},
	}
	registry := &MockRegistry{
		ListFunc: func(ctx context.Context) ([]models.RegistryVersion, error) {
			return []models.RegistryVersion{
				{Role: models.RoleTop, Version: "v2", Active: true, R2: 0.9},
			}, nil
		},
	}
	h := New(Config{Logger: zap.NewNop(), Cache: cache, Registry: registry})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/models/status", nil)
	rec := httptest.NewRecorder()
	h.ModelStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp models.ModelStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Roles) != 2 {
		t.Errorf("roles = %d, want 2", len(resp.Roles))
	}
	if len(resp.Registry) != 1 || !resp.Registry[0].Active {
		t.Errorf("registry = %+v", resp.Registry)
	}
}

func TestModelStatusRegistryErrorNonFatal(t *testing.T) {
	registry := &MockRegistry{
		ListFunc: func(ctx context.Context) ([]models.RegistryVersion, error) {
			return nil, errors.New("pg down")
		},
	}
	h := New(Config{Logger: zap.NewNop(), Cache: &MockModelCache{}, Registry: registry})

	rec := httptest.NewRecorder()
	h.ModelStatus(rec, httptest.NewRequest(http.MethodGet, "/api/v1/models/status", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("registry failure should not fail the status endpoint: %d", rec.Code)
	}
}

func TestModelReload(t *testing.T) {
	reloaded := false
	cache := &MockModelCache{
		ReloadFunc: func(ctx context.Context) error {
			reloaded = true
			return nil
		},
	}
	h := New(Config{Logger: zap.NewNop(), Cache: cache})

	rec := httptest.NewRecorder()
	h.ModelReload(rec, httptest.NewRequest(http.MethodPost, "/api/v1/models/reload", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !reloaded {
		t.Error("reload never reached the cache")
	}
}

func TestModelReloadFailure(t *testing.T) {
	cache := &MockModelCache{
		ReloadFunc: func(ctx context.Context) error {
			return errors.New("baselines unreadable")
		},
	}
	h := New(Config{Logger: zap.NewNop(), Cache: cache})

	rec := httptest.NewRecorder()
	h.ModelReload(rec, httptest.NewRequest(http.MethodPost, "/api/v1/models/reload", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
