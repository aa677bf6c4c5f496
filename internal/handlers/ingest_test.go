package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/riftrewind/scoring-api/internal/models"
)

func ingestBody(t *testing.T, samples []models.TrainingSample) string {
	t.Helper()
	body, err := json.Marshal(models.IngestSamplesRequest{Samples: samples})
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func TestIngestSamples(t *testing.T) {
	queue := &MockIngestQueue{}
	h := New(Config{Logger: zap.NewNop(), WorkerPool: queue})

	samples := []models.TrainingSample{
		{MatchID: "NA1_1", PUUID: "p1", Role: models.RoleJungle, Win: true, KDA: 4.5},
		{MatchID: "NA1_1", PUUID: "p2", Role: models.RoleMiddle, KDA: 2.1},
		{MatchID: "NA1_1", PUUID: "p3", Role: "FEEDER"}, // unknown role, dropped
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/samples",
		strings.NewReader(ingestBody(t, samples)))
	rec := httptest.NewRecorder()
	h.IngestSamples(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 (body %s)", rec.Code, rec.Body.String())
	}
	if len(queue.Enqueued) != 2 {
		t.Fatalf("enqueued %d samples, want 2", len(queue.Enqueued))
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["accepted"].(float64) != 2 {
		t.Errorf("accepted = %v, want 2", resp["accepted"])
	}
}

func TestIngestSamplesLoadShedding(t *testing.T) {
	full := &MockIngestQueue{
		EnqueueFunc: func(models.TrainingSample) bool { return false },
	}
	h := New(Config{Logger: zap.NewNop(), WorkerPool: full})

	samples := []models.TrainingSample{
		{MatchID: "NA1_1", PUUID: "p1", Role: models.RoleTop},
	}
	rec := httptest.NewRecorder()
	h.IngestSamples(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ingest/samples",
		strings.NewReader(ingestBody(t, samples))))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["shed"].(float64) != 1 {
		t.Errorf("shed = %v, want 1", resp["shed"])
	}
}

func TestIngestSamplesValidation(t *testing.T) {
	h := New(Config{Logger: zap.NewNop(), WorkerPool: &MockIngestQueue{}})

	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", "{nope"},
		{"empty samples", `{"samples":[]}`},
		{"missing match id", `{"samples":[{"puuid":"p1","role":"TOP"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.IngestSamples(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ingest/samples",
				strings.NewReader(tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestIngestSamplesTokenAuth(t *testing.T) {
	queue := &MockIngestQueue{}
	h := New(Config{Logger: zap.NewNop(), WorkerPool: queue, IngestToken: "collector-secret"})

	body := `{"samples":[{"match_id":"m","puuid":"p","role":"TOP"}]}`

	rec := httptest.NewRecorder()
	h.IngestSamples(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ingest/samples",
		strings.NewReader(body)))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without token", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/samples",
		strings.NewReader(body))
	req.Header.Set("X-Ingest-Token", "collector-secret")
	rec = httptest.NewRecorder()
	h.IngestSamples(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202 with valid token", rec.Code)
	}
	if len(queue.Enqueued) != 1 {
		t.Errorf("enqueued %d samples, want 1", len(queue.Enqueued))
	}
}

func TestIngestSamplesDisabled(t *testing.T) {
	h := New(Config{Logger: zap.NewNop()})

	rec := httptest.NewRecorder()
	h.IngestSamples(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ingest/samples",
		strings.NewReader(`{"samples":[{"match_id":"m","puuid":"p","role":"TOP"}]}`)))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when ingest is unconfigured", rec.Code)
	}
}
