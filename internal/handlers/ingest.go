package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/riftrewind/scoring-api/internal/models"
)

// IngestSamples handles POST /api/v1/ingest/samples
// @Summary Ingest Training Samples
// @Description Accepts flattened participant stat lines for the training corpus
// @Tags Ingestion
// @Accept json
// @Produce json
// @Param body body models.IngestSamplesRequest true "Samples"
// @Success 202 {object} map[string]interface{} "Accepted"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 401 {object} map[string]string "Invalid ingest token"
// @Failure 503 {object} map[string]string "Ingest disabled"
// @Router /ingest/samples [post]
func (h *Handler) IngestSamples(w http.ResponseWriter, r *http.Request) {
	if h.pool == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, "Corpus ingestion is not configured")
		return
	}
	if h.ingestToken != "" && r.Header.Get("X-Ingest-Token") != h.ingestToken {
		h.errorResponse(w, http.StatusUnauthorized, "Invalid ingest token")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var req models.IngestSamplesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	accepted := 0
	shed := 0
	for i := range req.Samples {
		if _, err := models.ParseRole(string(req.Samples[i].Role)); err != nil {
			h.logger.Warnw("Rejecting sample with unknown role",
				"role", req.Samples[i].Role, "match_id", req.Samples[i].MatchID)
			continue
		}
		if h.pool.Enqueue(req.Samples[i]) {
			accepted++
		} else {
			shed++
		}
	}

	if shed > 0 {
		h.logger.Warnw("Ingest queue full, samples shed", "accepted", accepted, "shed", shed)
	}

	h.jsonResponse(w, http.StatusAccepted, map[string]interface{}{
		"status":   "accepted",
		"accepted": accepted,
		"shed":     shed,
	})
}
