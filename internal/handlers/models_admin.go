package handlers

import (
	"net/http"

	"github.com/riftrewind/scoring-api/internal/models"
)

// ModelStatus handles GET /api/v1/models/status
// @Summary Model Cache Status
// @Description Reports per-role model cache state plus registry history
// @Tags Models
// @Produce json
// @Success 200 {object} models.ModelStatusResponse
// @Router /models/status [get]
func (h *Handler) ModelStatus(w http.ResponseWriter, r *http.Request) {
	resp := models.ModelStatusResponse{
		Roles: h.cache.Status(),
	}

	if h.registry != nil {
		versions, err := h.registry.List(r.Context())
		if err != nil {
			h.logger.Warnw("Failed to list registry versions", "error", err)
		} else {
			resp.Registry = versions
		}
	}

	h.jsonResponse(w, http.StatusOK, resp)
}

// ModelReload handles POST /api/v1/models/reload
// @Summary Reload Models
// @Description Rebuilds the model cache from the artifact store
// @Tags Models
// @Produce json
// @Success 200 {object} models.ModelStatusResponse
// @Failure 503 {object} map[string]string "Reload failed"
// @Router /models/reload [post]
func (h *Handler) ModelReload(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Reload(r.Context()); err != nil {
		h.logger.Errorw("Model reload failed", "error", err)
		h.errorResponse(w, http.StatusServiceUnavailable, "Reload failed: "+err.Error())
		return
	}

	h.jsonResponse(w, http.StatusOK, models.ModelStatusResponse{Roles: h.cache.Status()})
}
