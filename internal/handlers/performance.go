package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/riftrewind/scoring-api/internal/models"
)

// ScorePerformance handles POST /api/v1/performance/score
// @Summary Score Match Performance
// @Description Scores a batch of matches for one player, per-role
// @Tags Performance
// @Accept json
// @Produce json
// @Param body body models.ScoreMatchesRequest true "Player and matches"
// @Success 200 {object} models.ScoreMatchesResponse
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /performance/score [post]
func (h *Handler) ScorePerformance(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var req models.ScoreMatchesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	cacheKey := scoreCacheKey(req.Player.PUUID, req.Matches)
	if cached, ok := h.cachedResult(r.Context(), cacheKey); ok {
		cached.Cached = true
		h.jsonResponse(w, http.StatusOK, cached)
		return
	}

	resp, err := h.inference.ScoreMatches(r.Context(), req.Player, req.Matches)
	if err != nil {
		h.logger.Errorw("Batch scoring failed", "puuid", req.Player.PUUID, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Scoring failed")
		return
	}

	h.storeResult(r.Context(), cacheKey, resp)
	h.jsonResponse(w, http.StatusOK, resp)
}

// scoreCacheKey is stable under match reordering so retried requests hit.
func scoreCacheKey(puuid string, matches []models.RawMatch) string {
	ids := make([]string, 0, len(matches))
	for i := range matches {
		ids = append(ids, matches[i].Info.MatchID)
	}
	sort.Strings(ids)

	sum := sha256.Sum256([]byte(puuid + "|" + strings.Join(ids, ",")))
	return "perf:score:" + hex.EncodeToString(sum[:])
}

func (h *Handler) cachedResult(ctx context.Context, key string) (*models.ScoreMatchesResponse, bool) {
	if h.redis == nil || h.resultCacheTTL <= 0 {
		return nil, false
	}

	data, err := h.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var resp models.ScoreMatchesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		h.logger.Warnw("Corrupt cached score result, recomputing", "key", key, "error", err)
		return nil, false
	}
	return &resp, true
}

func (h *Handler) storeResult(ctx context.Context, key string, resp *models.ScoreMatchesResponse) {
	if h.redis == nil || h.resultCacheTTL <= 0 {
		return
	}
	// Partial batches are retried by clients; only cache clean results.
	if len(resp.Failures) > 0 {
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, key, data, h.resultCacheTTL).Err(); err != nil {
		h.logger.Warnw("Failed to cache score result", "key", key, "error", err)
	}
}
