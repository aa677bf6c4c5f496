package logic

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/riftrewind/scoring-api/internal/models"
)

var (
	scoresComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "perf_scores_computed_total",
		Help: "Performance scores computed, by role and scoring mode",
	}, []string{"role", "mode"})

	matchesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "perf_matches_rejected_total",
		Help: "Matches rejected per-item during batch scoring",
	})
)

type inferenceService struct {
	resolver ModelResolver
	scorer   *Scorer
	logger   *zap.SugaredLogger
}

// NewInferenceService wires the extractor, scorer, and model cache into
// the batch scoring entry point. The resolver (the process model cache)
// is passed in explicitly; the service holds no globals.
func NewInferenceService(resolver ModelResolver, scorer *Scorer, logger *zap.SugaredLogger) InferenceService {
	return &inferenceService{resolver: resolver, scorer: scorer, logger: logger}
}

// ScoreMatches scores each match independently and accumulates a summary
// over the successes. A malformed record or per-role failure annotates that
// match and never aborts the batch.
func (s *inferenceService) ScoreMatches(ctx context.Context, player models.PlayerIdentity, matches []models.RawMatch) (*models.ScoreMatchesResponse, error) {
	resp := &models.ScoreMatchesResponse{
		Player:  player,
		Matches: make([]models.ScoreResult, 0, len(matches)),
	}

	var scoreSum float64
	for i := range matches {
		result, err := s.scoreOne(ctx, &matches[i])
		if err != nil {
			matchesRejected.Inc()
			s.logger.Warnw("Match rejected during batch scoring",
				"match_id", matches[i].Info.MatchID, "puuid", player.PUUID, "error", err)
			resp.Failures = append(resp.Failures, models.MatchFailure{
				MatchID: matches[i].Info.MatchID,
				Error:   err.Error(),
			})
			continue
		}

		resp.Matches = append(resp.Matches, *result)
		scoreSum += result.PerformanceScore
		if result.Win {
			resp.Summary.Wins++
		} else {
			resp.Summary.Losses++
		}
	}

	resp.Summary.TotalMatches = len(resp.Matches)
	if resp.Summary.TotalMatches > 0 {
		resp.Summary.AverageScore = round2(scoreSum / float64(resp.Summary.TotalMatches))
	}

	return resp, nil
}

func (s *inferenceService) scoreOne(ctx context.Context, match *models.RawMatch) (*models.ScoreResult, error) {
	fv, err := ExtractFeatures(match.Info, match.Participant)
	if err != nil {
		return nil, err
	}

	model, baseline, err := s.resolver.Resolve(ctx, fv.Role)
	if err != nil {
		return nil, err
	}

	result, err := s.scorer.Score(fv, baseline, model)
	if err != nil {
		return nil, err
	}

	mode := "model"
	if model == nil {
		mode = "statistical"
		result.Degraded = true
	}
	scoresComputed.WithLabelValues(string(fv.Role), mode).Inc()

	rec := &match.Participant
	result.MatchID = match.Info.MatchID
	result.Champion = rec.ChampionName
	result.KDA = fmt.Sprintf("%d/%d/%d", rec.Kills, rec.Deaths, rec.Assists)
	result.CS = rec.TotalMinionsKilled
	result.Damage = rec.TotalDamageDealtToChampions
	result.VisionScore = rec.VisionScore
	result.GameDuration = fmt.Sprintf("%d:%02d", match.Info.GameDuration/60, match.Info.GameDuration%60)

	return &result, nil
}
