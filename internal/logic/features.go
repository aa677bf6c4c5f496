package logic

import (
	"fmt"

	"github.com/riftrewind/scoring-api/internal/models"
)

// Matches shorter than this are remakes/aborts and carry no signal.
const minGameDurationSeconds = 300

// ExtractFeatures converts one raw participant record into the flat feature
// vector the scorer and models consume. Pure and deterministic: the same
// record always yields the same vector.
//
// Raw counts that scale with match length (CS, gold, damage, vision) are
// normalized per minute so cross-match comparisons within a role stay
// meaningful; time dead is expressed as a game fraction.
func ExtractFeatures(info models.MatchInfo, rec models.MatchParticipantRecord) (models.FeatureVector, error) {
	if rec.Win == nil {
		return models.FeatureVector{}, fmt.Errorf("%w: missing win flag", ErrMalformedRecord)
	}
	role, err := models.ParseRole(rec.IndividualPosition)
	if err != nil {
		return models.FeatureVector{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if info.GameDuration < minGameDurationSeconds {
		return models.FeatureVector{}, fmt.Errorf("%w: game duration %ds below minimum", ErrMalformedRecord, info.GameDuration)
	}
	// Only CLASSIC games carry position assignments the baselines were
	// built from. Older exports omit the mode; those pass through.
	if info.GameMode != "" && info.GameMode != "CLASSIC" {
		return models.FeatureVector{}, fmt.Errorf("%w: unsupported game mode %q", ErrMalformedRecord, info.GameMode)
	}

	durationMins := float64(info.GameDuration) / 60.0
	ch := rec.Challenges

	kda := float64(rec.Kills+rec.Assists) / maxf(float64(rec.Deaths), 1)

	csAt10 := float64(ch.LaneMinionsFirst10Minutes)
	if csAt10 == 0 {
		csAt10 = ch.JungleCsBefore10Minutes
	}

	goldAdvantage := 0.0
	if ch.EarlyLaningPhaseGoldExpAdvantage > 0 {
		goldAdvantage = 1.0
	}

	values := map[string]float64{
		models.FeatKills:   float64(rec.Kills),
		models.FeatDeaths:  float64(rec.Deaths),
		models.FeatAssists: float64(rec.Assists),
		models.FeatKDA:     kda,

		models.FeatCSPerMin:   float64(rec.TotalMinionsKilled) / durationMins,
		models.FeatJungleCS:   float64(rec.NeutralMinionsKilled),
		models.FeatGoldPerMin: float64(rec.GoldEarned) / durationMins,

		models.FeatDamagePerMin:      float64(rec.TotalDamageDealtToChampions) / durationMins,
		models.FeatDamageTakenPerMin: float64(rec.TotalDamageTaken) / durationMins,
		models.FeatDamageMitigated:   float64(rec.DamageSelfMitigated),
		models.FeatDamageShare:       ch.TeamDamagePercentage,

		models.FeatVisionPerMin: float64(rec.VisionScore) / durationMins,
		models.FeatWardsPlaced:  float64(rec.WardsPlaced),
		models.FeatWardsKilled:  float64(rec.WardsKilled),
		models.FeatControlWards: float64(ch.ControlWardsPlaced),

		models.FeatTurretPlates: float64(ch.TurretPlatesTaken),
		models.FeatTurrets:      float64(rec.TurretKills),
		models.FeatDragons:      float64(rec.DragonKills),
		models.FeatBarons:       float64(rec.BaronKills),

		models.FeatCSAt10:        csAt10,
		models.FeatCSAdvantage:   ch.MaxCsAdvantageOnLaneOpponent,
		models.FeatGoldAdvantage: goldAdvantage,

		models.FeatKillParticipation: ch.KillParticipation,
		models.FeatSoloKills:         float64(ch.SoloKills),
		models.FeatMultikills:        float64(rec.Multikills()),

		models.FeatCCTime:    float64(rec.TimeCCingOthers),
		models.FeatHealing:   float64(rec.TotalHeal),
		models.FeatShielding: float64(rec.TotalDamageShieldedOnTeammates),

		models.FeatTimeDeadPct:   float64(rec.TotalTimeSpentDead) / float64(info.GameDuration),
		models.FeatLongestLiving: float64(rec.LongestTimeSpentLiving),

		models.FeatSkillshotsHit:    float64(ch.SkillshotsHit),
		models.FeatSkillshotsDodged: float64(ch.SkillshotsDodged),

		models.FeatFirstBlood: boolToFloat(rec.FirstBloodKill),
		models.FeatFirstTower: boolToFloat(rec.FirstTowerKill),

		models.FeatGameDuration: durationMins,
	}

	return models.FeatureVector{
		Role:   role,
		Win:    *rec.Win,
		Values: values,
	}, nil
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
