package models

import (
	"fmt"
	"strings"
)

// Role is one of the five lane/position assignments. Every baseline and
// model is keyed by role; a model is never applied across roles.
type Role string

const (
	RoleTop     Role = "TOP"
	RoleJungle  Role = "JUNGLE"
	RoleMiddle  Role = "MIDDLE"
	RoleBottom  Role = "BOTTOM"
	RoleUtility Role = "UTILITY"
)

// Roles lists all valid roles in a stable order.
var Roles = []Role{RoleTop, RoleJungle, RoleMiddle, RoleBottom, RoleUtility}

// ParseRole validates a raw position label from match data. The data source
// uses "Invalid" or "" for arena/event queues where positions don't apply.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown role label %q", s)
}

// Feature names, grouped the way the training pipeline documents them.
const (
	FeatKills   = "kills"
	FeatDeaths  = "deaths"
	FeatAssists = "assists"
	FeatKDA     = "kda"

	FeatCSPerMin   = "cs_per_min"
	FeatJungleCS   = "jungle_cs"
	FeatGoldPerMin = "gold_per_min"

	FeatDamagePerMin      = "damage_per_min"
	FeatDamageTakenPerMin = "damage_taken_per_min"
	FeatDamageMitigated   = "damage_mitigated"
	FeatDamageShare       = "damage_share"

	FeatVisionPerMin = "vision_per_min"
	FeatWardsPlaced  = "wards_placed"
	FeatWardsKilled  = "wards_killed"
	FeatControlWards = "control_wards"

	FeatTurretPlates = "turret_plates"
	FeatTurrets      = "turrets"
	FeatDragons      = "dragons"
	FeatBarons       = "barons"

	FeatCSAt10        = "cs_at_10"
	FeatCSAdvantage   = "cs_advantage"
	FeatGoldAdvantage = "gold_advantage"

	FeatKillParticipation = "kill_participation"
	FeatSoloKills         = "solo_kills"
	FeatMultikills        = "multikills"

	FeatCCTime    = "cc_time"
	FeatHealing   = "healing"
	FeatShielding = "shielding"

	FeatTimeDeadPct   = "time_dead_pct"
	FeatLongestLiving = "longest_living"

	FeatSkillshotsHit    = "skillshots_hit"
	FeatSkillshotsDodged = "skillshots_dodged"

	FeatFirstBlood = "first_blood"
	FeatFirstTower = "first_tower"

	FeatGameDuration = "game_duration"
)

// FeatureColumns is the canonical feature ordering. Model artifacts store
// the ordering they were trained with, and loads fail when it drifts from
// this list, so keep additions append-only within a model generation.
var FeatureColumns = []string{
	FeatKills, FeatDeaths, FeatAssists, FeatKDA,
	FeatCSPerMin, FeatJungleCS, FeatGoldPerMin,
	FeatDamagePerMin, FeatDamageTakenPerMin, FeatDamageMitigated, FeatDamageShare,
	FeatVisionPerMin, FeatWardsPlaced, FeatWardsKilled, FeatControlWards,
	FeatTurretPlates, FeatTurrets, FeatDragons, FeatBarons,
	FeatCSAt10, FeatCSAdvantage, FeatGoldAdvantage,
	FeatKillParticipation, FeatSoloKills, FeatMultikills,
	FeatCCTime, FeatHealing, FeatShielding,
	FeatTimeDeadPct, FeatLongestLiving,
	FeatSkillshotsHit, FeatSkillshotsDodged,
	FeatFirstBlood, FeatFirstTower,
	FeatGameDuration,
}

// FeatureVector is the flat, typed view of one participant's match,
// derived deterministically from a MatchParticipantRecord. Values are
// per-minute or per-game-fraction normalized where raw counts would be
// confounded by match duration.
type FeatureVector struct {
	Role   Role               `json:"role"`
	Win    bool               `json:"win"`
	Values map[string]float64 `json:"values"`
}

// Get returns the named feature, 0 when absent.
func (fv *FeatureVector) Get(name string) float64 {
	return fv.Values[name]
}

// Ordered flattens the vector into the given column order. Absent features
// read as 0, matching the training pipeline's fill behavior.
func (fv *FeatureVector) Ordered(columns []string) []float64 {
	out := make([]float64, len(columns))
	for i, col := range columns {
		out[i] = fv.Values[col]
	}
	return out
}
