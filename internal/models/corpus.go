package models

// TrainingSample is one flattened participant stat line as the collector
// emits it: identity columns plus the feature columns, already per-minute
// normalized. It is both the corpus-file sample shape and the row shape of
// the ClickHouse training_samples table.
type TrainingSample struct {
	MatchID  string `json:"match_id" validate:"required"`
	PUUID    string `json:"puuid" validate:"required"`
	Champion string `json:"champion"`
	Role     Role   `json:"role" validate:"required"`
	Win      bool   `json:"win"`

	Kills   float64 `json:"kills"`
	Deaths  float64 `json:"deaths"`
	Assists float64 `json:"assists"`
	KDA     float64 `json:"kda"`

	CSPerMin   float64 `json:"cs_per_min"`
	JungleCS   float64 `json:"jungle_cs"`
	GoldPerMin float64 `json:"gold_per_min"`

	DamagePerMin      float64 `json:"damage_per_min"`
	DamageTakenPerMin float64 `json:"damage_taken_per_min"`
	DamageMitigated   float64 `json:"damage_mitigated"`
	DamageShare       float64 `json:"damage_share"`

	VisionPerMin float64 `json:"vision_per_min"`
	WardsPlaced  float64 `json:"wards_placed"`
	WardsKilled  float64 `json:"wards_killed"`
	ControlWards float64 `json:"control_wards"`

	TurretPlates float64 `json:"turret_plates"`
	Turrets      float64 `json:"turrets"`
	Dragons      float64 `json:"dragons"`
	Barons       float64 `json:"barons"`

	CSAt10        float64 `json:"cs_at_10"`
	CSAdvantage   float64 `json:"cs_advantage"`
	GoldAdvantage float64 `json:"gold_advantage"`

	KillParticipation float64 `json:"kill_participation"`
	SoloKills         float64 `json:"solo_kills"`
	Multikills        float64 `json:"multikills"`

	CCTime    float64 `json:"cc_time"`
	Healing   float64 `json:"healing"`
	Shielding float64 `json:"shielding"`

	TimeDeadPct   float64 `json:"time_dead_pct"`
	LongestLiving float64 `json:"longest_living"`

	SkillshotsHit    float64 `json:"skillshots_hit"`
	SkillshotsDodged float64 `json:"skillshots_dodged"`

	FirstBlood float64 `json:"first_blood"`
	FirstTower float64 `json:"first_tower"`

	GameDuration float64 `json:"game_duration"` // minutes
}

// FeatureVector converts the sample into the extractor's vector shape so
// the same scorer runs over corpus samples and live matches.
func (s *TrainingSample) FeatureVector() FeatureVector {
	return FeatureVector{
		Role: s.Role,
		Win:  s.Win,
		Values: map[string]float64{
			FeatKills: s.Kills, FeatDeaths: s.Deaths, FeatAssists: s.Assists, FeatKDA: s.KDA,
			FeatCSPerMin: s.CSPerMin, FeatJungleCS: s.JungleCS, FeatGoldPerMin: s.GoldPerMin,
			FeatDamagePerMin: s.DamagePerMin, FeatDamageTakenPerMin: s.DamageTakenPerMin,
			FeatDamageMitigated: s.DamageMitigated, FeatDamageShare: s.DamageShare,
			FeatVisionPerMin: s.VisionPerMin, FeatWardsPlaced: s.WardsPlaced,
			FeatWardsKilled: s.WardsKilled, FeatControlWards: s.ControlWards,
			FeatTurretPlates: s.TurretPlates, FeatTurrets: s.Turrets,
			FeatDragons: s.Dragons, FeatBarons: s.Barons,
			FeatCSAt10: s.CSAt10, FeatCSAdvantage: s.CSAdvantage, FeatGoldAdvantage: s.GoldAdvantage,
			FeatKillParticipation: s.KillParticipation, FeatSoloKills: s.SoloKills, FeatMultikills: s.Multikills,
			FeatCCTime: s.CCTime, FeatHealing: s.Healing, FeatShielding: s.Shielding,
			FeatTimeDeadPct: s.TimeDeadPct, FeatLongestLiving: s.LongestLiving,
			FeatSkillshotsHit: s.SkillshotsHit, FeatSkillshotsDodged: s.SkillshotsDodged,
			FeatFirstBlood: s.FirstBlood, FeatFirstTower: s.FirstTower,
			FeatGameDuration: s.GameDuration,
		},
	}
}

// TrainingCorpus is the structured corpus document the collector produces.
type TrainingCorpus struct {
	CollectionDate string           `json:"collection_date"`
	NumMatches     int              `json:"num_matches"`
	NumSamples     int              `json:"num_samples"`
	Samples        []TrainingSample `json:"samples"`
}
