package models

// MatchParticipantRecord is one player's raw stat line from a match, as
// delivered by the match data source. It mirrors the match-v5 participant
// payload and is immutable once ingested.
type MatchParticipantRecord struct {
	PUUID              string `json:"puuid"`
	ChampionName       string `json:"championName"`
	IndividualPosition string `json:"individualPosition"`
	Win                *bool  `json:"win"`

	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`

	TotalMinionsKilled   int `json:"totalMinionsKilled"`
	NeutralMinionsKilled int `json:"neutralMinionsKilled"`
	GoldEarned           int `json:"goldEarned"`

	TotalDamageDealtToChampions    int `json:"totalDamageDealtToChampions"`
	TotalDamageTaken               int `json:"totalDamageTaken"`
	DamageSelfMitigated            int `json:"damageSelfMitigated"`
	TotalHeal                      int `json:"totalHeal"`
	TotalDamageShieldedOnTeammates int `json:"totalDamageShieldedOnTeammates"`

	VisionScore int `json:"visionScore"`
	WardsPlaced int `json:"wardsPlaced"`
	WardsKilled int `json:"wardsKilled"`

	TurretKills int `json:"turretKills"`
	DragonKills int `json:"dragonKills"`
	BaronKills  int `json:"baronKills"`

	DoubleKills int `json:"doubleKills"`
	TripleKills int `json:"tripleKills"`
	QuadraKills int `json:"quadraKills"`
	PentaKills  int `json:"pentaKills"`

	TimeCCingOthers        int `json:"timeCCingOthers"`
	TotalTimeSpentDead     int `json:"totalTimeSpentDead"`
	LongestTimeSpentLiving int `json:"longestTimeSpentLiving"`

	FirstBloodKill bool `json:"firstBloodKill"`
	FirstTowerKill bool `json:"firstTowerKill"`

	Challenges ParticipantChallenges `json:"challenges"`
}

// ParticipantChallenges holds the post-game challenge metrics. The data
// source omits the whole block on some queue types, so every field here
// defaults to zero.
type ParticipantChallenges struct {
	TeamDamagePercentage             float64 `json:"teamDamagePercentage"`
	ControlWardsPlaced               int     `json:"controlWardsPlaced"`
	TurretPlatesTaken                int     `json:"turretPlatesTaken"`
	LaneMinionsFirst10Minutes        int     `json:"laneMinionsFirst10Minutes"`
	JungleCsBefore10Minutes          float64 `json:"jungleCsBefore10Minutes"`
	MaxCsAdvantageOnLaneOpponent     float64 `json:"maxCsAdvantageOnLaneOpponent"`
	EarlyLaningPhaseGoldExpAdvantage float64 `json:"earlyLaningPhaseGoldExpAdvantage"`
	KillParticipation                float64 `json:"killParticipation"`
	SoloKills                        int     `json:"soloKills"`
	SkillshotsHit                    int     `json:"skillshotsHit"`
	SkillshotsDodged                 int     `json:"skillshotsDodged"`
}

// MatchInfo carries the match-level context needed for scoring.
type MatchInfo struct {
	MatchID      string `json:"matchId"`
	GameDuration int    `json:"gameDuration"` // seconds
	GameMode     string `json:"gameMode"`
}

// RawMatch pairs a participant record with its match context. This is the
// unit the inference API scores.
type RawMatch struct {
	Info        MatchInfo              `json:"info"`
	Participant MatchParticipantRecord `json:"participant"`
}

// Multikills collapses the multikill counters into the weighted total used
// as a feature (doubles=1, triples=2, quadras=3, pentas=4).
func (r *MatchParticipantRecord) Multikills() int {
	return r.DoubleKills + r.TripleKills*2 + r.QuadraKills*3 + r.PentaKills*4
}
