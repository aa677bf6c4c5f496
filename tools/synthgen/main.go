// synthgen emits a synthetic training corpus JSON for local trainer runs.
// Distributions are rough per-role plausibility, not balance-accurate.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/riftrewind/scoring-api/internal/models"
)

func main() {
	var (
		out     = flag.String("out", "corpus.json", "output file")
		matches = flag.Int("matches", 500, "number of matches to synthesize")
		seed    = flag.Int64("seed", 1, "rng seed")
	)
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	corpus := models.TrainingCorpus{
		CollectionDate: time.Now().UTC().Format(time.RFC3339),
		NumMatches:     *matches,
	}

	for m := 0; m < *matches; m++ {
		matchID := fmt.Sprintf("SYN1_%06d", m)
		winner := rng.Intn(2)
		// Two teams of five, one participant per role per team.
		for team := 0; team < 2; team++ {
			win := team == winner
			for _, role := range models.Roles {
				corpus.Samples = append(corpus.Samples, synthSample(rng, matchID, role, win))
			}
		}
	}
	corpus.NumSamples = len(corpus.Samples)

	data, err := json.MarshalIndent(corpus, "", "  ")
	if err != nil {
		log.Fatalf("marshal corpus: %v", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
	fmt.Printf("wrote %d samples (%d matches) to %s\n", corpus.NumSamples, *matches, *out)
}

// synthSample draws one stat line. Winners get a modest bump on the combat
// stats so the trained models pick up a real signal.
func synthSample(rng *rand.Rand, matchID string, role models.Role, win bool) models.TrainingSample {
	bump := 0.0
	if win {
		bump = 0.5
	}
	norm := func(mean, std float64) float64 {
		v := mean + rng.NormFloat64()*std
		if v < 0 {
			return 0
		}
		return v
	}

	kills := norm(5+bump*2, 3)
	deaths := norm(5-bump, 2.5)
	assists := norm(7+bump*2, 4)
	kda := (kills + assists) / maxf(deaths, 1)

	duration := norm(28, 5)
	if duration < 16 {
		duration = 16
	}

	s := models.TrainingSample{
		MatchID:  matchID,
		PUUID:    fmt.Sprintf("puuid-%s-%s", matchID, role),
		Champion: champions[rng.Intn(len(champions))],
		Role:     role,
		Win:      win,

		Kills: kills, Deaths: deaths, Assists: assists, KDA: kda,

		CSPerMin:   norm(6+bump, 1.5),
		JungleCS:   0,
		GoldPerMin: norm(380+bump*40, 60),

		DamagePerMin:      norm(550+bump*100, 180),
		DamageTakenPerMin: norm(650, 200),
		DamageMitigated:   norm(9000, 4000),
		DamageShare:       clamp01(norm(0.2+bump*0.02, 0.06)),

		VisionPerMin: norm(1.1, 0.4),
		WardsPlaced:  norm(10, 4),
		WardsKilled:  norm(3, 2),
		ControlWards: norm(2, 1.5),

		TurretPlates: float64(rng.Intn(4)),
		Turrets:      float64(rng.Intn(3)),
		Dragons:      float64(rng.Intn(3)),
		Barons:       float64(rng.Intn(2)),

		CSAt10:        norm(60+bump*5, 15),
		CSAdvantage:   rng.NormFloat64() * 12,
		GoldAdvantage: rng.NormFloat64() * 400,

		KillParticipation: clamp01(norm(0.5+bump*0.05, 0.15)),
		SoloKills:         float64(rng.Intn(3)),
		Multikills:        float64(rng.Intn(2)),

		CCTime:    norm(20, 12),
		Healing:   norm(2500, 2000),
		Shielding: norm(800, 900),

		TimeDeadPct:   clamp01(norm(0.08-bump*0.01, 0.05)),
		LongestLiving: norm(600, 180),

		SkillshotsHit:    norm(18, 10),
		SkillshotsDodged: norm(25, 12),

		FirstBlood: float64(rng.Intn(2)),
		FirstTower: float64(rng.Intn(2)),

		GameDuration: duration,
	}

	switch role {
	case models.RoleJungle:
		s.JungleCS = norm(150, 40)
		s.CSPerMin = norm(5.2+bump, 1.2)
	case models.RoleUtility:
		s.CSPerMin = norm(1.2, 0.6)
		s.VisionPerMin = norm(2.4, 0.7)
		s.WardsPlaced = norm(25, 8)
		s.ControlWards = norm(5, 2)
		s.Healing = norm(8000, 4000)
		s.Shielding = norm(4000, 3000)
	}

	return s
}

var champions = []string{
	"Ahri", "Garen", "LeeSin", "Jinx", "Thresh", "Orianna", "Darius",
	"Vi", "Caitlyn", "Leona", "Viktor", "Sett", "KhaZix", "Ezreal", "Lulu",
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
