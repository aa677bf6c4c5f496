package models

import (
	"encoding/json"
	"testing"
)

func TestFlexUnmarshal_AllStrings(t *testing.T) {
	input := `[{"match_id": "NA1_4830127465", "puuid": "puuid-abc", "champion": "Ahri", "role": "MIDDLE", "win": "1", "kills": "8.000", "deaths": "2.000", "assists": "6.000", "kda": "7.000", "cs_per_min": "7.200", "gold_per_min": "421.500", "damage_per_min": "655.300", "vision_per_min": "1.150", "kill_participation": "0.560", "damage_share": "0.240", "time_dead_pct": "0.072", "game_duration": "31.500"}]`

	var samples []TrainingSample
	err := json.Unmarshal([]byte(input), &samples)
	if err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("Expected 1 sample, got %d", len(samples))
	}

	s := samples[0]
	if s.MatchID != "NA1_4830127465" {
		t.Errorf("MatchID = %q, want NA1_4830127465", s.MatchID)
	}
	if s.Role != RoleMiddle {
		t.Errorf("Role = %q, want MIDDLE", s.Role)
	}
	if !s.Win {
		t.Error("Win = false, want true")
	}
	if s.Kills != 8.0 {
		t.Errorf("Kills = %f, want 8.0", s.Kills)
	}
	if s.CSPerMin != 7.2 {
		t.Errorf("CSPerMin = %f, want 7.2", s.CSPerMin)
	}
	if s.GameDuration != 31.5 {
		t.Errorf("GameDuration = %f, want 31.5", s.GameDuration)
	}
}

func TestFlexUnmarshal_NativeTypes(t *testing.T) {
	input := `[{"match_id": "NA1_1", "puuid": "puuid-abc", "role": "JUNGLE", "win": true, "damage_per_min": 612.487, "game_duration": 29.8}]`

	var samples []TrainingSample
	err := json.Unmarshal([]byte(input), &samples)
	if err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	s := samples[0]
	if s.DamagePerMin != 612.487 {
		t.Errorf("DamagePerMin = %f, want 612.487", s.DamagePerMin)
	}
	if !s.Win {
		t.Error("Win = false, want true")
	}
}

func TestFlexUnmarshal_NumericWinFlag(t *testing.T) {
	input := `{"match_id": "NA1_2", "puuid": "puuid-abc", "role": "TOP", "win": 1, "kills": 3}`

	var s TrainingSample
	if err := json.Unmarshal([]byte(input), &s); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if !s.Win {
		t.Error("Win = false, want true for win: 1")
	}
	if s.Kills != 3 {
		t.Errorf("Kills = %f, want 3", s.Kills)
	}
}
