package ragestat

import "testing"

func trophyByName(t *testing.T, trophies []Trophy, name string) Trophy {
	t.Helper()
	for _, trophy := range trophies {
		if trophy.Name == name {
			return trophy
		}
	}
	t.Fatalf("trophy %q not found", name)
	return Trophy{}
}

func TestSummarizeCountsDistinctGamesAndMaxIntensity(t *testing.T) {
	events := []EventSample{
		{GameID: 1, Intensity: 2},
		{GameID: 1, Intensity: 4},
		{GameID: 2, Intensity: 1},
	}
	history := Summarize(events, 3)
	if history.EventCount != 3 {
		t.Fatalf("unexpected event count %d", history.EventCount)
	}
	if history.DistinctGames != 2 {
		t.Fatalf("unexpected distinct games %d", history.DistinctGames)
	}
	if history.MaxIntensity != 4 {
		t.Fatalf("unexpected max intensity %d", history.MaxIntensity)
	}
	if history.FavoriteCount != 3 {
		t.Fatalf("unexpected favorite count %d", history.FavoriteCount)
	}
}

func TestTrophyUnlockThresholds(t *testing.T) {
	tests := []struct {
		name     string
		history  History
		trophy   string
		unlocked bool
	}{
		{name: "first-tilt-locked", history: History{}, trophy: "First Tilt", unlocked: false},
		{name: "first-tilt-unlocked", history: History{EventCount: 1}, trophy: "First Tilt", unlocked: true},
		{name: "serial-rager-boundary", history: History{EventCount: 9}, trophy: "Serial Rager", unlocked: false},
		{name: "serial-rager-unlocked", history: History{EventCount: 10}, trophy: "Serial Rager", unlocked: true},
		{name: "meltdown-boundary", history: History{DistinctGames: 2}, trophy: "Multi-Game Meltdown", unlocked: false},
		{name: "meltdown-unlocked", history: History{DistinctGames: 3}, trophy: "Multi-Game Meltdown", unlocked: true},
		{name: "max-salt-boundary", history: History{MaxIntensity: 4}, trophy: "Max Salt", unlocked: false},
		{name: "max-salt-unlocked", history: History{MaxIntensity: 5}, trophy: "Max Salt", unlocked: true},
		{name: "hoarder-boundary", history: History{FavoriteCount: 4}, trophy: "Game Hoarder", unlocked: false},
		{name: "hoarder-unlocked", history: History{FavoriteCount: 5}, trophy: "Game Hoarder", unlocked: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trophy := trophyByName(t, Trophies(tt.history), tt.trophy)
			if trophy.Unlocked != tt.unlocked {
				t.Fatalf("%s unlocked = %v, want %v", tt.trophy, trophy.Unlocked, tt.unlocked)
			}
		})
	}
}

func TestTrophiesAreMonotonic(t *testing.T) {
	events := []EventSample{
		{GameID: 1, Intensity: 5},
		{GameID: 2, Intensity: 3},
		{GameID: 3, Intensity: 2},
	}
	before := Trophies(Summarize(events, 5))

	grown := append(events, EventSample{GameID: 4, Intensity: 1})
	after := Trophies(Summarize(grown, 6))

	for i := range before {
		if before[i].Unlocked && !after[i].Unlocked {
			t.Fatalf("trophy %q was revoked by additional history", before[i].Name)
		}
	}
}
