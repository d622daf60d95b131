package ragestat

// EventSample is the minimal rage-event projection trophy evaluation needs.
type EventSample struct {
	GameID    int64
	Intensity int
}

// History summarizes a visitor's full personal record. Every field is a
// count or maximum, so each trophy predicate is monotonic: growing history
// never re-locks an unlocked trophy.
type History struct {
	EventCount    int
	DistinctGames int
	MaxIntensity  int
	FavoriteCount int
}

// Summarize folds raw samples into a History.
func Summarize(events []EventSample, favoriteCount int) History {
	distinct := make(map[int64]struct{}, len(events))
	maxIntensity := 0
	for _, event := range events {
		distinct[event.GameID] = struct{}{}
		if event.Intensity > maxIntensity {
			maxIntensity = event.Intensity
		}
	}
	return History{
		EventCount:    len(events),
		DistinctGames: len(distinct),
		MaxIntensity:  maxIntensity,
		FavoriteCount: favoriteCount,
	}
}

// Trophy is one named achievement with its unlock state.
type Trophy struct {
	Name        string
	Description string
	Unlocked    bool
}

type trophyDef struct {
	name        string
	description string
	unlocked    func(History) bool
}

var trophyTable = []trophyDef{
	{
		name:        "First Tilt",
		description: "Log at least one rage event.",
		unlocked:    func(h History) bool { return h.EventCount >= 1 },
	},
	{
		name:        "Serial Rager",
		description: "Log 10 or more rage events.",
		unlocked:    func(h History) bool { return h.EventCount >= 10 },
	},
	{
		name:        "Multi-Game Meltdown",
		description: "Rage in 3 or more different games.",
		unlocked:    func(h History) bool { return h.DistinctGames >= 3 },
	},
	{
		name:        "Max Salt",
		description: "Record a rage with intensity 5.",
		unlocked:    func(h History) bool { return h.MaxIntensity >= 5 },
	},
	{
		name:        "Game Hoarder",
		description: "Favorite 5 or more games.",
		unlocked:    func(h History) bool { return h.FavoriteCount >= 5 },
	},
}

// Trophies evaluates the fixed trophy table against a history summary.
func Trophies(history History) []Trophy {
	trophies := make([]Trophy, 0, len(trophyTable))
	for _, def := range trophyTable {
		trophies = append(trophies, Trophy{
			Name:        def.name,
			Description: def.description,
			Unlocked:    def.unlocked(history),
		})
	}
	return trophies
}
