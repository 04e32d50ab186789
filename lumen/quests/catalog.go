// Package quests implements time-boxed, risk-weighted tasks. An
// instance runs for its fixed duration on the wall clock and is then
// resolved by a single probability draw; nothing fires on its own, a
// caller must poll.
package quests

import "time"

// Reward is granted in full on success and not at all on failure.
type Reward struct {
	Gems  int64
	XP    int64 // player experience
	PetXP int64 // companion experience
}

// Template is a static quest definition. RiskFactor is the failure
// probability in [0,1]; 0 always succeeds and 1 always fails.
type Template struct {
	ID          string
	Name        string
	Description string
	Tier        int
	Duration    time.Duration
	RiskFactor  float64
	Reward      Reward
}

// Catalog replaces the need for a database seeder or JSON file.
var Catalog = []Template{
	{
		ID:          "berry_run",
		Name:        "Berry Run",
		Description: "A quick dash to the bramble patch and back",
		Tier:        1,
		Duration:    5 * time.Minute,
		RiskFactor:  0,
		Reward:      Reward{Gems: 10, XP: 15, PetXP: 20},
	},
	{
		ID:          "meadow_patrol",
		Name:        "Meadow Patrol",
		Description: "Walk the fence line and chase off anything with too many legs",
		Tier:        1,
		Duration:    15 * time.Minute,
		RiskFactor:  0.1,
		Reward:      Reward{Gems: 25, XP: 30, PetXP: 40},
	},
	{
		ID:          "creek_crossing",
		Name:        "Creek Crossing",
		Description: "Ferry a parcel across the slippery stones",
		Tier:        2,
		Duration:    30 * time.Minute,
		RiskFactor:  0.2,
		Reward:      Reward{Gems: 60, XP: 70, PetXP: 90},
	},
	{
		ID:          "old_mine_sweep",
		Name:        "Old Mine Sweep",
		Description: "Something glitters in the abandoned shafts",
		Tier:        2,
		Duration:    time.Hour,
		RiskFactor:  0.35,
		Reward:      Reward{Gems: 150, XP: 140, PetXP: 180},
	},
	{
		ID:          "storm_watch",
		Name:        "Storm Watch",
		Description: "Hold the ridge beacon lit through the squall",
		Tier:        3,
		Duration:    2 * time.Hour,
		RiskFactor:  0.5,
		Reward:      Reward{Gems: 400, XP: 320, PetXP: 400},
	},
	{
		ID:          "dragons_errand",
		Name:        "Dragon's Errand",
		Description: "Deliver a sealed letter nobody wants to talk about",
		Tier:        4,
		Duration:    6 * time.Hour,
		RiskFactor:  0.7,
		Reward:      Reward{Gems: 1200, XP: 800, PetXP: 1000},
	},
}

var catalogByID = func() map[string]Template {
	m := make(map[string]Template, len(Catalog))
	for _, t := range Catalog {
		m[t.ID] = t
	}
	return m
}()

// ByID looks up a template.
func ByID(id string) (Template, bool) {
	t, ok := catalogByID[id]
	return t, ok
}
