package engine

import "time"

// Config holds every tunable of the simulation. Values are fixed for
// the process lifetime; LoadConfig may override individual knobs from
// the [engine] table of the TOML config.
type Config struct {
	// Companion XP needed to leave each level. Levels above the last
	// entry are unreachable; max level is len(table)+1.
	LevelThresholds map[int]int64

	// Feed
	FeedHungerDelta    int
	FeedHappinessDelta int
	FeedHealthDelta    int
	FeedExperience     int64
	FeedCostGems       int64

	// Play
	PlayHappinessDelta int
	PlayEnergyDelta    int
	PlayExperience     int64

	// Heal
	HealHealthDelta int
	HealCostGems    int64

	// Clean
	CleanCleanlinessDelta int
	CleanHappinessDelta   int

	// Passive decay. Decay is charged in whole ticks of elapsed
	// wall-clock time since the companion's decay anchor.
	DecayGrace            time.Duration // no decay this soon after feeding
	DecayTick             time.Duration
	DecayHungerPerTick    int
	DecayHungerCap        int // max hunger gain per evaluation
	DecayHappinessPerTick int
	DecayStarvingHunger   int // hunger above this drains health
	DecayHealthStep       int // health lost per starving evaluation

	// Punitive reset applied when health hits zero
	ResetHealth int
}

func NewDefaultConfig() *Config {
	return &Config{
		LevelThresholds: map[int]int64{
			1: 100,  // egg -> baby
			2: 250,  // baby -> teen
			3: 500,  // teen -> adult
			4: 1000, // adult -> legendary
			5: 2000, // legendary -> mythic
		},

		FeedHungerDelta:    15,
		FeedHappinessDelta: 5,
		FeedHealthDelta:    2,
		FeedExperience:     10,
		FeedCostGems:       5,

		PlayHappinessDelta: 15,
		PlayEnergyDelta:    10,
		PlayExperience:     8,

		HealHealthDelta: 25,
		HealCostGems:    10,

		CleanCleanlinessDelta: 30,
		CleanHappinessDelta:   3,

		DecayGrace:            3 * time.Minute,
		DecayTick:             10 * time.Minute,
		DecayHungerPerTick:    1,
		DecayHungerCap:        10,
		DecayHappinessPerTick: 2,
		DecayStarvingHunger:   80,
		DecayHealthStep:       5,

		ResetHealth: 50,
	}
}

// MaxLevel is the highest reachable companion level.
func (c *Config) MaxLevel() int {
	return len(c.LevelThresholds) + 1
}
