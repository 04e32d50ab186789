// Package bonding models the relationship ladder: a bond scalar in
// [0,100] that only ever grows, a fixed milestone ladder over it, and
// the non-mechanical affinity flavor text shown in the UI.
package bonding

import (
	"math"
	"math/rand"
)

// Activity kinds that grant bond.
type Activity string

const (
	ActivityFeed          Activity = "feed"
	ActivityPlay          Activity = "play"
	ActivityHeal          Activity = "heal"
	ActivityClean         Activity = "clean"
	ActivityQuestComplete Activity = "quest_complete"
)

var baseGains = map[Activity]int{
	ActivityFeed:          2,
	ActivityPlay:          8,
	ActivityHeal:          5,
	ActivityClean:         3,
	ActivityQuestComplete: 15,
}

// Milestone is a rung of the static bond ladder.
type Milestone struct {
	Threshold int
	Name      string
	Feature   string
}

// Milestones is the immutable ladder, ascending by threshold.
var Milestones = []Milestone{
	{Threshold: 0, Name: "Stranger", Feature: "basic_care"},
	{Threshold: 20, Name: "Acquaintance", Feature: "play_games"},
	{Threshold: 40, Name: "Friend", Feature: "quest_together"},
	{Threshold: 60, Name: "Companion", Feature: "shared_rewards"},
	{Threshold: 80, Name: "Soulbound", Feature: "telepathy"},
	{Threshold: 100, Name: "Inseparable", Feature: "legend_trials"},
}

// Gain returns the bond points earned by one activity, scaled by the
// companion's level and floored to an integer. Bond only ever goes up;
// callers add this to the bond level and clamp at 100.
func Gain(activity Activity, petLevel int) int {
	base, ok := baseGains[activity]
	if !ok {
		return 0
	}
	return int(math.Floor(float64(base) * (1 + float64(petLevel)*0.05)))
}

// CurrentMilestone returns the highest milestone whose threshold is at
// or below bondLevel.
func CurrentMilestone(bondLevel int) Milestone {
	current := Milestones[0]
	for _, m := range Milestones {
		if m.Threshold > bondLevel {
			break
		}
		current = m
	}
	return current
}

// Progress describes position between the current milestone and the
// next one. Percent is 100 once the final milestone is reached.
type Progress struct {
	CurrentThreshold int
	NextThreshold    int
	Percent          int
}

func BondProgress(bondLevel int) Progress {
	current := CurrentMilestone(bondLevel)

	var next *Milestone
	for i := range Milestones {
		if Milestones[i].Threshold > current.Threshold {
			next = &Milestones[i]
			break
		}
	}
	if next == nil {
		return Progress{CurrentThreshold: current.Threshold, NextThreshold: current.Threshold, Percent: 100}
	}

	span := next.Threshold - current.Threshold
	percent := int(math.Round(100 * float64(bondLevel-current.Threshold) / float64(span)))
	if percent > 100 {
		percent = 100
	}
	return Progress{CurrentThreshold: current.Threshold, NextThreshold: next.Threshold, Percent: percent}
}

// Flavor text pools bucketed by bond quintile. Presentation only.
var flavorPools = [][]string{
	{"eyes you warily from across the room", "keeps a careful distance", "is still deciding about you"},
	{"perks up a little when you arrive", "accepts your offerings politely", "watches you with growing curiosity"},
	{"trots over to greet you", "leans against your leg", "chirps happily at the sound of your voice"},
	{"refuses to leave your side", "naps best when you are nearby", "saves the best spot for you"},
	{"seems to know what you need before you do", "finishes your thoughts", "would follow you anywhere"},
	{"is bound to you beyond words", "shares your every mood", "glows faintly when you are together"},
}

// AffinityFlavor returns a flavor line for the given bond level. The
// pick within a bucket is random; any valid bond level yields a
// non-empty string.
func AffinityFlavor(bondLevel int, rng *rand.Rand) string {
	bucket := bondLevel / 20
	if bucket < 0 {
		bucket = 0
	}
	if bucket >= len(flavorPools) {
		bucket = len(flavorPools) - 1
	}
	pool := flavorPools[bucket]
	if rng == nil {
		return pool[rand.Intn(len(pool))]
	}
	return pool[rng.Intn(len(pool))]
}
