// Package abilities gates a static catalog of passive bonuses behind
// level and evolution requirements, and computes their aggregate
// effect.
package abilities

import "github.com/solstice-labs/lumen/lumen/database/models"

// EffectKind is the closed set of bonus channels. Adding a kind is a
// compile-time change; nothing is keyed by loose strings at call sites.
type EffectKind string

const (
	EffectXPBoost      EffectKind = "xp-boost"
	EffectCasinoLuck   EffectKind = "casino-luck"
	EffectTaskSpeed    EffectKind = "task-speed"
	EffectGemMagnet    EffectKind = "gem-magnet"
	EffectPetTelepathy EffectKind = "pet-telepathy"
	EffectDoubleStrike EffectKind = "double-strike"
	EffectShieldWall   EffectKind = "shield-wall"
	EffectHealingAura  EffectKind = "healing-aura"
)

// Ability is a static catalog entry. The catalog is immutable,
// process-wide, read-only configuration; no companion owns it.
type Ability struct {
	ID          string
	Name        string
	Description string
	Effect      EffectKind
	BaseBonus   float64 // percent points before multipliers
	// Gates
	LevelRequirement     int
	EvolutionRequirement models.Stage // empty means no stage gate
	// Cost in player experience, spent on unlock
	UnlockCost int64
}

// Catalog replaces the need for a database seeder or JSON file.
var Catalog = []Ability{
	{
		ID:               "quick_study",
		Name:             "Quick Study",
		Description:      "Your companion picks things up fast, boosting all experience gains",
		Effect:           EffectXPBoost,
		BaseBonus:        10,
		LevelRequirement: 1,
		UnlockCost:       50,
	},
	{
		ID:               "lucky_charm",
		Name:             "Lucky Charm",
		Description:      "A faint shimmer of fortune follows you into games of chance",
		Effect:           EffectCasinoLuck,
		BaseBonus:        5,
		LevelRequirement: 2,
		UnlockCost:       100,
	},
	{
		ID:               "swift_paws",
		Name:             "Swift Paws",
		Description:      "Tasks finish noticeably faster with a helper underfoot",
		Effect:           EffectTaskSpeed,
		BaseBonus:        8,
		LevelRequirement: 2,
		UnlockCost:       100,
	},
	{
		ID:               "gem_sniffer",
		Name:             "Gem Sniffer",
		Description:      "Sniffs out loose gems wherever you go",
		Effect:           EffectGemMagnet,
		BaseBonus:        6,
		LevelRequirement: 3,
		UnlockCost:       200,
	},
	{
		ID:                   "keen_mind",
		Name:                 "Keen Mind",
		Description:          "Reads your intent before you speak it",
		Effect:               EffectPetTelepathy,
		BaseBonus:            12,
		LevelRequirement:     3,
		EvolutionRequirement: models.StageTeen,
		UnlockCost:           250,
	},
	{
		ID:                   "double_strike",
		Name:                 "Double Strike",
		Description:          "Every effort lands twice as often as it should",
		Effect:               EffectDoubleStrike,
		BaseBonus:            15,
		LevelRequirement:     4,
		EvolutionRequirement: models.StageAdult,
		UnlockCost:           400,
	},
	{
		ID:                   "shield_wall",
		Name:                 "Shield Wall",
		Description:          "A protective aura blunts incoming setbacks",
		Effect:               EffectShieldWall,
		BaseBonus:            20,
		LevelRequirement:     5,
		EvolutionRequirement: models.StageLegendary,
		UnlockCost:           600,
	},
	{
		ID:                   "healing_aura",
		Name:                 "Healing Aura",
		Description:          "Wounds mend on their own in your companion's presence",
		Effect:               EffectHealingAura,
		BaseBonus:            25,
		LevelRequirement:     6,
		EvolutionRequirement: models.StageMythic,
		UnlockCost:           1000,
	},
	{
		ID:               "night_owl",
		Name:             "Night Owl",
		Description:      "Chores done after dark go quicker",
		Effect:           EffectTaskSpeed,
		BaseBonus:        5,
		LevelRequirement: 4,
		UnlockCost:       300,
	},
	{
		ID:               "scholar_bond",
		Name:             "Scholar's Bond",
		Description:      "Studying together compounds what you both learn",
		Effect:           EffectXPBoost,
		BaseBonus:        15,
		LevelRequirement: 5,
		UnlockCost:       500,
	},
}

var catalogByID = func() map[string]Ability {
	m := make(map[string]Ability, len(Catalog))
	for _, a := range Catalog {
		m[a.ID] = a
	}
	return m
}()

// ByID looks up a catalog entry.
func ByID(id string) (Ability, bool) {
	a, ok := catalogByID[id]
	return a, ok
}
