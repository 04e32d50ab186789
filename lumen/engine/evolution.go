package engine

import "github.com/solstice-labs/lumen/lumen/database/models"

// StageForLevel is the fixed step function from level to evolution
// stage. The stored Stage field is only ever a cache of this.
func StageForLevel(level int) models.Stage {
	switch {
	case level <= 1:
		return models.StageEgg
	case level == 2:
		return models.StageBaby
	case level == 3:
		return models.StageTeen
	case level == 4:
		return models.StageAdult
	case level == 5:
		return models.StageLegendary
	default:
		return models.StageMythic
	}
}

// ExpRequirement returns the experience needed to leave the given
// level, or 0 when the level is already the ceiling.
func (calc *Calculator) ExpRequirement(level int) int64 {
	return calc.config.LevelThresholds[level]
}

// GrantExperience adds amount to the companion's experience and walks
// the threshold table. A single large grant may cross several levels.
// Returns the number of levels gained.
func (calc *Calculator) GrantExperience(c *models.Companion, amount int64) int {
	if amount <= 0 {
		return 0
	}
	c.Experience += amount

	gained := 0
	for c.Level < calc.config.MaxLevel() {
		required, ok := calc.config.LevelThresholds[c.Level]
		if !ok || c.Experience < required {
			break
		}
		c.Level++
		gained++
	}
	if gained > 0 {
		c.Stage = StageForLevel(c.Level)
	}
	return gained
}

// Normalize re-derives every cached field from its source of truth.
// Safe to call at any time; used after loads and after every mutation.
func (calc *Calculator) Normalize(c *models.Companion) {
	c.Hunger = Clamp(c.Hunger)
	c.Happiness = Clamp(c.Happiness)
	c.Health = Clamp(c.Health)
	c.Energy = Clamp(c.Energy)
	c.Cleanliness = Clamp(c.Cleanliness)
	c.BondLevel = Clamp(c.BondLevel)
	c.Stage = StageForLevel(c.Level)
	c.Mood = DeriveMood(c)
}
