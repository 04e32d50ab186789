package engine

import "github.com/solstice-labs/lumen/lumen/database/models"

// DeriveMood maps a stat snapshot to a mood tag. Rules are evaluated
// strictly in order; the first match wins. The result is cached on the
// companion but is never ground truth: recomputing from stats must
// always produce the same value.
func DeriveMood(c *models.Companion) models.Mood {
	switch {
	case c.Happiness > 80 && c.Hunger < 30:
		return models.MoodExcited
	case c.Happiness > 60 && c.Health > 70:
		return models.MoodHappy
	case c.Happiness > 40 && c.Hunger < 70:
		return models.MoodContent
	case c.Health < 30:
		return models.MoodSad
	default:
		return models.MoodNeutral
	}
}
