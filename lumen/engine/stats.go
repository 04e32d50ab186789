package engine

import (
	"time"

	"github.com/solstice-labs/lumen/lumen/database/models"
)

// Calculator implements the pure simulation math: stat clamping,
// passive decay, leveling and the faint reset. It holds no mutable
// state beyond its config.
type Calculator struct {
	config *Config
}

func NewCalculator(config *Config) *Calculator {
	return &Calculator{config: config}
}

// Clamp bounds a stat to [0,100]. Out-of-range inputs are silently
// clamped, never rejected.
func Clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ApplyDecay charges passive decay against c for the wall-clock time
// now. Decay is computed from the elapsed delta since the companion's
// decay anchor, so calling it twice in quick succession never
// penalizes beyond what the elapsed time justifies. Returns true when
// any stat changed.
func (calc *Calculator) ApplyDecay(c *models.Companion, now time.Time) bool {
	nowMs := now.UnixMilli()
	if c.DecayAnchorAt == 0 {
		c.DecayAnchorAt = nowMs
		return false
	}

	if nowMs-c.LastFedAt <= calc.config.DecayGrace.Milliseconds() {
		// Freshly fed companions do not decay; move the anchor so the
		// grace window is not charged later.
		c.DecayAnchorAt = nowMs
		return false
	}

	tickMs := calc.config.DecayTick.Milliseconds()
	ticks := (nowMs - c.DecayAnchorAt) / tickMs
	if ticks <= 0 {
		return false
	}
	// Consume whole ticks only; the fractional remainder stays anchored
	// and is charged on a later evaluation.
	c.DecayAnchorAt += ticks * tickMs

	hungerGain := int(ticks) * calc.config.DecayHungerPerTick
	if hungerGain > calc.config.DecayHungerCap {
		hungerGain = calc.config.DecayHungerCap
	}
	c.Hunger = Clamp(c.Hunger + hungerGain)
	c.Happiness = Clamp(c.Happiness - int(ticks)*calc.config.DecayHappinessPerTick)

	if c.Hunger > calc.config.DecayStarvingHunger {
		c.Health = Clamp(c.Health - calc.config.DecayHealthStep)
	}

	calc.ApplyFaintReset(c)
	return true
}

// ApplyFaintReset is the engine's only fatal local transition: a
// companion whose health reached zero is sent back to the egg. It is a
// designed game mechanic, never surfaced as an error. Returns true when
// the reset fired.
func (calc *Calculator) ApplyFaintReset(c *models.Companion) bool {
	if c.Health > 0 {
		return false
	}
	c.Stage = models.StageEgg
	c.Level = 1
	c.Experience = 0
	c.Health = calc.config.ResetHealth
	c.Mood = DeriveMood(c)
	return true
}
