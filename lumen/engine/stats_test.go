package engine

import (
	"testing"
	"time"

	"github.com/solstice-labs/lumen/lumen/database/models"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-50, 0},
		{-1, 0},
		{0, 0},
		{50, 50},
		{100, 100},
		{101, 100},
		{1000, 100},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func decayedCompanion(now time.Time, sinceFed time.Duration) *models.Companion {
	fedAt := now.Add(-sinceFed).UnixMilli()
	return &models.Companion{
		Level:         1,
		Stage:         models.StageEgg,
		Hunger:        30,
		Happiness:     80,
		Health:        100,
		Energy:        100,
		Cleanliness:   100,
		LastFedAt:     fedAt,
		DecayAnchorAt: fedAt,
	}
}

func TestApplyDecay(t *testing.T) {
	calc := NewCalculator(NewDefaultConfig())
	now := time.Now()

	t.Run("zero anchor initializes without decay", func(t *testing.T) {
		c := decayedCompanion(now, time.Hour)
		c.DecayAnchorAt = 0
		if changed := calc.ApplyDecay(c, now); changed {
			t.Errorf("ApplyDecay() changed = true, want false")
		}
		if c.DecayAnchorAt != now.UnixMilli() {
			t.Errorf("anchor not initialized")
		}
		if c.Hunger != 30 || c.Happiness != 80 {
			t.Errorf("stats changed on anchor init: hunger=%d happiness=%d", c.Hunger, c.Happiness)
		}
	})

	t.Run("no decay inside the grace window", func(t *testing.T) {
		c := decayedCompanion(now, 2*time.Minute)
		if changed := calc.ApplyDecay(c, now); changed {
			t.Errorf("ApplyDecay() changed = true, want false")
		}
		if c.Hunger != 30 {
			t.Errorf("hunger = %d, want 30", c.Hunger)
		}
	})

	t.Run("charges elapsed ticks", func(t *testing.T) {
		c := decayedCompanion(now, 35*time.Minute)
		if changed := calc.ApplyDecay(c, now); !changed {
			t.Fatalf("ApplyDecay() changed = false, want true")
		}
		if c.Hunger != 33 {
			t.Errorf("hunger = %d, want 33", c.Hunger)
		}
		if c.Happiness != 74 {
			t.Errorf("happiness = %d, want 74", c.Happiness)
		}
	})

	t.Run("second evaluation in quick succession is free", func(t *testing.T) {
		c := decayedCompanion(now, 35*time.Minute)
		calc.ApplyDecay(c, now)
		hunger, happiness := c.Hunger, c.Happiness

		if changed := calc.ApplyDecay(c, now.Add(time.Second)); changed {
			t.Errorf("ApplyDecay() double-charged a quick re-read")
		}
		if c.Hunger != hunger || c.Happiness != happiness {
			t.Errorf("stats drifted: hunger %d->%d happiness %d->%d", hunger, c.Hunger, happiness, c.Happiness)
		}
	})

	t.Run("hunger gain is capped per evaluation", func(t *testing.T) {
		c := decayedCompanion(now, 400*time.Minute)
		calc.ApplyDecay(c, now)
		if c.Hunger != 40 {
			t.Errorf("hunger = %d, want 40 (capped gain of 10)", c.Hunger)
		}
	})

	t.Run("starving drains health", func(t *testing.T) {
		c := decayedCompanion(now, 30*time.Minute)
		c.Hunger = 85
		calc.ApplyDecay(c, now)
		if c.Health != 95 {
			t.Errorf("health = %d, want 95", c.Health)
		}
	})

	t.Run("stats stay within bounds under extreme elapsed time", func(t *testing.T) {
		c := decayedCompanion(now, 1000*time.Hour)
		calc.ApplyDecay(c, now)
		if c.Hunger < 0 || c.Hunger > 100 {
			t.Errorf("hunger out of bounds: %d", c.Hunger)
		}
		if c.Happiness < 0 || c.Happiness > 100 {
			t.Errorf("happiness out of bounds: %d", c.Happiness)
		}
	})
}

func TestApplyFaintReset(t *testing.T) {
	calc := NewCalculator(NewDefaultConfig())

	t.Run("fires only at zero health", func(t *testing.T) {
		c := &models.Companion{Level: 4, Experience: 700, Stage: models.StageAdult, Health: 1}
		if calc.ApplyFaintReset(c) {
			t.Errorf("reset fired with health above zero")
		}
	})

	t.Run("resets to egg", func(t *testing.T) {
		c := &models.Companion{Level: 4, Experience: 700, Stage: models.StageAdult, Health: 0, Happiness: 50, Hunger: 90}
		if !calc.ApplyFaintReset(c) {
			t.Fatalf("reset did not fire at zero health")
		}
		if c.Stage != models.StageEgg || c.Level != 1 || c.Experience != 0 || c.Health != 50 {
			t.Errorf("reset state = {%v %d %d %d}, want {egg 1 0 50}", c.Stage, c.Level, c.Experience, c.Health)
		}
	})
}

func TestDecayDrivesHealthToReset(t *testing.T) {
	calc := NewCalculator(NewDefaultConfig())
	now := time.Now()

	c := decayedCompanion(now, 30*time.Minute)
	c.Hunger = 95
	c.Health = 5
	c.Level = 5
	c.Experience = 1500
	c.Stage = models.StageLegendary

	calc.ApplyDecay(c, now)

	if c.Stage != models.StageEgg || c.Level != 1 || c.Experience != 0 || c.Health != 50 {
		t.Errorf("decay to zero health did not reset: {%v %d %d %d}", c.Stage, c.Level, c.Experience, c.Health)
	}
}
