package engine

import (
	"testing"

	"github.com/solstice-labs/lumen/lumen/database/models"
)

func TestStageForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  models.Stage
	}{
		{0, models.StageEgg},
		{1, models.StageEgg},
		{2, models.StageBaby},
		{3, models.StageTeen},
		{4, models.StageAdult},
		{5, models.StageLegendary},
		{6, models.StageMythic},
		{7, models.StageMythic},
	}

	for _, tt := range tests {
		if got := StageForLevel(tt.level); got != tt.want {
			t.Errorf("StageForLevel(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestGrantExperience(t *testing.T) {
	tests := []struct {
		name       string
		level      int
		experience int64
		amount     int64
		wantLevel  int
		wantGained int
	}{
		{
			name:       "no level up below threshold",
			level:      1,
			experience: 0,
			amount:     99,
			wantLevel:  1,
			wantGained: 0,
		},
		{
			name:       "single level up at threshold",
			level:      1,
			experience: 0,
			amount:     100,
			wantLevel:  2,
			wantGained: 1,
		},
		{
			name:       "large grant crosses several levels",
			level:      1,
			experience: 0,
			amount:     600,
			wantLevel:  4,
			wantGained: 3,
		},
		{
			name:       "grant to the ceiling",
			level:      1,
			experience: 0,
			amount:     5000,
			wantLevel:  6,
			wantGained: 5,
		},
		{
			name:       "no growth past max level",
			level:      6,
			experience: 9000,
			amount:     10000,
			wantLevel:  6,
			wantGained: 0,
		},
		{
			name:       "zero amount is a no-op",
			level:      3,
			experience: 300,
			amount:     0,
			wantLevel:  3,
			wantGained: 0,
		},
	}

	calc := NewCalculator(NewDefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &models.Companion{
				Level:      tt.level,
				Experience: tt.experience,
				Stage:      StageForLevel(tt.level),
			}
			gained := calc.GrantExperience(c, tt.amount)
			if gained != tt.wantGained {
				t.Errorf("GrantExperience() gained = %d, want %d", gained, tt.wantGained)
			}
			if c.Level != tt.wantLevel {
				t.Errorf("level = %d, want %d", c.Level, tt.wantLevel)
			}
			if c.Stage != StageForLevel(c.Level) {
				t.Errorf("stage = %v out of sync with level %d", c.Stage, c.Level)
			}
			if c.Level < tt.level {
				t.Errorf("level decreased from %d to %d", tt.level, c.Level)
			}
		})
	}
}

func TestNormalizeClampsAndDerives(t *testing.T) {
	calc := NewCalculator(NewDefaultConfig())
	c := &models.Companion{
		Level:       3,
		Hunger:      150,
		Happiness:   -20,
		Health:      101,
		Energy:      -1,
		Cleanliness: 300,
		BondLevel:   120,
	}
	calc.Normalize(c)

	for _, check := range []struct {
		name string
		got  int
	}{
		{"hunger", c.Hunger},
		{"happiness", c.Happiness},
		{"health", c.Health},
		{"energy", c.Energy},
		{"cleanliness", c.Cleanliness},
		{"bond_level", c.BondLevel},
	} {
		if check.got < 0 || check.got > 100 {
			t.Errorf("%s = %d, want within [0,100]", check.name, check.got)
		}
	}
	if c.Stage != models.StageTeen {
		t.Errorf("stage = %v, want %v", c.Stage, models.StageTeen)
	}
	if c.Mood != DeriveMood(c) {
		t.Errorf("mood = %v out of sync with stats", c.Mood)
	}
}
