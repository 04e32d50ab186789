package lumen

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/solstice-labs/lumen/lumen/database"
	"github.com/solstice-labs/lumen/lumen/database/archive"
	"github.com/solstice-labs/lumen/lumen/engine"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log     LogConfig         `toml:"log"`
	Player  PlayerConfig      `toml:"player"`
	DB      database.DBConfig `toml:"db"`
	Archive archive.Config    `toml:"archive"`
	Engine  EngineConfig      `toml:"engine"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

type PlayerConfig struct {
	ID string `toml:"id"`
}

// EngineConfig overrides individual simulation knobs; zero values keep
// the defaults.
type EngineConfig struct {
	DecayGraceMinutes    int   `toml:"decay_grace_minutes"`
	DecayTickMinutes     int   `toml:"decay_tick_minutes"`
	FeedCostGems         int64 `toml:"feed_cost_gems"`
	HealCostGems         int64 `toml:"heal_cost_gems"`
	SweepIntervalSeconds int   `toml:"sweep_interval_seconds"`
}

// EngineDefaults folds the overrides into a full engine config.
func (c *Config) EngineDefaults() *engine.Config {
	cfg := engine.NewDefaultConfig()
	if c.Engine.DecayGraceMinutes > 0 {
		cfg.DecayGrace = time.Duration(c.Engine.DecayGraceMinutes) * time.Minute
	}
	if c.Engine.DecayTickMinutes > 0 {
		cfg.DecayTick = time.Duration(c.Engine.DecayTickMinutes) * time.Minute
	}
	if c.Engine.FeedCostGems > 0 {
		cfg.FeedCostGems = c.Engine.FeedCostGems
	}
	if c.Engine.HealCostGems > 0 {
		cfg.HealCostGems = c.Engine.HealCostGems
	}
	return cfg
}

// SweepInterval is how often the poll loop settles decay and due
// quests for every companion.
func (c *Config) SweepInterval() time.Duration {
	if c.Engine.SweepIntervalSeconds > 0 {
		return time.Duration(c.Engine.SweepIntervalSeconds) * time.Second
	}
	return 30 * time.Second
}
