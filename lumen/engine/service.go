package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/solstice-labs/lumen/lumen/bonding"
	"github.com/solstice-labs/lumen/lumen/database/models"
	"github.com/solstice-labs/lumen/lumen/economy"
	"github.com/solstice-labs/lumen/lumen/events"
	"github.com/solstice-labs/lumen/lumen/logger"
)

// CompanionStore is the persistence surface the engine needs;
// implemented by repositories.CompanionRepository.
type CompanionStore interface {
	Create(ctx context.Context, c *models.Companion) error
	GetByID(ctx context.Context, id snowflake.ID) (*models.Companion, error)
	Update(ctx context.Context, c *models.Companion) error
}

// Service runs the simulation for companions: interactions, lazy decay,
// leveling and the faint reset. All mutations are synchronous
// run-to-completion transformations of a single record.
type Service struct {
	config *Config
	calc   *Calculator
	store  CompanionStore
	ledger economy.Ledger
	bus    *events.Bus
}

func NewService(config *Config, store CompanionStore, ledger economy.Ledger, bus *events.Bus) *Service {
	return &Service{
		config: config,
		calc:   NewCalculator(config),
		store:  store,
		ledger: ledger,
		bus:    bus,
	}
}

// Calculator exposes the pure math for read-only callers.
func (s *Service) Calculator() *Calculator { return s.calc }

// CreateCompanion makes a new level-1 companion with starting stats.
func (s *Service) CreateCompanion(ctx context.Context, name string) (*models.Companion, error) {
	now := time.Now()
	c := &models.Companion{
		ID:            snowflake.New(now),
		Name:          name,
		Level:         1,
		Hunger:        30,
		Happiness:     80,
		Health:        100,
		Energy:        100,
		Cleanliness:   100,
		LastFedAt:     now.UnixMilli(),
		DecayAnchorAt: now.UnixMilli(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.calc.Normalize(c)

	if err := s.store.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create companion: %w", err)
	}
	s.bus.Publish(events.CompanionChanged{Companion: c, Op: events.OpCreate})
	logger.LogSystem("Companion created",
		"companion_id", c.ID.String(),
		"name", c.Name)
	return c, nil
}

// Get loads a companion and settles its passive decay against the
// current wall clock. Decayed state is persisted so staleness is
// bounded by how often callers read.
func (s *Service) Get(ctx context.Context, id snowflake.ID) (*models.Companion, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.calc.ApplyDecay(c, time.Now()) {
		s.calc.Normalize(c)
		if err := s.store.Update(ctx, c); err != nil {
			return nil, fmt.Errorf("failed to persist decay: %w", err)
		}
		s.bus.Publish(events.CompanionChanged{Companion: c, Op: events.OpDecay})
	}
	return c, nil
}

// Feed lowers hunger and grants a little happiness, health and
// experience. Costs gems; on insufficient funds the companion is
// returned without the feed applied.
func (s *Service) Feed(ctx context.Context, id snowflake.ID) (*models.Companion, error) {
	start := time.Now()
	c, err := s.interact(ctx, id, events.OpFeed, bonding.ActivityFeed, s.config.FeedCostGems, func(c *models.Companion, now time.Time) {
		c.Hunger = Clamp(c.Hunger - s.config.FeedHungerDelta)
		c.Happiness = Clamp(c.Happiness + s.config.FeedHappinessDelta)
		c.Health = Clamp(c.Health + s.config.FeedHealthDelta)
		c.TimesFeeding++
		c.LastFedAt = now.UnixMilli()
		c.DecayAnchorAt = now.UnixMilli()
		s.calc.GrantExperience(c, s.config.FeedExperience)
	})
	logger.LogInteraction("feed", id.String(), time.Since(start), err)
	return c, err
}

// Play raises happiness at the cost of energy. Free.
func (s *Service) Play(ctx context.Context, id snowflake.ID) (*models.Companion, error) {
	start := time.Now()
	c, err := s.interact(ctx, id, events.OpPlay, bonding.ActivityPlay, 0, func(c *models.Companion, now time.Time) {
		c.Happiness = Clamp(c.Happiness + s.config.PlayHappinessDelta)
		c.Energy = Clamp(c.Energy - s.config.PlayEnergyDelta)
		c.LastPlayedAt = now.UnixMilli()
		s.calc.GrantExperience(c, s.config.PlayExperience)
	})
	logger.LogInteraction("play", id.String(), time.Since(start), err)
	return c, err
}

// Heal restores health. Costs gems.
func (s *Service) Heal(ctx context.Context, id snowflake.ID) (*models.Companion, error) {
	start := time.Now()
	c, err := s.interact(ctx, id, events.OpHeal, bonding.ActivityHeal, s.config.HealCostGems, func(c *models.Companion, _ time.Time) {
		c.Health = Clamp(c.Health + s.config.HealHealthDelta)
	})
	logger.LogInteraction("heal", id.String(), time.Since(start), err)
	return c, err
}

// Clean restores cleanliness and a sliver of happiness. Free.
func (s *Service) Clean(ctx context.Context, id snowflake.ID) (*models.Companion, error) {
	start := time.Now()
	c, err := s.interact(ctx, id, events.OpClean, bonding.ActivityClean, 0, func(c *models.Companion, _ time.Time) {
		c.Cleanliness = Clamp(c.Cleanliness + s.config.CleanCleanlinessDelta)
		c.Happiness = Clamp(c.Happiness + s.config.CleanHappinessDelta)
	})
	logger.LogInteraction("clean", id.String(), time.Since(start), err)
	return c, err
}

// Rename updates the display name. No stats change, but observers are
// still notified.
func (s *Service) Rename(ctx context.Context, id snowflake.ID, name string) (*models.Companion, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = name
	c.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to rename companion: %w", err)
	}
	s.bus.Publish(events.CompanionChanged{Companion: c, Op: events.OpRename})
	return c, nil
}

// Cosmetics updates the appearance fields. Zero gameplay effect.
type Cosmetics struct {
	Color        string
	Skin         string
	FavoriteFood string
	Emoji        string
}

func (s *Service) Customize(ctx context.Context, id snowflake.ID, cos Cosmetics) (*models.Companion, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cos.Color != "" {
		c.Color = cos.Color
	}
	if cos.Skin != "" {
		c.Skin = cos.Skin
	}
	if cos.FavoriteFood != "" {
		c.FavoriteFood = cos.FavoriteFood
	}
	if cos.Emoji != "" {
		c.Emoji = cos.Emoji
	}
	c.UpdatedAt = time.Now()
	if err := s.store.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update cosmetics: %w", err)
	}
	s.bus.Publish(events.CompanionChanged{Companion: c, Op: events.OpCustomize})
	return c, nil
}

// interact is the shared mutation path: settle decay, check-and-deduct
// the ledger cost, apply the verb's deltas, grant bond, re-derive the
// cached fields, persist and notify. The ledger deduction happens
// before any companion mutation; if it fails the whole action is a
// no-op beyond the decay evaluation itself.
func (s *Service) interact(ctx context.Context, id snowflake.ID, op events.Op, activity bonding.Activity, costGems int64, apply func(*models.Companion, time.Time)) (*models.Companion, error) {
	c, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	decayed := s.calc.ApplyDecay(c, now)

	if costGems > 0 {
		if err := s.ledger.DeductCurrency(ctx, costGems); err != nil {
			if decayed {
				s.calc.Normalize(c)
				if uerr := s.store.Update(ctx, c); uerr == nil {
					s.bus.Publish(events.CompanionChanged{Companion: c, Op: events.OpDecay})
				}
			}
			return c, err
		}
	}

	apply(c, now)
	c.TotalInteractions++
	c.Affinity++
	c.BondLevel = Clamp(c.BondLevel + bonding.Gain(activity, c.Level))
	s.calc.ApplyFaintReset(c)
	s.calc.Normalize(c)
	c.UpdatedAt = now

	if err := s.store.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to persist companion: %w", err)
	}
	s.bus.Publish(events.CompanionChanged{Companion: c, Op: op})
	return c, nil
}
