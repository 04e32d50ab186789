package abilities

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/solstice-labs/lumen/lumen/database/models"
	"github.com/solstice-labs/lumen/lumen/economy"
	"github.com/solstice-labs/lumen/lumen/engine"
	"github.com/solstice-labs/lumen/lumen/events"
)

var (
	// ErrAlreadyUnlocked rejects a second unlock of the same ability;
	// unlocks are append-only and irreversible.
	ErrAlreadyUnlocked = errors.New("ability already unlocked")
	// ErrPrerequisitesNotMet rejects an unlock whose level or evolution
	// gate is not satisfied.
	ErrPrerequisitesNotMet = errors.New("ability prerequisites not met")
	// ErrUnknownAbility rejects ids missing from the catalog.
	ErrUnknownAbility = errors.New("unknown ability")
)

// Service handles unlock attempts and bonus queries.
type Service struct {
	store  engine.CompanionStore
	ledger economy.Ledger
	bus    *events.Bus
}

func NewService(store engine.CompanionStore, ledger economy.Ledger, bus *events.Bus) *Service {
	return &Service{store: store, ledger: ledger, bus: bus}
}

// Unlockable reports whether the companion currently satisfies the
// ability's gates and does not already own it.
func Unlockable(c *models.Companion, a Ability) bool {
	if c.HasAbility(a.ID) {
		return false
	}
	if c.Level < a.LevelRequirement {
		return false
	}
	if a.EvolutionRequirement != "" && c.Stage != a.EvolutionRequirement {
		return false
	}
	return true
}

// ListUnlockable returns the catalog entries the companion could
// unlock right now, in catalog order.
func ListUnlockable(c *models.Companion) []Ability {
	var out []Ability
	for _, a := range Catalog {
		if Unlockable(c, a) {
			out = append(out, a)
		}
	}
	return out
}

// Unlock spends player experience to append the ability to the
// companion's unlocked set. The ledger deduction runs before the
// companion mutation; on any rejection the companion is unchanged.
func (s *Service) Unlock(ctx context.Context, companionID snowflake.ID, abilityID string) (*models.Companion, error) {
	c, err := s.store.GetByID(ctx, companionID)
	if err != nil {
		return nil, err
	}

	a, ok := ByID(abilityID)
	if !ok {
		return c, ErrUnknownAbility
	}
	if c.HasAbility(a.ID) {
		return c, ErrAlreadyUnlocked
	}
	if !Unlockable(c, a) {
		return c, ErrPrerequisitesNotMet
	}

	if err := s.ledger.SpendPlayerExperience(ctx, a.UnlockCost); err != nil {
		return c, err
	}

	c.UnlockedAbilities = append(c.UnlockedAbilities, a.ID)
	c.TotalXPSpent += a.UnlockCost
	c.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to persist ability unlock: %w", err)
	}
	s.bus.Publish(events.CompanionChanged{Companion: c, Op: events.OpAbilityGrant})
	slog.Info("Ability unlocked",
		slog.String("type", "sim"),
		slog.String("companion_id", companionID.String()),
		slog.String("ability_id", a.ID),
		slog.Int64("xp_spent", a.UnlockCost))
	return c, nil
}

// ComputeBonus sums the contribution of every unlocked ability on the
// given channel. Pure read, recomputed on demand:
//
//	baseBonus x bondMultiplier x levelMultiplier / 100
//
// where bondMultiplier spans [1.0, 1.5] over bond 0..100 and
// levelMultiplier grows 5% per level past the first.
func ComputeBonus(c *models.Companion, kind EffectKind) float64 {
	bondMultiplier := 1 + (float64(c.BondLevel)/100)*0.5
	levelMultiplier := 1 + (float64(c.Level-1)/5)*0.25

	var total float64
	for _, id := range c.UnlockedAbilities {
		a, ok := ByID(id)
		if !ok || a.Effect != kind {
			continue
		}
		total += a.BaseBonus * bondMultiplier * levelMultiplier / 100
	}
	return total
}
