package quests

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/solstice-labs/lumen/lumen/bonding"
	"github.com/solstice-labs/lumen/lumen/database/models"
	"github.com/solstice-labs/lumen/lumen/economy"
	"github.com/solstice-labs/lumen/lumen/engine"
	"github.com/solstice-labs/lumen/lumen/events"
)

var (
	// ErrQuestNotReady rejects resolution while time remains.
	ErrQuestNotReady = errors.New("quest not ready to resolve")
	// ErrQuestAlreadyResolved rejects a second resolve; completed and
	// failed are terminal.
	ErrQuestAlreadyResolved = errors.New("quest already resolved")
	// ErrUnknownQuest rejects template ids missing from the catalog.
	ErrUnknownQuest = errors.New("unknown quest template")
	// ErrQuestNotFound rejects instance ids the companion does not hold.
	ErrQuestNotFound = errors.New("quest instance not found")
)

// historyRetention caps how many resolved instances stay on the
// companion record for display; older ones go to the archive.
const historyRetention = 10

// Archive receives resolved instances that fall off the on-record
// history window. Best effort: archive failures are logged, never
// propagated.
type Archive interface {
	ArchiveResolved(ctx context.Context, companionID snowflake.ID, instances []models.QuestInstance) error
}

// Service owns the quest instance state machine:
// available -> active -> completed|failed, never backward.
type Service struct {
	store   engine.CompanionStore
	ledger  economy.Ledger
	calc    *engine.Calculator
	bus     *events.Bus
	archive Archive
	rng     *rand.Rand
}

func NewService(store engine.CompanionStore, ledger economy.Ledger, calc *engine.Calculator, bus *events.Bus, archive Archive) *Service {
	return &Service{
		store:   store,
		ledger:  ledger,
		calc:    calc,
		bus:     bus,
		archive: archive,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRand replaces the outcome source. Tests use a fixed seed.
func (s *Service) SetRand(rng *rand.Rand) { s.rng = rng }

// Start stamps a new active instance from the template onto the
// companion. There is no cancellation; once started, an instance runs
// its fixed duration and can only be resolved.
func (s *Service) Start(ctx context.Context, companionID snowflake.ID, templateID string) (*models.QuestInstance, error) {
	tpl, ok := ByID(templateID)
	if !ok {
		return nil, ErrUnknownQuest
	}

	c, err := s.store.GetByID(ctx, companionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inst := models.QuestInstance{
		ID:         snowflake.New(now),
		TemplateID: tpl.ID,
		Status:     models.QuestStatusActive,
		StartTime:  now.UnixMilli(),
	}
	c.ActiveQuests = append(c.ActiveQuests, inst)
	c.UpdatedAt = now

	if err := s.store.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to persist quest start: %w", err)
	}
	s.bus.Publish(events.CompanionChanged{Companion: c, Op: events.OpQuestStart})
	slog.Info("Quest started",
		slog.String("type", "sim"),
		slog.String("companion_id", companionID.String()),
		slog.String("quest_id", tpl.ID),
		slog.Duration("duration", tpl.Duration))
	return &inst, nil
}

// TimeRemaining reports how long until the instance can be resolved.
// The second return is false when the instance is not active.
func TimeRemaining(inst *models.QuestInstance, now time.Time) (time.Duration, bool) {
	if inst.Status != models.QuestStatusActive {
		return 0, false
	}
	tpl, ok := ByID(inst.TemplateID)
	if !ok {
		return 0, false
	}
	remaining := tpl.Duration - now.Sub(time.UnixMilli(inst.StartTime))
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// Resolve draws the outcome for one elapsed instance. Success has
// probability 1-riskFactor; on success the full reward triple is
// granted, on failure nothing is. Either way the instance becomes
// terminal and moves from the active list to the history window.
func (s *Service) Resolve(ctx context.Context, companionID snowflake.ID, instanceID snowflake.ID) (*models.QuestInstance, error) {
	c, err := s.store.GetByID(ctx, companionID)
	if err != nil {
		return nil, err
	}

	inst, ok := c.ActiveQuest(instanceID)
	if !ok {
		for i := range c.QuestHistory {
			if c.QuestHistory[i].ID == instanceID {
				return &c.QuestHistory[i], ErrQuestAlreadyResolved
			}
		}
		return nil, ErrQuestNotFound
	}

	now := time.Now()
	if remaining, active := TimeRemaining(inst, now); !active {
		return inst, ErrQuestAlreadyResolved
	} else if remaining > 0 {
		return inst, ErrQuestNotReady
	}

	resolved, reward, err := s.resolveInstance(ctx, c, inst, now)
	if err != nil {
		return nil, err
	}

	c.UpdatedAt = now
	if err := s.store.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to persist quest resolution: %w", err)
	}
	if err := s.creditReward(ctx, reward); err != nil {
		return resolved, err
	}
	s.bus.Publish(events.CompanionChanged{Companion: c, Op: events.OpQuestResolve})
	return resolved, nil
}

// ResolveDue sweeps every active instance whose duration has elapsed.
// Called by polling loops; quests never fire on their own.
func (s *Service) ResolveDue(ctx context.Context, companionID snowflake.ID) ([]models.QuestInstance, error) {
	c, err := s.store.GetByID(ctx, companionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var resolved []models.QuestInstance
	var earned Reward
	for i := 0; i < len(c.ActiveQuests); {
		inst := &c.ActiveQuests[i]
		remaining, active := TimeRemaining(inst, now)
		if !active || remaining > 0 {
			i++
			continue
		}
		// resolveInstance removes the entry at i, so do not advance.
		r, reward, err := s.resolveInstance(ctx, c, inst, now)
		if err != nil {
			return nil, err
		}
		earned.Gems += reward.Gems
		earned.XP += reward.XP
		resolved = append(resolved, *r)
	}

	if len(resolved) == 0 {
		return nil, nil
	}

	c.UpdatedAt = now
	if err := s.store.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to persist quest resolutions: %w", err)
	}
	if err := s.creditReward(ctx, earned); err != nil {
		return resolved, err
	}
	s.bus.Publish(events.CompanionChanged{Companion: c, Op: events.OpQuestResolve})
	return resolved, nil
}

// resolveInstance mutates the companion in memory: draws the outcome,
// applies pet experience and bond on success, and moves the instance
// into history. It returns the ledger reward still owed; the caller
// persists the companion first and only then credits the ledger, so a
// failed persist can be retried without minting the reward twice.
func (s *Service) resolveInstance(ctx context.Context, c *models.Companion, inst *models.QuestInstance, now time.Time) (*models.QuestInstance, Reward, error) {
	tpl, ok := ByID(inst.TemplateID)
	if !ok {
		return nil, Reward{}, ErrUnknownQuest
	}

	// Uniform draw in [0,1): success iff draw >= riskFactor, so risk 0
	// always succeeds and risk 1 always fails.
	success := s.rng.Float64() >= tpl.RiskFactor

	var reward Reward
	inst.CompletedAt = now.UnixMilli()
	if success {
		inst.Status = models.QuestStatusCompleted
		reward = tpl.Reward

		s.calc.GrantExperience(c, tpl.Reward.PetXP)
		c.BondLevel = engine.Clamp(c.BondLevel + bonding.Gain(bonding.ActivityQuestComplete, c.Level))
		s.calc.Normalize(c)
	} else {
		inst.Status = models.QuestStatusFailed
	}

	done := *inst
	s.removeActive(c, inst.ID)
	s.appendHistory(ctx, c, done)

	slog.Info("Quest resolved",
		slog.String("type", "sim"),
		slog.String("companion_id", c.ID.String()),
		slog.String("quest_id", tpl.ID),
		slog.String("status", string(done.Status)))
	return &done, reward, nil
}

// creditReward settles the ledger side of completed quests. Runs after
// the terminal companion state is durable.
func (s *Service) creditReward(ctx context.Context, reward Reward) error {
	if reward.Gems > 0 {
		if err := s.ledger.AddCurrency(ctx, reward.Gems); err != nil {
			return fmt.Errorf("failed to grant quest gems: %w", err)
		}
	}
	if reward.XP > 0 {
		if err := s.ledger.GrantPlayerExperience(ctx, reward.XP); err != nil {
			return fmt.Errorf("failed to grant quest experience: %w", err)
		}
	}
	return nil
}

func (s *Service) removeActive(c *models.Companion, id snowflake.ID) {
	for i := range c.ActiveQuests {
		if c.ActiveQuests[i].ID == id {
			c.ActiveQuests = append(c.ActiveQuests[:i], c.ActiveQuests[i+1:]...)
			return
		}
	}
}

func (s *Service) appendHistory(ctx context.Context, c *models.Companion, inst models.QuestInstance) {
	c.QuestHistory = append(c.QuestHistory, inst)
	if len(c.QuestHistory) <= historyRetention {
		return
	}

	overflow := append([]models.QuestInstance(nil), c.QuestHistory[:len(c.QuestHistory)-historyRetention]...)
	c.QuestHistory = append([]models.QuestInstance(nil), c.QuestHistory[len(c.QuestHistory)-historyRetention:]...)

	if s.archive == nil {
		return
	}
	if err := s.archive.ArchiveResolved(ctx, c.ID, overflow); err != nil {
		slog.Error("Failed to archive quest history",
			slog.String("type", "error"),
			slog.String("companion_id", c.ID.String()),
			slog.Any("error", err))
	}
}
