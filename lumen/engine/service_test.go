package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/solstice-labs/lumen/lumen/database/models"
	"github.com/solstice-labs/lumen/lumen/database/repositories"
	"github.com/solstice-labs/lumen/lumen/economy"
	"github.com/solstice-labs/lumen/lumen/events"
)

// memStore is an in-memory CompanionStore for service tests.
type memStore struct {
	companions map[snowflake.ID]*models.Companion
}

func newMemStore() *memStore {
	return &memStore{companions: make(map[snowflake.ID]*models.Companion)}
}

func (s *memStore) Create(_ context.Context, c *models.Companion) error {
	s.companions[c.ID] = c.Clone()
	return nil
}

func (s *memStore) GetByID(_ context.Context, id snowflake.ID) (*models.Companion, error) {
	c, ok := s.companions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return c.Clone(), nil
}

func (s *memStore) Update(_ context.Context, c *models.Companion) error {
	if _, ok := s.companions[c.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.companions[c.ID] = c.Clone()
	return nil
}

// fakeLedger tracks balances in memory.
type fakeLedger struct {
	gems     int64
	playerXP int64
}

func (l *fakeLedger) GrantPlayerExperience(_ context.Context, amount int64) error {
	l.playerXP += amount
	return nil
}

func (l *fakeLedger) SpendPlayerExperience(_ context.Context, amount int64) error {
	if l.playerXP < amount {
		return economy.ErrInsufficientFunds
	}
	l.playerXP -= amount
	return nil
}

func (l *fakeLedger) DeductCurrency(_ context.Context, amount int64) error {
	if l.gems < amount {
		return economy.ErrInsufficientFunds
	}
	l.gems -= amount
	return nil
}

func (l *fakeLedger) AddCurrency(_ context.Context, amount int64) error {
	l.gems += amount
	return nil
}

func (l *fakeLedger) GetCurrencyBalance(_ context.Context) (int64, error) {
	return l.gems, nil
}

func (l *fakeLedger) GetPlayerExperience(_ context.Context) (int64, error) {
	return l.playerXP, nil
}

func newTestService(gems int64) (*Service, *memStore, *fakeLedger, *events.Bus) {
	store := newMemStore()
	ledger := &fakeLedger{gems: gems}
	bus := events.NewBus()
	svc := NewService(NewDefaultConfig(), store, ledger, bus)
	return svc, store, ledger, bus
}

func TestCreateCompanion(t *testing.T) {
	svc, _, _, bus := newTestService(0)

	var published []events.Op
	bus.Subscribe(func(ev events.CompanionChanged) {
		published = append(published, ev.Op)
	})

	c, err := svc.CreateCompanion(context.Background(), "Pip")
	if err != nil {
		t.Fatalf("CreateCompanion() error = %v", err)
	}
	if c.Level != 1 || c.Stage != models.StageEgg {
		t.Errorf("new companion level/stage = %d/%v, want 1/egg", c.Level, c.Stage)
	}
	if c.Hunger != 30 || c.Happiness != 80 || c.Health != 100 {
		t.Errorf("starting stats = %d/%d/%d, want 30/80/100", c.Hunger, c.Happiness, c.Health)
	}
	if c.Mood != DeriveMood(c) {
		t.Errorf("mood not derived on create")
	}
	if len(published) != 1 || published[0] != events.OpCreate {
		t.Errorf("published ops = %v, want [create]", published)
	}
}

func TestFeedScenario(t *testing.T) {
	svc, _, ledger, _ := newTestService(1000)

	c, err := svc.CreateCompanion(context.Background(), "Pip")
	if err != nil {
		t.Fatalf("CreateCompanion() error = %v", err)
	}

	for i := 0; i < 5; i++ {
		if c, err = svc.Feed(context.Background(), c.ID); err != nil {
			t.Fatalf("Feed() #%d error = %v", i+1, err)
		}
	}

	if c.TimesFeeding != 5 {
		t.Errorf("timesFeeding = %d, want 5", c.TimesFeeding)
	}
	if c.TotalInteractions != 5 {
		t.Errorf("totalInteractions = %d, want 5", c.TotalInteractions)
	}
	if c.Hunger != 0 {
		// 30 - 5x15 clamps at zero well before the fifth feed
		t.Errorf("hunger = %d, want 0", c.Hunger)
	}
	if c.Experience != 50 {
		t.Errorf("experience = %d, want 50", c.Experience)
	}
	if c.Level != 1 {
		// 50 XP is below the level 1 threshold of 100
		t.Errorf("level = %d, want 1", c.Level)
	}
	if ledger.gems != 1000-5*5 {
		t.Errorf("gems = %d, want %d", ledger.gems, 1000-5*5)
	}
}

func TestFeedLevelsUpAgainstThresholdTable(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.FeedExperience = 30
	store := newMemStore()
	ledger := &fakeLedger{gems: 1000}
	svc := NewService(cfg, store, ledger, events.NewBus())

	c, err := svc.CreateCompanion(context.Background(), "Pip")
	if err != nil {
		t.Fatalf("CreateCompanion() error = %v", err)
	}

	for i := 0; i < 4; i++ {
		if c, err = svc.Feed(context.Background(), c.ID); err != nil {
			t.Fatalf("Feed() error = %v", err)
		}
	}

	// 4 feeds x 30 XP = 120, past the level 1 threshold of 100
	if c.Level != 2 || c.Stage != models.StageBaby {
		t.Errorf("level/stage = %d/%v, want 2/baby", c.Level, c.Stage)
	}
}

func TestFeedInsufficientFunds(t *testing.T) {
	svc, store, _, bus := newTestService(3) // feed costs 5

	c, err := svc.CreateCompanion(context.Background(), "Pip")
	if err != nil {
		t.Fatalf("CreateCompanion() error = %v", err)
	}

	var feedEvents int
	bus.Subscribe(func(ev events.CompanionChanged) {
		if ev.Op == events.OpFeed {
			feedEvents++
		}
	})

	got, err := svc.Feed(context.Background(), c.ID)
	if !errors.Is(err, economy.ErrInsufficientFunds) {
		t.Fatalf("Feed() error = %v, want ErrInsufficientFunds", err)
	}
	if got.TimesFeeding != 0 || got.Hunger != 30 {
		t.Errorf("companion mutated despite rejected deduction: feeds=%d hunger=%d", got.TimesFeeding, got.Hunger)
	}

	stored, _ := store.GetByID(context.Background(), c.ID)
	if stored.TimesFeeding != 0 {
		t.Errorf("stored companion mutated despite rejected deduction")
	}
	if feedEvents != 0 {
		t.Errorf("feed event published for a no-op")
	}
}

func TestPlayHealClean(t *testing.T) {
	svc, _, _, _ := newTestService(1000)

	c, err := svc.CreateCompanion(context.Background(), "Pip")
	if err != nil {
		t.Fatalf("CreateCompanion() error = %v", err)
	}

	c, err = svc.Play(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if c.Energy != 90 {
		t.Errorf("energy after play = %d, want 90", c.Energy)
	}
	if c.LastPlayedAt == 0 {
		t.Errorf("lastPlayedAt not stamped")
	}

	c.Health = 40
	c.Cleanliness = 20
	// push the modified state back through the store
	if err := svc.store.Update(context.Background(), c); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	c, err = svc.Heal(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("Heal() error = %v", err)
	}
	if c.Health != 65 {
		t.Errorf("health after heal = %d, want 65", c.Health)
	}

	c, err = svc.Clean(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if c.Cleanliness != 50 {
		t.Errorf("cleanliness after clean = %d, want 50", c.Cleanliness)
	}
}

func TestGetSettlesDecay(t *testing.T) {
	svc, store, _, bus := newTestService(0)

	c, err := svc.CreateCompanion(context.Background(), "Pip")
	if err != nil {
		t.Fatalf("CreateCompanion() error = %v", err)
	}

	// Backdate the anchors by 35 minutes.
	past := time.Now().Add(-35 * time.Minute).UnixMilli()
	raw, _ := store.GetByID(context.Background(), c.ID)
	raw.LastFedAt = past
	raw.DecayAnchorAt = past
	if err := store.Update(context.Background(), raw); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	var decayEvents int
	bus.Subscribe(func(ev events.CompanionChanged) {
		if ev.Op == events.OpDecay {
			decayEvents++
		}
	})

	got, err := svc.Get(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Hunger != 33 {
		t.Errorf("hunger = %d, want 33 after 3 elapsed ticks", got.Hunger)
	}
	if decayEvents != 1 {
		t.Errorf("decay events = %d, want 1", decayEvents)
	}

	// The decayed state is persisted; a second read is stable.
	again, err := svc.Get(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if again.Hunger != got.Hunger || again.Happiness != got.Happiness {
		t.Errorf("second read drifted: %d/%d vs %d/%d", again.Hunger, again.Happiness, got.Hunger, got.Happiness)
	}
}

func TestRename(t *testing.T) {
	svc, _, _, _ := newTestService(0)

	c, err := svc.CreateCompanion(context.Background(), "Pip")
	if err != nil {
		t.Fatalf("CreateCompanion() error = %v", err)
	}

	c, err = svc.Rename(context.Background(), c.ID, "Ember")
	if err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if c.Name != "Ember" {
		t.Errorf("name = %q, want %q", c.Name, "Ember")
	}
}

func TestCustomize(t *testing.T) {
	svc, _, _, bus := newTestService(0)

	c, err := svc.CreateCompanion(context.Background(), "Pip")
	if err != nil {
		t.Fatalf("CreateCompanion() error = %v", err)
	}

	var ops []events.Op
	bus.Subscribe(func(ev events.CompanionChanged) {
		ops = append(ops, ev.Op)
	})

	c, err = svc.Customize(context.Background(), c.ID, Cosmetics{Color: "teal", Emoji: "🌙"})
	if err != nil {
		t.Fatalf("Customize() error = %v", err)
	}
	if c.Color != "teal" || c.Emoji != "🌙" {
		t.Errorf("cosmetics = %q/%q, want teal/🌙", c.Color, c.Emoji)
	}
	if len(ops) != 1 || ops[0] != events.OpCustomize {
		t.Errorf("published ops = %v, want [customize]", ops)
	}
}

func TestGetUnknownCompanion(t *testing.T) {
	svc, _, _, _ := newTestService(0)

	_, err := svc.Get(context.Background(), snowflake.ID(12345))
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}
