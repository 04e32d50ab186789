package lumen

import (
	"context"
	"log/slog"
	"time"

	"github.com/solstice-labs/lumen/lumen/abilities"
	"github.com/solstice-labs/lumen/lumen/database"
	"github.com/solstice-labs/lumen/lumen/database/archive"
	"github.com/solstice-labs/lumen/lumen/database/repositories"
	"github.com/solstice-labs/lumen/lumen/economy"
	"github.com/solstice-labs/lumen/lumen/engine"
	"github.com/solstice-labs/lumen/lumen/events"
	"github.com/solstice-labs/lumen/lumen/quests"
	"golang.org/x/sync/errgroup"
)

func New(cfg Config, version string, commit string) *App {
	return &App{
		Cfg:     cfg,
		Bus:     events.NewBus(),
		Version: version,
		Commit:  commit,
	}
}

// App wires the simulation together: storage, ledger, engine, quest
// system and the change-notification bus.
type App struct {
	Cfg     Config
	Version string
	Commit  string

	DB            *database.DB
	Bus           *events.Bus
	CompanionRepo repositories.CompanionRepository
	PlayerRepo    repositories.PlayerRepository
	Ledger        *economy.Service
	Engine        *engine.Service
	Abilities     *abilities.Service
	Quests        *quests.Service
	Archive       *archive.QuestArchive
}

// Setup connects storage and builds every service. The quest archive
// is optional; without a configured URI, history beyond the retention
// window is simply dropped.
func (a *App) Setup(ctx context.Context, db *database.DB) error {
	a.DB = db
	a.CompanionRepo = repositories.NewCompanionRepository(db.BunDB())
	a.PlayerRepo = repositories.NewPlayerRepository(db.BunDB())

	if _, err := a.PlayerRepo.GetOrCreate(ctx, a.Cfg.Player.ID); err != nil {
		return err
	}
	a.Ledger = economy.NewService(a.PlayerRepo, a.Cfg.Player.ID)

	if a.Cfg.Archive.URI != "" {
		questArchive, err := archive.Connect(ctx, a.Cfg.Archive)
		if err != nil {
			return err
		}
		a.Archive = questArchive
	}

	engineCfg := a.Cfg.EngineDefaults()
	a.Engine = engine.NewService(engineCfg, a.CompanionRepo, a.Ledger, a.Bus)
	a.Abilities = abilities.NewService(a.CompanionRepo, a.Ledger, a.Bus)

	var questArchive quests.Archive
	if a.Archive != nil {
		questArchive = a.Archive
	}
	a.Quests = quests.NewService(a.CompanionRepo, a.Ledger, a.Engine.Calculator(), a.Bus, questArchive)

	return a.CompanionRepo.Warmup(ctx)
}

// Sweep settles passive decay and resolves due quests for every
// companion. Companions are independent, so the sweep fans out with a
// bounded group.
func (a *App) Sweep(ctx context.Context) error {
	companions, err := a.CompanionRepo.List(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, c := range companions {
		id := c.ID
		g.Go(func() error {
			if _, err := a.Engine.Get(gctx, id); err != nil {
				return err
			}
			_, err := a.Quests.ResolveDue(gctx, id)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Debug("Sweep finished",
		slog.String("type", "sim"),
		slog.Int("companions", len(companions)),
		slog.Duration("took", time.Since(start)))
	return nil
}

func (a *App) Close(ctx context.Context) {
	if a.Archive != nil {
		if err := a.Archive.Close(ctx); err != nil {
			slog.Error("Failed to close quest archive", slog.Any("error", err))
		}
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
