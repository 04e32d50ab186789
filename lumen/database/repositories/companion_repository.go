package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru"
	"github.com/solstice-labs/lumen/lumen/database/models"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when the companion id does not exist in
// storage.
var ErrNotFound = errors.New("companion not found")

const cacheSize = 256

type CompanionRepository interface {
	Create(ctx context.Context, c *models.Companion) error
	GetByID(ctx context.Context, id snowflake.ID) (*models.Companion, error)
	Update(ctx context.Context, c *models.Companion) error
	List(ctx context.Context) ([]*models.Companion, error)
	GetCurrentID(ctx context.Context) (snowflake.ID, bool, error)
	SetCurrentID(ctx context.Context, id snowflake.ID) error
	Warmup(ctx context.Context) error
}

type companionRepository struct {
	db    *bun.DB
	cache *lru.Cache
}

func NewCompanionRepository(db *bun.DB) CompanionRepository {
	cache, _ := lru.New(cacheSize)
	return &companionRepository{db: db, cache: cache}
}

func (r *companionRepository) Create(ctx context.Context, c *models.Companion) error {
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
	if _, err := r.db.NewInsert().Model(c).Exec(ctx); err != nil {
		return err
	}
	r.cache.Add(c.ID, c.Clone())
	return nil
}

func (r *companionRepository) GetByID(ctx context.Context, id snowflake.ID) (*models.Companion, error) {
	if cached, ok := r.cache.Get(id); ok {
		return cached.(*models.Companion).Clone(), nil
	}

	c := new(models.Companion)
	err := r.db.NewSelect().
		Model(c).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		slog.Error("Failed to load companion",
			slog.String("type", "db"),
			slog.String("companion_id", id.String()),
			slog.Any("error", err))
		return nil, err
	}

	r.cache.Add(c.ID, c.Clone())
	return c, nil
}

func (r *companionRepository) Update(ctx context.Context, c *models.Companion) error {
	c.UpdatedAt = time.Now()
	res, err := r.db.NewUpdate().
		Model(c).
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	r.cache.Add(c.ID, c.Clone())
	return nil
}

func (r *companionRepository) List(ctx context.Context) ([]*models.Companion, error) {
	var companions []*models.Companion
	err := r.db.NewSelect().
		Model(&companions).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return companions, nil
}

func (r *companionRepository) GetCurrentID(ctx context.Context) (snowflake.ID, bool, error) {
	state := new(models.AppState)
	err := r.db.NewSelect().
		Model(state).
		Where("id = 1").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if state.CurrentCompanionID == 0 {
		return 0, false, nil
	}
	return snowflake.ID(state.CurrentCompanionID), true, nil
}

func (r *companionRepository) SetCurrentID(ctx context.Context, id snowflake.ID) error {
	// The companion must exist; the pointer never dangles.
	exists, err := r.db.NewSelect().
		Model((*models.Companion)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	_, err = r.db.NewUpdate().
		Model((*models.AppState)(nil)).
		Set("current_companion_id = ?", int64(id)).
		Set("updated_at = ?", time.Now()).
		Where("id = 1").
		Exec(ctx)
	return err
}

// Warmup primes the LRU cache with every stored companion. Used once
// at startup.
func (r *companionRepository) Warmup(ctx context.Context) error {
	start := time.Now()
	companions, err := r.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companions for warmup: %w", err)
	}

	for _, c := range companions {
		r.cache.Add(c.ID, c.Clone())
	}

	slog.Info("Companion cache warmed",
		slog.String("type", "db"),
		slog.Int("count", len(companions)),
		slog.Duration("took", time.Since(start)))
	return nil
}
