package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/solstice-labs/lumen/lumen/database/models"
	"github.com/solstice-labs/lumen/lumen/economy"
	"github.com/uptrace/bun"
)

type PlayerRepository interface {
	economy.PlayerStore
	GetOrCreate(ctx context.Context, playerID string) (*models.Player, error)
}

type playerRepository struct {
	db *bun.DB
}

func NewPlayerRepository(db *bun.DB) PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) GetOrCreate(ctx context.Context, playerID string) (*models.Player, error) {
	player := &models.Player{
		ID:        playerID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	_, err := r.db.NewInsert().
		Model(player).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	err = r.db.NewSelect().
		Model(player).
		Where("id = ?", playerID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return player, nil
}

// AdjustGems applies a delta to the gem balance. Negative deltas are
// conditional on sufficient funds, so the check-and-deduct is a single
// statement with no read-modify-write race.
func (r *playerRepository) AdjustGems(ctx context.Context, playerID string, delta int64) error {
	q := r.db.NewUpdate().
		Model((*models.Player)(nil)).
		Set("gems = gems + ?", delta).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", playerID)
	if delta < 0 {
		q = q.Where("gems >= ?", -delta)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if delta < 0 {
			return economy.ErrInsufficientFunds
		}
		return ErrNotFound
	}
	return nil
}

// AdjustExperience mirrors AdjustGems for the player XP pool.
func (r *playerRepository) AdjustExperience(ctx context.Context, playerID string, delta int64) error {
	q := r.db.NewUpdate().
		Model((*models.Player)(nil)).
		Set("experience = experience + ?", delta).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", playerID)
	if delta < 0 {
		q = q.Where("experience >= ?", -delta)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		if delta < 0 {
			return economy.ErrInsufficientFunds
		}
		return ErrNotFound
	}
	return nil
}

func (r *playerRepository) GetGems(ctx context.Context, playerID string) (int64, error) {
	player := new(models.Player)
	err := r.db.NewSelect().
		Model(player).
		Column("gems").
		Where("id = ?", playerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return player.Gems, nil
}

func (r *playerRepository) GetExperience(ctx context.Context, playerID string) (int64, error) {
	player := new(models.Player)
	err := r.db.NewSelect().
		Model(player).
		Column("experience").
		Where("id = ?", playerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return player.Experience, nil
}
