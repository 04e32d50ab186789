// Package economy exposes the player-level progression ledger: gems
// and player experience. The simulation treats it as an external
// collaborator; every paid interaction performs a check-and-deduct here
// before any companion state changes.
package economy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrInsufficientFunds is returned when a deduction would take a
// balance negative. The caller must treat the whole user action as a
// no-op.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Ledger is the narrow interface the engine consumes.
type Ledger interface {
	GrantPlayerExperience(ctx context.Context, amount int64) error
	SpendPlayerExperience(ctx context.Context, amount int64) error
	DeductCurrency(ctx context.Context, amount int64) error
	AddCurrency(ctx context.Context, amount int64) error
	GetCurrencyBalance(ctx context.Context) (int64, error)
	GetPlayerExperience(ctx context.Context) (int64, error)
}

// PlayerStore is the persistence surface the ledger needs; implemented
// by repositories.PlayerRepository.
type PlayerStore interface {
	AdjustGems(ctx context.Context, playerID string, delta int64) error
	AdjustExperience(ctx context.Context, playerID string, delta int64) error
	GetGems(ctx context.Context, playerID string) (int64, error)
	GetExperience(ctx context.Context, playerID string) (int64, error)
}

// Service is a Ledger bound to a single player.
type Service struct {
	store    PlayerStore
	playerID string
}

func NewService(store PlayerStore, playerID string) *Service {
	return &Service{store: store, playerID: playerID}
}

func (s *Service) GrantPlayerExperience(ctx context.Context, amount int64) error {
	if amount <= 0 {
		return nil
	}
	if err := s.store.AdjustExperience(ctx, s.playerID, amount); err != nil {
		return fmt.Errorf("failed to grant player experience: %w", err)
	}
	slog.Debug("Granted player experience",
		slog.String("type", "sim"),
		slog.String("player_id", s.playerID),
		slog.Int64("amount", amount))
	return nil
}

func (s *Service) SpendPlayerExperience(ctx context.Context, amount int64) error {
	if amount <= 0 {
		return nil
	}
	return s.store.AdjustExperience(ctx, s.playerID, -amount)
}

func (s *Service) DeductCurrency(ctx context.Context, amount int64) error {
	if amount <= 0 {
		return nil
	}
	return s.store.AdjustGems(ctx, s.playerID, -amount)
}

func (s *Service) AddCurrency(ctx context.Context, amount int64) error {
	if amount <= 0 {
		return nil
	}
	return s.store.AdjustGems(ctx, s.playerID, amount)
}

func (s *Service) GetCurrencyBalance(ctx context.Context) (int64, error) {
	return s.store.GetGems(ctx, s.playerID)
}

func (s *Service) GetPlayerExperience(ctx context.Context) (int64, error) {
	return s.store.GetExperience(ctx, s.playerID)
}
