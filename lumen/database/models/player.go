package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Player holds the external progression ledger: spendable gems and the
// player-level experience pool. This is a separate namespace from any
// companion's own experience.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID         string `bun:"id,pk"`
	Gems       int64  `bun:"gems,notnull,default:0"`
	Experience int64  `bun:"experience,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// AppState is a single-row table tracking which companion is currently
// selected. The engine never deletes companions; it only repoints this.
type AppState struct {
	bun.BaseModel `bun:"table:app_state,alias:s"`

	ID                 int    `bun:"id,pk"`
	CurrentCompanionID int64  `bun:"current_companion_id,notnull,default:0"`
	SchemaVersion      int    `bun:"schema_version,notnull,default:1"`

	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
