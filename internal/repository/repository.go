// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
//
// Every method acquires one connection for its duration and releases it on
// every exit path. Each backend has its own implementation because the SQL
// dialects and timestamp storage differ.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/deppfellow/jersey-rota/internal/model"
)

// ErrNotFound is returned when the targeted row does not exist.
var ErrNotFound = errors.New("record not found")

// PlayerRepository persists players.
type PlayerRepository interface {
	ListPlayers(ctx context.Context) ([]model.Player, error)
	CreatePlayer(ctx context.Context, payload *model.CreatePlayerPayload) (*model.Player, error)
	// UpdatePlayer overwrites the non-nil fields of payload. It returns
	// ErrNotFound, without mutating anything, when id is unknown.
	UpdatePlayer(ctx context.Context, id int64, payload *model.UpdatePlayerPayload) (*model.Player, error)
	DeletePlayer(ctx context.Context, id int64) error
}

// WashRepository persists jersey wash events.
type WashRepository interface {
	CreateWash(ctx context.Context, playerID int64) (*model.JerseyWash, error)
	// ListWashes returns every wash, or only playerID's when it is non-nil.
	ListWashes(ctx context.Context, playerID *int64) ([]model.JerseyWash, error)
}

// rowScanner is satisfied by pgx.Row, pgx.CollectableRow and *sql.Row(s).
type rowScanner interface {
	Scan(dest ...any) error
}

// stamp truncates to milliseconds so both backends round-trip the same value.
func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
