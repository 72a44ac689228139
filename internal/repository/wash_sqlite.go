package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/deppfellow/jersey-rota/internal/model"
	"github.com/deppfellow/jersey-rota/internal/sqlerr"
	"github.com/jonboulle/clockwork"
)

// WashSQLiteRepository stores jersey washes in SQLite.
type WashSQLiteRepository struct {
	db    *sql.DB
	clock clockwork.Clock
}

func NewWashSQLiteRepository(db *sql.DB, clock clockwork.Clock) *WashSQLiteRepository {
	return &WashSQLiteRepository{db: db, clock: clock}
}

func scanSQLiteWash(row rowScanner) (model.JerseyWash, error) {
	var (
		w       model.JerseyWash
		takenAt int64
	)
	if err := row.Scan(&w.ID, &w.PlayerID, &takenAt); err != nil {
		return model.JerseyWash{}, err
	}
	w.TakenAt = time.UnixMilli(takenAt).UTC()
	return w, nil
}

// CreateWash fails with a foreign key violation, annotated with the
// player_id column, when playerID is unknown.
func (r *WashSQLiteRepository) CreateWash(ctx context.Context, playerID int64) (*model.JerseyWash, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	row := conn.QueryRowContext(ctx, `
		INSERT INTO jersey_washes (player_id, taken_at)
		VALUES (?, ?)
		RETURNING id, player_id, taken_at`,
		playerID,
		stamp(r.clock.Now()).UnixMilli(),
	)

	wash, err := scanSQLiteWash(row)
	if err != nil {
		return nil, fmt.Errorf("create wash: %w", sqlerr.Annotate(err, "jersey_washes", "player_id"))
	}
	return &wash, nil
}

func (r *WashSQLiteRepository) ListWashes(ctx context.Context, playerID *int64) ([]model.JerseyWash, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	var filter any
	if playerID != nil {
		filter = *playerID
	}

	rows, err := conn.QueryContext(ctx, `
		SELECT id, player_id, taken_at
		FROM jersey_washes
		WHERE ? IS NULL OR player_id = ?
		ORDER BY id`,
		filter,
		filter,
	)
	if err != nil {
		return nil, fmt.Errorf("list washes: %w", err)
	}
	defer rows.Close()

	washes := []model.JerseyWash{}
	for rows.Next() {
		wash, err := scanSQLiteWash(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wash: %w", err)
		}
		washes = append(washes, wash)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate washes: %w", err)
	}
	return washes, nil
}
