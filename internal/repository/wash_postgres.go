package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/jersey-rota/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
)

// WashPostgresRepository stores jersey washes in PostgreSQL.
type WashPostgresRepository struct {
	pool  *pgxpool.Pool
	clock clockwork.Clock
}

func NewWashPostgresRepository(pool *pgxpool.Pool, clock clockwork.Clock) *WashPostgresRepository {
	return &WashPostgresRepository{pool: pool, clock: clock}
}

func scanPgWash(row rowScanner) (model.JerseyWash, error) {
	var w model.JerseyWash
	if err := row.Scan(&w.ID, &w.PlayerID, &w.TakenAt); err != nil {
		return model.JerseyWash{}, err
	}
	w.TakenAt = w.TakenAt.UTC()
	return w, nil
}

// CreateWash fails with a foreign key violation when playerID is unknown.
func (r *WashPostgresRepository) CreateWash(ctx context.Context, playerID int64) (*model.JerseyWash, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
		INSERT INTO jersey_washes (player_id, taken_at)
		VALUES ($1, $2)
		RETURNING id, player_id, taken_at`,
		playerID,
		stamp(r.clock.Now()),
	)

	wash, err := scanPgWash(row)
	if err != nil {
		return nil, fmt.Errorf("create wash: %w", err)
	}
	return &wash, nil
}

func (r *WashPostgresRepository) ListWashes(ctx context.Context, playerID *int64) ([]model.JerseyWash, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
		SELECT id, player_id, taken_at
		FROM jersey_washes
		WHERE $1::bigint IS NULL OR player_id = $1
		ORDER BY id`,
		playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list washes: %w", err)
	}

	washes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.JerseyWash, error) {
		return scanPgWash(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan washes: %w", err)
	}
	if washes == nil {
		washes = []model.JerseyWash{}
	}
	return washes, nil
}
