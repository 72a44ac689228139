package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/jersey-rota/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
)

const playerColumns = "id, name, nickname, usual_number, created_at"

// PlayerPostgresRepository stores players in PostgreSQL.
type PlayerPostgresRepository struct {
	pool  *pgxpool.Pool
	clock clockwork.Clock
}

func NewPlayerPostgresRepository(pool *pgxpool.Pool, clock clockwork.Clock) *PlayerPostgresRepository {
	return &PlayerPostgresRepository{pool: pool, clock: clock}
}

func scanPgPlayer(row rowScanner) (model.Player, error) {
	var p model.Player
	if err := row.Scan(&p.ID, &p.Name, &p.Nickname, &p.UsualNumber, &p.CreatedAt); err != nil {
		return model.Player{}, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

func (r *PlayerPostgresRepository) ListPlayers(ctx context.Context) ([]model.Player, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `SELECT `+playerColumns+` FROM players ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	players, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Player, error) {
		return scanPgPlayer(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan players: %w", err)
	}
	if players == nil {
		players = []model.Player{}
	}
	return players, nil
}

func (r *PlayerPostgresRepository) CreatePlayer(ctx context.Context, payload *model.CreatePlayerPayload) (*model.Player, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
		INSERT INTO players (name, nickname, usual_number, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING `+playerColumns,
		payload.Name,
		payload.Nickname,
		payload.UsualNumber,
		stamp(r.clock.Now()),
	)

	player, err := scanPgPlayer(row)
	if err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}
	return &player, nil
}

func (r *PlayerPostgresRepository) UpdatePlayer(ctx context.Context, id int64, payload *model.UpdatePlayerPayload) (*model.Player, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
		UPDATE players
		SET name = COALESCE($2, name),
			nickname = COALESCE($3, nickname),
			usual_number = COALESCE($4, usual_number)
		WHERE id = $1
		RETURNING `+playerColumns,
		id,
		payload.Name,
		payload.Nickname,
		payload.UsualNumber,
	)

	player, err := scanPgPlayer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update player %d: %w", id, err)
	}
	return &player, nil
}

func (r *PlayerPostgresRepository) DeletePlayer(ctx context.Context, id int64) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete player %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
