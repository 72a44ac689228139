package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/deppfellow/jersey-rota/internal/model"
	"github.com/deppfellow/jersey-rota/internal/sqlerr"
	"github.com/jonboulle/clockwork"
)

// PlayerSQLiteRepository stores players in SQLite. Timestamps are kept as
// unix milliseconds.
type PlayerSQLiteRepository struct {
	db    *sql.DB
	clock clockwork.Clock
}

func NewPlayerSQLiteRepository(db *sql.DB, clock clockwork.Clock) *PlayerSQLiteRepository {
	return &PlayerSQLiteRepository{db: db, clock: clock}
}

func scanSQLitePlayer(row rowScanner) (model.Player, error) {
	var (
		p         model.Player
		createdAt int64
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Nickname, &p.UsualNumber, &createdAt); err != nil {
		return model.Player{}, err
	}
	p.CreatedAt = time.UnixMilli(createdAt).UTC()
	return p, nil
}

// nullable turns a nil *string into a SQL NULL argument.
func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func (r *PlayerSQLiteRepository) ListPlayers(ctx context.Context) ([]model.Player, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `SELECT `+playerColumns+` FROM players ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	players := []model.Player{}
	for rows.Next() {
		player, err := scanSQLitePlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	return players, nil
}

func (r *PlayerSQLiteRepository) CreatePlayer(ctx context.Context, payload *model.CreatePlayerPayload) (*model.Player, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	row := conn.QueryRowContext(ctx, `
		INSERT INTO players (name, nickname, usual_number, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING `+playerColumns,
		payload.Name,
		nullable(payload.Nickname),
		nullable(payload.UsualNumber),
		stamp(r.clock.Now()).UnixMilli(),
	)

	player, err := scanSQLitePlayer(row)
	if err != nil {
		return nil, fmt.Errorf("create player: %w", sqlerr.Annotate(err, "players", ""))
	}
	return &player, nil
}

func (r *PlayerSQLiteRepository) UpdatePlayer(ctx context.Context, id int64, payload *model.UpdatePlayerPayload) (*model.Player, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	row := conn.QueryRowContext(ctx, `
		UPDATE players
		SET name = COALESCE(?, name),
			nickname = COALESCE(?, nickname),
			usual_number = COALESCE(?, usual_number)
		WHERE id = ?
		RETURNING `+playerColumns,
		nullable(payload.Name),
		nullable(payload.Nickname),
		nullable(payload.UsualNumber),
		id,
	)

	player, err := scanSQLitePlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update player %d: %w", id, sqlerr.Annotate(err, "players", ""))
	}
	return &player, nil
}

func (r *PlayerSQLiteRepository) DeletePlayer(ctx context.Context, id int64) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete player %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete player %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
