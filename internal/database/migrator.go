package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	tern "github.com/jackc/tern/v2/migrate"
	"github.com/pressly/goose/v3"
	goosedb "github.com/pressly/goose/v3/database"
)

// Embed all SQL files at compile time so the binary carries its schema and
// does not depend on the filesystem at runtime.
//
//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// ternVersionTable stores the PostgreSQL schema version.
const ternVersionTable = "schema_version"

// Migrate brings the schema up to date for the configured backend.
//
// PostgreSQL migrations run through jackc/tern on a single pooled
// connection. SQLite migrations run through goose, each file inside its
// own transaction, at most once.
func (db *Database) Migrate(ctx context.Context) error {
	switch db.Driver {
	case DriverPostgres:
		return db.migratePostgres(ctx)
	case DriverSQLite:
		return db.migrateSQLite(ctx)
	default:
		return fmt.Errorf("unknown database driver %q", db.Driver)
	}
}

func (db *Database) migratePostgres(ctx context.Context) error {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring migration connection: %w", err)
	}
	defer conn.Release()

	m, err := tern.NewMigrator(ctx, conn.Conn(), ternVersionTable)
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return err
	}

	if from == int32(len(m.Migrations)) {
		db.log.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		db.log.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}

// newSQLiteMigrator builds a goose provider over the embedded SQLite
// migrations.
func newSQLiteMigrator(sqlDB *sql.DB) (*goose.Provider, error) {
	subtree, err := fs.Sub(migrations, "migrations/sqlite")
	if err != nil {
		return nil, fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	p, err := goose.NewProvider(goosedb.DialectSQLite3, sqlDB, subtree)
	if err != nil {
		return nil, fmt.Errorf("constructing database migrator: %w", err)
	}
	return p, nil
}

func (db *Database) migrateSQLite(ctx context.Context) error {
	p, err := newSQLiteMigrator(db.SQL)
	if err != nil {
		return err
	}

	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("applying database migrations: %w", err)
	}

	total := len(p.ListSources())
	if len(results) == 0 {
		db.log.Info().Msgf("database schema up to date, %d migrations", total)
		return nil
	}

	for _, r := range results {
		db.log.Debug().
			Str("migration", r.Source.Path).
			Dur("duration", r.Duration).
			Msg("applied migration")
	}
	db.log.Info().Msgf("migrated database schema, applied %d of %d migrations", len(results), total)
	return nil
}
