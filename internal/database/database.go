// Package database contains the logic for establishing
// connections to the backing relational store.
//
// Two backends are supported and selected by the connection string scheme:
//   - PostgreSQL through a pgx connection pool (pgxpool), with query
//     tracing/logging (pgx tracelog) and optional New Relic instrumentation
//     (nrpgx5)
//   - SQLite through the pure Go modernc.org/sqlite driver, for local
//     development and tests
//
// Both expose the same lifecycle: New, Ping, Close and Migrate.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/deppfellow/jersey-rota/internal/config"
	loggerConfig "github.com/deppfellow/jersey-rota/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// Driver identifies the backend behind a Database.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// DatabasePingTimeout defines the number of seconds to wait for the startup
// ping before considering the database "unreachable".
const DatabasePingTimeout = 10

// sqlitePragmas are applied by the driver on every new connection.
// Foreign keys are off by default in SQLite and must be enabled per
// connection for ON DELETE CASCADE to work.
var sqlitePragmas = []string{
	"_pragma=foreign_keys(1)",
	"_pragma=busy_timeout(5000)",
}

// Database wraps the open handle for the configured backend.
//
// Exactly one of Pool (PostgreSQL) and SQL (SQLite) is set, according to
// Driver. log is used for lifecycle logs (connect/close, migrations).
type Database struct {
	Driver Driver
	Pool   *pgxpool.Pool
	SQL    *sql.DB
	log    *zerolog.Logger
}

// ParseURL selects the driver for a connection string and returns the DSN
// to hand to it.
//
//	postgres://... | postgresql://...  -> DriverPostgres, unchanged
//	sqlite://[/]<path> | file:<path>   -> DriverSQLite, file:<path>?_pragma=...
//	:memory:                            -> DriverSQLite, in-memory
func ParseURL(raw string) (Driver, string, error) {
	raw = strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DriverPostgres, raw, nil

	case strings.HasPrefix(raw, "sqlite://"):
		// sqlite:///rel.db is relative and sqlite:////abs.db absolute, as in
		// SQLAlchemy style URLs; sqlite://rel.db is accepted too.
		return sqliteDSN(strings.TrimPrefix(strings.TrimPrefix(raw, "sqlite://"), "/"))

	case strings.HasPrefix(raw, "file:"):
		return sqliteDSN(strings.TrimPrefix(raw, "file:"))

	case raw == ":memory:":
		return sqliteDSN(raw)

	case raw == "":
		return "", "", fmt.Errorf("database url is required")

	default:
		return "", "", fmt.Errorf("unsupported database url scheme: %q", redact(raw))
	}
}

func sqliteDSN(path string) (Driver, string, error) {
	query := ""
	if idx := strings.IndexByte(path, '?'); idx >= 0 {
		path, query = path[:idx], path[idx+1:]
	}
	if path == "" {
		return "", "", fmt.Errorf("sqlite database path is required")
	}

	params := append([]string{}, sqlitePragmas...)
	if path != ":memory:" {
		params = append(params, "_pragma=journal_mode(WAL)")
	}
	if query != "" {
		params = append(params, query)
	}

	return DriverSQLite, "file:" + path + "?" + strings.Join(params, "&"), nil
}

// redact drops everything after the scheme so credentials never reach logs.
func redact(raw string) string {
	if idx := strings.Index(raw, "://"); idx >= 0 {
		return raw[:idx+3] + "..."
	}
	if len(raw) > 8 {
		return raw[:8] + "..."
	}
	return raw
}

// multiTracer allows chaining multiple tracers.
//
// pgx supports a single Tracer in ConnConfig. This type acts as an adapter so
// the New Relic tracer, the local SQL logger and the slow query tracer can run
// together. Each tracer is checked at runtime for the hooks it supports.
type multiTracer struct {
	tracers []any
}

// TraceQueryStart threads the context through every tracer in order.
func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryStart(context.Context, *pgx.Conn, pgx.TraceQueryStartData) context.Context
		}); ok {
			ctx = t.TraceQueryStart(ctx, conn, data)
		}
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		if t, ok := tracer.(interface {
			TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData)
		}); ok {
			t.TraceQueryEnd(ctx, conn, data)
		}
	}
}

type slowQueryStartKey struct{}

type slowQueryStart struct {
	at  time.Time
	sql string
}

// slowQueryTracer logs statements that take longer than threshold.
type slowQueryTracer struct {
	threshold time.Duration
	log       *zerolog.Logger
}

func (t *slowQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, slowQueryStartKey{}, slowQueryStart{at: time.Now(), sql: data.SQL})
}

func (t *slowQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(slowQueryStartKey{}).(slowQueryStart)
	if !ok {
		return
	}

	if elapsed := time.Since(start.at); elapsed >= t.threshold {
		t.log.Warn().
			Str("sql", start.sql).
			Dur("duration", elapsed).
			Dur("threshold", t.threshold).
			Err(data.Err).
			Msg("slow query")
	}
}

// New opens the database named by cfg.Database.URL and pings it.
//
// Inputs:
//   - cfg: application config (url, pool settings, observability)
//   - logger: main app logger
//   - loggerService: optional New Relic service (nil if not configured)
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	driver, dsn, err := ParseURL(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	var database *Database
	switch driver {
	case DriverPostgres:
		database, err = newPostgres(cfg, dsn, logger, loggerService)
	case DriverSQLite:
		database, err = newSQLite(cfg, dsn, logger)
	}
	if err != nil {
		return nil, err
	}

	// Ping with a timeout so startup fails fast if the database is down.
	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err := database.Ping(ctx); err != nil {
		database.closeHandle()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Str("driver", string(driver)).Msg("connected to the database")

	return database, nil
}

func newPostgres(cfg *config.Config, dsn string, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	pgxPoolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	pgxPoolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second

	var tracers []any

	// New Relic PostgreSQL instrumentation, only when the agent is running.
	if loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}

	// SQL statement logging is very noisy, which is why it is only on in local.
	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(loggerConfig.NewPgxLogger(globalLevel)),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		})
	}

	if threshold := cfg.Observability.Logging.SlowQueryThreshold; threshold > 0 {
		tracers = append(tracers, &slowQueryTracer{threshold: threshold, log: logger})
	}

	switch len(tracers) {
	case 0:
	case 1:
		pgxPoolConfig.ConnConfig.Tracer = tracers[0].(pgx.QueryTracer)
	default:
		pgxPoolConfig.ConnConfig.Tracer = &multiTracer{tracers: tracers}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	return &Database{Driver: DriverPostgres, Pool: pool, log: logger}, nil
}

func newSQLite(cfg *config.Config, dsn string, logger *zerolog.Logger) (*Database, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Every connection to :memory: is a separate database, so its single
	// connection must never be closed while the handle is open.
	if isMemoryDSN(dsn) {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second)
	}

	return &Database{Driver: DriverSQLite, SQL: sqlDB, log: logger}, nil
}

func isMemoryDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "file::memory:")
}

// Ping checks that the database is reachable.
func (db *Database) Ping(ctx context.Context) error {
	switch db.Driver {
	case DriverPostgres:
		return db.Pool.Ping(ctx)
	case DriverSQLite:
		return db.SQL.PingContext(ctx)
	default:
		return fmt.Errorf("unknown database driver %q", db.Driver)
	}
}

// Close releases the pool or handle.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	return db.closeHandle()
}

func (db *Database) closeHandle() error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.SQL != nil {
		return db.SQL.Close()
	}
	return nil
}
