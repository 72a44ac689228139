// Package testutil builds a fully wired Server on a throwaway SQLite
// database for package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/deppfellow/jersey-rota/internal/config"
	"github.com/deppfellow/jersey-rota/internal/database"
	"github.com/deppfellow/jersey-rota/internal/server"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Epoch is the fake clock's starting time.
var Epoch = time.Date(2024, time.March, 2, 9, 30, 0, 0, time.UTC)

// NewTestServer opens and migrates a SQLite database under t.TempDir and
// returns a Server whose clock is the returned fake clock. Everything is
// closed when the test ends.
func NewTestServer(t *testing.T) (*server.Server, *clockwork.FakeClock) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Database.URL = "file:" + filepath.Join(t.TempDir(), "rota.db")
	cfg.Observability.Logging.Level = "error"

	logger := zerolog.Nop()

	db, err := database.New(cfg, &logger, nil)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	clock := clockwork.NewFakeClockAt(Epoch)

	return &server.Server{
		Config: cfg,
		Logger: &logger,
		DB:     db,
		Clock:  clock,
	}, clock
}
