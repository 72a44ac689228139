package repository

import (
	"github.com/deppfellow/jersey-rota/internal/database"
	"github.com/deppfellow/jersey-rota/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Player PlayerRepository
	Wash   WashRepository
}

// NewRepositories builds the repositories for the backend s.DB was opened with.
func NewRepositories(s *server.Server) *Repositories {
	if s.DB.Driver == database.DriverPostgres {
		return &Repositories{
			Player: NewPlayerPostgresRepository(s.DB.Pool, s.Clock),
			Wash:   NewWashPostgresRepository(s.DB.Pool, s.Clock),
		}
	}

	return &Repositories{
		Player: NewPlayerSQLiteRepository(s.DB.SQL, s.Clock),
		Wash:   NewWashSQLiteRepository(s.DB.SQL, s.Clock),
	}
}
