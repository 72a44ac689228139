package service

import (
	"context"
	"errors"

	"github.com/deppfellow/jersey-rota/internal/errs"
	"github.com/deppfellow/jersey-rota/internal/model"
	"github.com/deppfellow/jersey-rota/internal/repository"
	"github.com/deppfellow/jersey-rota/internal/server"
)

var playerNotFoundCode = "PLAYER_NOT_FOUND"

type PlayerService struct {
	server *server.Server
	repo   repository.PlayerRepository
}

func NewPlayerService(s *server.Server, repo repository.PlayerRepository) *PlayerService {
	return &PlayerService{server: s, repo: repo}
}

func playerNotFound() *errs.HTTPError {
	return errs.NewNotFoundError("Player not found", true, &playerNotFoundCode)
}

func (s *PlayerService) ListPlayers(ctx context.Context) ([]model.Player, error) {
	return s.repo.ListPlayers(ctx)
}

func (s *PlayerService) CreatePlayer(ctx context.Context, payload *model.CreatePlayerPayload) (*model.Player, error) {
	player, err := s.repo.CreatePlayer(ctx, payload)
	if err != nil {
		return nil, err
	}

	s.server.Logger.Debug().Int64("player_id", player.ID).Msg("player created")
	return player, nil
}

// UpdatePlayer applies a partial update. Unknown ids yield a 404.
func (s *PlayerService) UpdatePlayer(ctx context.Context, payload *model.UpdatePlayerPayload) (*model.Player, error) {
	player, err := s.repo.UpdatePlayer(ctx, payload.ID, payload)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, playerNotFound()
	}
	if err != nil {
		return nil, err
	}
	return player, nil
}

// DeletePlayer removes the player and, through the foreign key, its washes.
func (s *PlayerService) DeletePlayer(ctx context.Context, payload *model.DeletePlayerPayload) error {
	err := s.repo.DeletePlayer(ctx, payload.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return playerNotFound()
	}
	if err != nil {
		return err
	}

	s.server.Logger.Debug().Int64("player_id", payload.ID).Msg("player deleted")
	return nil
}
