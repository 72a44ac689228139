package service

import (
	"context"

	"github.com/deppfellow/jersey-rota/internal/model"
	"github.com/deppfellow/jersey-rota/internal/repository"
	"github.com/deppfellow/jersey-rota/internal/server"
)

type WashService struct {
	server *server.Server
	repo   repository.WashRepository
}

func NewWashService(s *server.Server, repo repository.WashRepository) *WashService {
	return &WashService{server: s, repo: repo}
}

// CreateWash records a wash for an existing player. An unknown player is
// rejected by the store and surfaces as a 400 through sqlerr.
func (s *WashService) CreateWash(ctx context.Context, payload *model.CreateWashPayload) (*model.JerseyWash, error) {
	wash, err := s.repo.CreateWash(ctx, payload.PlayerID)
	if err != nil {
		return nil, err
	}

	s.server.Logger.Debug().
		Int64("wash_id", wash.ID).
		Int64("player_id", wash.PlayerID).
		Msg("jersey wash recorded")
	return wash, nil
}

func (s *WashService) ListWashes(ctx context.Context, payload *model.ListWashesPayload) ([]model.JerseyWash, error) {
	return s.repo.ListWashes(ctx, payload.PlayerID)
}
