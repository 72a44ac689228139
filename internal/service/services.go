package service

import (
	"github.com/deppfellow/jersey-rota/internal/repository"
	"github.com/deppfellow/jersey-rota/internal/server"
)

type Services struct {
	Player *PlayerService
	Wash   *WashService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Player: NewPlayerService(s, repos.Player),
		Wash:   NewWashService(s, repos.Wash),
	}, nil
}
