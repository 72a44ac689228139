package handler

import (
	"github.com/deppfellow/jersey-rota/internal/server"
	"github.com/deppfellow/jersey-rota/internal/service"
)

// Handlers groups all HTTP handlers so router setup receives one value.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Player  *PlayerHandler
	Wash    *WashHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Player:  NewPlayerHandler(s, services.Player),
		Wash:    NewWashHandler(s, services.Wash),
	}
}
