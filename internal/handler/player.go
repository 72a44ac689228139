package handler

import (
	"net/http"

	"github.com/deppfellow/jersey-rota/internal/model"
	"github.com/deppfellow/jersey-rota/internal/server"
	"github.com/deppfellow/jersey-rota/internal/service"
	"github.com/labstack/echo/v4"
)

// PlayerHandler serves /api/players.
type PlayerHandler struct {
	Handler
	playerService *service.PlayerService
}

func NewPlayerHandler(s *server.Server, playerService *service.PlayerService) *PlayerHandler {
	return &PlayerHandler{
		Handler:       NewHandler(s),
		playerService: playerService,
	}
}

// ListPlayers handles GET /api/players.
func (h *PlayerHandler) ListPlayers(c echo.Context) error {
	return Handle(
		h.Handler,
		func(c echo.Context, _ *model.ListPlayersPayload) ([]model.Player, error) {
			return h.playerService.ListPlayers(c.Request().Context())
		},
		http.StatusOK,
		&model.ListPlayersPayload{},
	)(c)
}

// CreatePlayer handles POST /api/players.
func (h *PlayerHandler) CreatePlayer(c echo.Context) error {
	return Handle(
		h.Handler,
		func(c echo.Context, payload *model.CreatePlayerPayload) (*model.Player, error) {
			return h.playerService.CreatePlayer(c.Request().Context(), payload)
		},
		http.StatusCreated,
		&model.CreatePlayerPayload{},
	)(c)
}

// UpdatePlayer handles PUT /api/players/:id.
func (h *PlayerHandler) UpdatePlayer(c echo.Context) error {
	return Handle(
		h.Handler,
		func(c echo.Context, payload *model.UpdatePlayerPayload) (*model.Player, error) {
			return h.playerService.UpdatePlayer(c.Request().Context(), payload)
		},
		http.StatusOK,
		&model.UpdatePlayerPayload{},
	)(c)
}

// DeletePlayer handles DELETE /api/players/:id.
func (h *PlayerHandler) DeletePlayer(c echo.Context) error {
	return HandleNoContent(
		h.Handler,
		func(c echo.Context, payload *model.DeletePlayerPayload) error {
			return h.playerService.DeletePlayer(c.Request().Context(), payload)
		},
		http.StatusNoContent,
		&model.DeletePlayerPayload{},
	)(c)
}
