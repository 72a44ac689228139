package handler

import (
	"net/http"

	"github.com/deppfellow/jersey-rota/internal/model"
	"github.com/deppfellow/jersey-rota/internal/server"
	"github.com/deppfellow/jersey-rota/internal/service"
	"github.com/labstack/echo/v4"
)

// WashHandler serves /api/washes.
type WashHandler struct {
	Handler
	washService *service.WashService
}

func NewWashHandler(s *server.Server, washService *service.WashService) *WashHandler {
	return &WashHandler{
		Handler:     NewHandler(s),
		washService: washService,
	}
}

// ListWashes handles GET /api/washes, optionally filtered by ?player_id=.
func (h *WashHandler) ListWashes(c echo.Context) error {
	return Handle(
		h.Handler,
		func(c echo.Context, payload *model.ListWashesPayload) ([]model.JerseyWash, error) {
			return h.washService.ListWashes(c.Request().Context(), payload)
		},
		http.StatusOK,
		&model.ListWashesPayload{},
	)(c)
}

// CreateWash handles POST /api/washes.
func (h *WashHandler) CreateWash(c echo.Context) error {
	return Handle(
		h.Handler,
		func(c echo.Context, payload *model.CreateWashPayload) (*model.JerseyWash, error) {
			return h.washService.CreateWash(c.Request().Context(), payload)
		},
		http.StatusCreated,
		&model.CreateWashPayload{},
	)(c)
}
