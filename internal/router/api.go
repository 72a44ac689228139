package router

import (
	"github.com/deppfellow/jersey-rota/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerAPIRoutes(r *echo.Echo, h *handler.Handlers) {
	api := r.Group("/api")

	players := api.Group("/players")
	players.GET("", h.Player.ListPlayers)
	players.POST("", h.Player.CreatePlayer)
	players.PUT("/:id", h.Player.UpdatePlayer)
	players.DELETE("/:id", h.Player.DeletePlayer)

	washes := api.Group("/washes")
	washes.GET("", h.Wash.ListWashes)
	washes.POST("", h.Wash.CreateWash)
}
