package router

import (
	"github.com/deppfellow/jersey-rota/internal/handler"
	"github.com/deppfellow/jersey-rota/static"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that are not part of the API:
// health, the docs UI and its static assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.StaticFS("/static", static.FS)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
