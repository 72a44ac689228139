// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"github.com/deppfellow/jersey-rota/internal/handler"
	"github.com/deppfellow/jersey-rota/internal/middleware"
	"github.com/deppfellow/jersey-rota/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with the global middleware chain,
// the global error handler and every route.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// Order matters: the context enhancer needs the request id and the New
	// Relic transaction, and the request logger needs the enhanced logger.
	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerAPIRoutes(router, h)

	return router
}
