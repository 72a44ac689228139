package middleware

import (
	"github.com/deppfellow/jersey-rota/internal/server"
)

// Middlewares groups all middleware components used by the HTTP server so
// they are built once and wired in one place.
type Middlewares struct {
	// Global holds CORS, request logging, recovery, secure headers and the
	// global error handler.
	Global *GlobalMiddlewares

	// ContextEnhancer enriches each request with a request-scoped logger.
	ContextEnhancer *ContextEnhancer

	// Tracing provides New Relic middleware and custom transaction attributes.
	Tracing *TracingMiddleware
}

// NewMiddlewares constructs all middleware components. When New Relic is not
// configured the tracing middleware degrades into a no-op.
func NewMiddlewares(s *server.Server) *Middlewares {
	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, s.LoggerService.GetApplication()),
	}
}
