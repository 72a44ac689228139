package handler

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/deppfellow/jersey-rota/internal/server"
	"github.com/deppfellow/jersey-rota/static"
	"github.com/labstack/echo/v4"
)

// OpenAPIHandler serves the API documentation UI. The page loads its
// renderer from a CDN and reads /static/openapi.json.
type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

// ServeOpenAPIUI writes the embedded openapi.html uncached, so doc updates
// show up immediately.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	page, err := fs.ReadFile(static.FS, "openapi.html")
	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err := c.HTMLBlob(http.StatusOK, page); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
