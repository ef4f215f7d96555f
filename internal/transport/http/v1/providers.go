package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListProviders returns health snapshots for every known provider.
// GET /v1/providers
func (h *Handler) ListProviders(c echo.Context) error {
	ctx := c.Request().Context()
	statuses := h.service.ProviderHealthAll(ctx)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"providers": statuses,
	})
}

// ProviderHealth probes a single provider.
// GET /v1/providers/:name/health
func (h *Handler) ProviderHealth(c echo.Context) error {
	name := c.Param("name")
	ctx := c.Request().Context()

	status, err := h.service.ProviderHealth(ctx, name)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, status)
}
