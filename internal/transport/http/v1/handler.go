// Package v1 provides the versioned HTTP handlers for the chat core.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatstack/chatcore/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Chat API
	e.POST("/v1/chat", h.Chat)
	e.POST("/v1/chat/stream", h.ChatStream)

	// Provider status API
	e.GET("/v1/providers", h.ListProviders)
	e.GET("/v1/providers/:name/health", h.ProviderHealth)

	// Session API
	e.GET("/v1/sessions/:session_id/messages", h.GetSessionMessages)
	e.DELETE("/v1/sessions/:session_id", h.ClearSession)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
