package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// GetSessionMessages retrieves messages for a session. With ?view=model
// the provider-native shape is returned instead of the role/content view.
// GET /v1/sessions/:session_id/messages
func (h *Handler) GetSessionMessages(c echo.Context) error {
	sessionID := c.Param("session_id")
	ctx := c.Request().Context()

	if c.QueryParam("view") == "model" {
		messages, err := h.service.GetModelMessages(ctx, sessionID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"messages": messages})
	}

	messages, err := h.service.GetMessages(ctx, sessionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"messages": messages})
}

// ClearSession deletes a session's history. Clearing a nonexistent
// session succeeds.
// DELETE /v1/sessions/:session_id
func (h *Handler) ClearSession(c echo.Context) error {
	sessionID := c.Param("session_id")
	ctx := c.Request().Context()

	if err := h.service.ClearSession(ctx, sessionID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
