package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chatstack/chatcore/internal/provider"
	"github.com/chatstack/chatcore/internal/service"
)

// Chat handles a non-streaming chat turn.
// POST /v1/chat
func (h *Handler) Chat(c echo.Context) error {
	var req service.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "content is required"})
	}

	ctx := c.Request().Context()
	resp, err := h.service.Chat(ctx, &req)
	if err != nil {
		return chatError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// ChatStream handles a streaming chat turn over SSE. Each delta is sent as
// a data event; the final event carries the committed response.
// POST /v1/chat/stream
func (h *Handler) ChatStream(c echo.Context) error {
	var req service.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "content is required"})
	}

	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	ctx := c.Request().Context()
	resp, err := h.service.ChatStream(ctx, &req, func(delta string) error {
		payload, err := json.Marshal(map[string]string{"delta": delta})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(c.Response(), "data: %s\n\n", payload); err != nil {
			return err
		}
		c.Response().Flush()
		return nil
	})
	if err != nil {
		// Headers are already sent; report the failure in-stream.
		payload, _ := json.Marshal(map[string]string{"error": userMessage(err)})
		fmt.Fprintf(c.Response(), "data: %s\n\n", payload)
		c.Response().Flush()
		return nil
	}

	payload, _ := json.Marshal(map[string]interface{}{"done": true, "response": resp})
	fmt.Fprintf(c.Response(), "data: %s\n\n", payload)
	fmt.Fprint(c.Response(), "data: [DONE]\n\n")
	c.Response().Flush()
	return nil
}

// chatError maps service failures to HTTP responses.
func chatError(c echo.Context, err error) error {
	var cfgErr *provider.ConfigurationError
	if errors.As(err, &cfgErr) {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": userMessage(err)})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// userMessage renders a failure for end users.
func userMessage(err error) string {
	var cfgErr *provider.ConfigurationError
	if errors.As(err, &cfgErr) {
		return "no LLM backend available: " + cfgErr.Error()
	}
	return err.Error()
}
