// Package http provides the HTTP server for the chat core.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/chatstack/chatcore/internal/service"
	v1 "github.com/chatstack/chatcore/internal/transport/http/v1"
	"github.com/chatstack/chatcore/internal/transport/ws"
)

// NewServer creates and configures the HTTP server. It serves the chat
// API, provider status endpoints, session management and the WebSocket
// streaming endpoint.
func NewServer(svc *service.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc)
	wsServer := ws.NewServer(svc)

	// Register Routes
	v1Handler.RegisterRoutes(e)
	e.GET("/v1/chat/ws", wsServer.HandleChat)

	return e
}
