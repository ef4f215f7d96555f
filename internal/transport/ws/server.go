// Package ws provides WebSocket streaming chat for browser clients.
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/chatstack/chatcore/internal/service"
)

const (
	writeTimeout   = 10 * time.Second
	readTimeout    = 120 * time.Second
	maxMessageSize = 64 * 1024
)

// clientFrame is an inbound chat request frame.
type clientFrame struct {
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
	Provider  string `json:"provider,omitempty"`
	Model     string `json:"model,omitempty"`
}

// serverFrame is an outbound frame: a streamed delta, the final committed
// response, or an error.
type serverFrame struct {
	Type     string                `json:"type"` // delta, done, error
	Delta    string                `json:"delta,omitempty"`
	Response *service.ChatResponse `json:"response,omitempty"`
	Error    string                `json:"error,omitempty"`
}

// Server handles WebSocket chat connections.
type Server struct {
	service  *service.Service
	upgrader websocket.Upgrader
}

// NewServer creates a new WebSocket chat server.
func NewServer(svc *service.Service) *Server {
	return &Server{
		service: svc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Origin checks are the API gateway's job
				return true
			},
		},
	}
}

// HandleChat upgrades the connection and serves chat turns until the
// client disconnects. Turns on one connection are processed sequentially;
// deltas stream back as they arrive from the provider.
func (s *Server) HandleChat(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("Failed to upgrade WebSocket: %v", err)
		return err
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	ctx := c.Request().Context()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return nil
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			s.write(conn, serverFrame{Type: "error", Error: "invalid frame"})
			continue
		}
		if frame.Content == "" {
			s.write(conn, serverFrame{Type: "error", Error: "content is required"})
			continue
		}

		req := &service.ChatRequest{
			SessionID: frame.SessionID,
			Content:   frame.Content,
			Provider:  frame.Provider,
			Model:     frame.Model,
		}
		resp, err := s.service.ChatStream(ctx, req, func(delta string) error {
			return s.write(conn, serverFrame{Type: "delta", Delta: delta})
		})
		if err != nil {
			s.write(conn, serverFrame{Type: "error", Error: err.Error()})
			continue
		}
		if err := s.write(conn, serverFrame{Type: "done", Response: resp}); err != nil {
			return nil
		}
	}
}

// write sends one frame with a bounded deadline.
func (s *Server) write(conn *websocket.Conn, frame serverFrame) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(frame)
}
