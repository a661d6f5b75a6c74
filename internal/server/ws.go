package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/nutriplan/backend/internal/models"
)

const chatErrorMessage = "Protocol error: Unable to retrieve clinical response."

type chatRequest struct {
	History []models.ChatMessage `json:"history"`
	Message string               `json:"message"`
}

// handleChatSocket serves one advisory chat exchange per connection:
// the client sends its history plus the new message, the server streams
// back delta frames and a terminal done frame.
func (s *Server) handleChatSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		var req chatRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}

		fragments, err := s.deps.Gateway.StreamChatReply(c.Request.Context(), req.History, req.Message)
		if err != nil {
			slog.Warn("chat stream failed", "error", err)
			_ = conn.WriteJSON(gin.H{"type": "error", "message": chatErrorMessage})
			continue
		}
		for text := range fragments {
			if err := conn.WriteJSON(gin.H{"type": "delta", "text": text}); err != nil {
				return
			}
		}
		if err := conn.WriteJSON(gin.H{"type": "done"}); err != nil {
			return
		}
	}
}

// handleEventsSocket registers the connection with the hub and holds it
// open until the client disconnects. All traffic is server to client.
func (s *Server) handleEventsSocket(c *gin.Context) {
	session := sessionFrom(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{email: session.Email, conn: conn}
	s.hub.Register(client)
	defer s.hub.Unregister(client)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
