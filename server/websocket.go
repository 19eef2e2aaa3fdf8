package server

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/gorilla/websocket"

	"github.com/xhad/sanket/internal/models"
)

// Message is the WebSocket envelope sent to clients.
type Message struct {
	Type    string      `json:"type"`
	Content string      `json:"content"`
	Data    interface{} `json:"data,omitempty"`
}

// inboundMessage is what clients send:
// {"type":"chat","content":"<question>","data":{"bill_text":"...","language":"English"}}.
type inboundMessage struct {
	Type    string          `json:"type"`
	Content string          `json:"content"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type chatContext struct {
	BillText string `json:"bill_text"`
	Language string `json:"language"`
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" ||
				slices.Contains(s.config.AllowedOrigins, "*") ||
				slices.Contains(s.config.AllowedOrigins, origin)
		},
	}
}

// handleWebSocket answers chat messages one at a time. The bill text from the
// most recent message that carried one is reused for follow-up questions.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	var session chatContext
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("error reading message", "error", err)
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			s.sendMessage(conn, "error", "Invalid message format.")
			continue
		}
		if len(msg.Data) > 0 && string(msg.Data) != "null" {
			var update chatContext
			if err := json.Unmarshal(msg.Data, &update); err != nil {
				s.sendMessage(conn, "error", "Invalid message data.")
				continue
			}
			if update.BillText != "" {
				session.BillText = update.BillText
			}
			if update.Language != "" {
				session.Language = update.Language
			}
		}

		if msg.Type != "chat" {
			s.sendMessage(conn, "error", "Unsupported message type.")
			continue
		}
		if session.BillText == "" || msg.Content == "" {
			s.sendMessage(conn, "error", "Missing context/query")
			continue
		}

		s.sendMessage(conn, "status", "Thinking...")
		answer := s.config.Analyst.Ask(r.Context(), session.BillText, msg.Content, models.ParseLanguage(session.Language))
		s.sendMessage(conn, "response", answer)
	}
}

func (s *Server) sendMessage(conn *websocket.Conn, msgType string, content string) {
	msg := Message{
		Type:    msgType,
		Content: content,
	}
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Warn("error sending message", "error", err)
	}
}
