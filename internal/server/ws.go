package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"hrchat/internal/chat"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type    string `json:"type"` // "question"
	UserID  string `json:"user_id,omitempty"`
	Content string `json:"content"`
	Limit   int    `json:"limit,omitempty"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type    string        `json:"type"` // "answer" or "error"
	Content string        `json:"content"`
	Sources []chat.Source `json:"sources,omitempty"`
	Meta    *chat.Meta    `json:"meta,omitempty"`
}

// handleWebSocket runs a chat session over one connection. Conversation
// history lives with the connection and is replayed into each query.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	org := s.orgID(r)
	var history []chat.Message

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.sendWSError(conn, "invalid message format")
			continue
		}

		if req.Type != "" && req.Type != "question" {
			s.sendWSError(conn, "unknown message type: "+req.Type)
			continue
		}

		resp, err := s.engine.Query(r.Context(), chat.QueryRequest{
			OrgID:    org,
			UserID:   req.UserID,
			Question: req.Content,
			Limit:    req.Limit,
			History:  history,
		})
		if err != nil {
			if errors.Is(err, chat.ErrEmptyQuestion) || errors.Is(err, chat.ErrQuestionTooLong) {
				s.sendWSError(conn, err.Error())
			} else {
				log.Printf("server: websocket query: %v", err)
				s.sendWSError(conn, "failed to answer question")
			}
			continue
		}

		history = append(history,
			chat.Message{Role: "user", Content: req.Content},
			chat.Message{Role: "assistant", Content: resp.Answer},
		)

		out := wsResponse{
			Type:    "answer",
			Content: resp.Answer,
			Sources: resp.Sources,
			Meta:    &resp.Meta,
		}
		if err := conn.WriteJSON(out); err != nil {
			log.Printf("server: websocket write: %v", err)
			return
		}
	}
}

func (s *Server) sendWSError(conn *websocket.Conn, message string) {
	resp := wsResponse{Type: "error", Content: message}
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("server: websocket write error: %v", err)
	}
}
