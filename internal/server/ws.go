package server

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/hailam/chessboard/internal/session"
)

type MessageType string

const (
	MessageTypeSelect MessageType = "select"
	MessageTypeMove   MessageType = "move"
	MessageTypeState  MessageType = "state"
	MessageTypeError  MessageType = "error"
)

// Message is the envelope for every WebSocket frame.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func errUnknownMessage(t MessageType) error {
	return fmt.Errorf("unknown message type %q", t)
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func stateMessage(st session.GameState) Message {
	payload, _ := json.Marshal(st)
	return Message{Type: MessageTypeState, Payload: payload}
}

func errorMessage(err error) Message {
	payload, _ := json.Marshal(errorPayload{Message: err.Error()})
	return Message{Type: MessageTypeError, Payload: payload}
}

// client serializes writes to one connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// hub tracks the connections watching each game.
type hub struct {
	mu    sync.RWMutex
	games map[string]map[*client]struct{}
}

func newHub() *hub {
	return &hub{games: make(map[string]map[*client]struct{})}
}

func (h *hub) register(gameID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.games[gameID] == nil {
		h.games[gameID] = make(map[*client]struct{})
	}
	h.games[gameID][c] = struct{}{}
}

func (h *hub) unregister(gameID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.games[gameID], c)
	if len(h.games[gameID]) == 0 {
		delete(h.games, gameID)
	}
}

func (h *hub) clients(gameID string) []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*client, 0, len(h.games[gameID]))
	for c := range h.games[gameID] {
		out = append(out, c)
	}
	return out
}

func (h *hub) broadcast(gameID string, msg Message) {
	for _, c := range h.clients(gameID) {
		if err := c.send(msg); err != nil {
			log.Printf("[WS] write to game %s: %v", gameID, err)
		}
	}
}

// closeGame drops every connection of a deleted game.
func (h *hub) closeGame(gameID string) {
	for _, c := range h.clients(gameID) {
		c.conn.Close()
	}
	h.mu.Lock()
	delete(h.games, gameID)
	h.mu.Unlock()
}

func (s *Server) handleConn(conn *websocket.Conn) {
	gameID := conn.Params("id")
	c := &client{conn: conn}

	g, err := s.games.Get(gameID)
	if err != nil {
		c.send(errorMessage(err))
		conn.Close()
		return
	}

	s.hub.register(gameID, c)
	defer s.hub.unregister(gameID, c)
	log.Printf("[WS] client joined game %s", gameID)

	if err := c.send(stateMessage(g.State())); err != nil {
		return
	}

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[WS] client left game %s: %v", gameID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.send(errorMessage(fmt.Errorf("invalid message: %w", err)))
			continue
		}

		st, err := applyMessage(g, msg)
		if err != nil {
			c.send(errorMessage(err))
			continue
		}
		if msg.Type == MessageTypeState {
			c.send(stateMessage(st))
			continue
		}
		s.hub.broadcast(gameID, stateMessage(st))
	}
}
