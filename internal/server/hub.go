package server

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/lox/wordstop/internal/engine"
	"github.com/lox/wordstop/internal/game"
)

// Hub fans match events out to spectator connections. It is an
// engine.Monitor, so it can be attached to any runner.
type Hub struct {
	logger      zerolog.Logger
	mu          sync.RWMutex
	connections map[*Connection]bool
}

// NewHub creates an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger:      logger.With().Str("component", "hub").Logger(),
		connections: make(map[*Connection]bool),
	}
}

// Add registers a connection.
func (h *Hub) Add(c *Connection) {
	h.mu.Lock()
	h.connections[c] = true
	total := len(h.connections)
	h.mu.Unlock()
	h.logger.Info().Int("total", total).Msg("Spectator connected")
}

// Remove unregisters a connection. Removing twice is harmless.
func (h *Hub) Remove(c *Connection) {
	h.mu.Lock()
	_, ok := h.connections[c]
	delete(h.connections, c)
	total := len(h.connections)
	h.mu.Unlock()
	if ok {
		h.logger.Info().Int("total", total).Msg("Spectator disconnected")
	}
}

// Count returns the number of connected spectators.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Broadcast sends msg to every connection following its match.
func (h *Hub) Broadcast(msg *Message) int {
	h.mu.RLock()
	targets := make([]*Connection, 0, len(h.connections))
	for conn := range h.connections {
		if conn.Follows(msg.MatchID) {
			targets = append(targets, conn)
		}
	}
	h.mu.RUnlock()

	count := 0
	for _, conn := range targets {
		if err := conn.SendMessage(msg); err == nil {
			count++
		}
	}
	h.logger.Debug().Str("match_id", msg.MatchID).Str("type", msg.Type.String()).Int("recipients", count).Msg("Broadcast")
	return count
}

// CloseAll disconnects every spectator.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.connections))
	for conn := range h.connections {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
}

// OnMatchStart implements engine.Monitor.
func (h *Hub) OnMatchStart(match game.Match) {
	h.send(MessageTypeMatchStarted, match.ID(), summarize(match))
}

// OnEvent implements engine.Monitor.
func (h *Hub) OnEvent(ev engine.Event) {
	msg, err := EventMessage(ev)
	if err != nil {
		h.logger.Error().Err(err).Str("type", ev.EventType().String()).Msg("Failed to encode event")
		return
	}
	h.Broadcast(msg)
}

// OnMatchComplete implements engine.Monitor.
func (h *Hub) OnMatchComplete(match game.Match) {
	h.send(MessageTypeMatchCompleted, match.ID(), summarize(match))
}

func (h *Hub) send(mt MessageType, matchID string, data any) {
	msg, err := NewMessage(mt, matchID, data)
	if err != nil {
		h.logger.Error().Err(err).Str("type", mt.String()).Msg("Failed to encode message")
		return
	}
	h.Broadcast(msg)
}
