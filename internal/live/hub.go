package live

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Hub accepts websocket connections and tracks the open sessions.
type Hub struct {
	logger   *slog.Logger
	render   Renderer
	rec      Recorder
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*Session
}

// HubOption configures a Hub.
type HubOption func(*Hub)

func WithLogger(l *slog.Logger) HubOption { return func(h *Hub) { h.logger = l } }
func WithRenderer(r Renderer) HubOption   { return func(h *Hub) { h.render = r } }
func WithRecorder(r Recorder) HubOption   { return func(h *Hub) { h.rec = r } }

// NewHub returns a Hub. Cross-origin upgrades are refused.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		logger:   slog.Default(),
		sessions: make(map[string]*Session),
		upgrader: websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP upgrades the request and runs a session until it ends.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("live.upgrade", "err", err)
		return
	}
	s := newSession(uuid.NewString(), conn, h.logger, h.render, h.rec)
	h.add(s)
	defer h.remove(s)

	s.logger.Debug("live.open")
	if err := s.Run(r.Context()); err != nil {
		s.logger.Warn("live.closed", "err", err)
		return
	}
	s.logger.Debug("live.closed")
}

func (h *Hub) add(s *Session) {
	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()
}

func (h *Hub) remove(s *Session) {
	h.mu.Lock()
	delete(h.sessions, s.id)
	h.mu.Unlock()
}

// Len returns the number of open sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Broadcast queues c on every session and returns how many accepted it.
func (h *Hub) Broadcast(c Command) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, s := range h.sessions {
		if s.Notify(c) {
			n++
		}
	}
	return n
}

// Reload asks every open tab to reload. Content watchers call it.
func (h *Hub) Reload() {
	n := h.Broadcast(Command{Type: CommandReload})
	h.logger.Info("live.reload", "sessions", n)
}

// Close ends every session.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.sessions {
		s.stop()
	}
}
