// Package realtime pushes document refresh events to websocket subscribers
package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Event is the JSON frame sent to subscribers
type Event struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	DocumentID uint   `json:"document_id"`
}

// Hub tracks websocket subscribers per document
type Hub struct {
	mu       sync.RWMutex
	clients  map[uint]map[*websocket.Conn]bool
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewHub(allowedOrigins []string, log *zap.Logger) *Hub {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = true
	}

	return &Hub{
		clients: make(map[uint]map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return origins[r.Header.Get("Origin")]
			},
		},
		log: log,
	}
}

// Subscribers returns how many connections are watching documentID
func (h *Hub) Subscribers(documentID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[documentID])
}

// DocumentChanged tells every subscriber of documentID to refetch it
func (h *Hub) DocumentChanged(documentID uint, message string) {
	h.mu.RLock()
	clients, exists := h.clients[documentID]
	if !exists || len(clients) == 0 {
		h.mu.RUnlock()
		return
	}

	// Copy so the lock is not held while writing
	conns := make([]*websocket.Conn, 0, len(clients))
	for conn := range clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	event := Event{Type: "refresh", Message: message, DocumentID: documentID}
	for _, conn := range conns {
		if err := h.write(conn, event); err != nil {
			h.log.Warn("Failed to broadcast refresh",
				zap.Uint("document_id", documentID),
				zap.Error(err),
			)
			h.unregister(documentID, conn)
			conn.Close()
		}
	}
}

// The gorilla connection supports one concurrent writer; broadcasts and
// pings share it under the hub lock.
func (h *Hub) write(conn *websocket.Conn, v interface{}) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}

func (h *Hub) ping(conn *websocket.Conn) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.PingMessage, nil)
}

func (h *Hub) register(documentID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[documentID] == nil {
		h.clients[documentID] = make(map[*websocket.Conn]bool)
	}
	h.clients[documentID][conn] = true
}

func (h *Hub) unregister(documentID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, exists := h.clients[documentID]; exists {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(h.clients, documentID)
		}
	}
}

// Serve upgrades the request and keeps the connection subscribed to
// documentID until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, documentID uint) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	h.register(documentID, conn)

	done := make(chan struct{})
	defer func() {
		close(done)
		h.unregister(documentID, conn)
		conn.Close()
		h.log.Debug("WebSocket connection closed", zap.Uint("document_id", documentID))
	}()

	err = h.write(conn, Event{
		Type:       "connected",
		Message:    "WebSocket connection established",
		DocumentID: documentID,
	})
	if err != nil {
		h.log.Warn("Failed to send welcome message", zap.Error(err))
		return
	}

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := h.ping(conn); err != nil {
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("WebSocket error", zap.Uint("document_id", documentID), zap.Error(err))
			}
			return
		}
	}
}
