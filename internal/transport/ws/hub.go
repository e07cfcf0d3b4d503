package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"mindpulse/internal/observability"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Server push message types
const (
	MsgAnalysisReady MessageType = "analysis_ready"
	MsgAlertCreated  MessageType = "alert_created"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub tracks live connections per user and fans messages out to them
type Hub struct {
	// user -> open connections (one per tab/device)
	conns map[string]map[*Connection]struct{}
	mu    sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	done       chan struct{}
	closeOnce  sync.Once

	metrics *observability.Metrics
	log     *slog.Logger
}

// Connection represents a WebSocket connection
type Connection struct {
	UserID string
	Send   chan []byte
}

// NewConnection creates a connection with a buffered send queue
func NewConnection(userID string) *Connection {
	return &Connection{UserID: userID, Send: make(chan []byte, 64)}
}

// BroadcastMessage is a message addressed to every connection of a user
type BroadcastMessage struct {
	UserID  string
	Message *Message
}

// NewHub creates a hub and starts its event loop
func NewHub(metrics *observability.Metrics, log *slog.Logger) *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]struct{}),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
		metrics:    metrics,
		log:        log.With(slog.String("component", "ws-hub")),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.UserID] == nil {
				h.conns[conn.UserID] = make(map[*Connection]struct{})
			}
			h.conns[conn.UserID][conn] = struct{}{}
			h.mu.Unlock()
			h.metrics.WSClients(1)
			h.log.Debug("ws_connected", slog.String("user_id", conn.UserID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.conns[conn.UserID]; ok {
				if _, ok := set[conn]; ok {
					delete(set, conn)
					close(conn.Send)
					h.metrics.WSClients(-1)
					if len(set) == 0 {
						delete(h.conns, conn.UserID)
					}
				}
			}
			h.mu.Unlock()
			h.log.Debug("ws_disconnected", slog.String("user_id", conn.UserID))

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.log.Error("ws_encode_failed", slog.Any("err", err))
				continue
			}
			h.mu.RLock()
			for conn := range h.conns[msg.UserID] {
				select {
				case conn.Send <- data:
				default:
					// slow client, drop
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for _, set := range h.conns {
				for conn := range set {
					close(conn.Send)
				}
			}
			h.conns = make(map[string]map[*Connection]struct{})
			h.mu.Unlock()
			return
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Connected reports how many connections userID has open
func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}

// NotifyUser sends a message to every connection of userID
// (implements service.Notifier). It never blocks the caller.
func (h *Hub) NotifyUser(userID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("ws_payload_encode_failed", slog.String("type", msgType), slog.Any("err", err))
		return
	}
	msg := &BroadcastMessage{
		UserID:  userID,
		Message: &Message{Type: MessageType(msgType), Payload: data},
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	default:
		h.log.Warn("ws_broadcast_queue_full", slog.String("user_id", userID), slog.String("type", msgType))
	}
}

// Close disconnects every client and stops the hub
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}
