package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// WSMessage represents a WebSocket message.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// StatsPayload mirrors the session counters for clients.
type StatsPayload struct {
	Scheme         string  `json:"scheme"`
	EbN0DB         float64 `json:"ebN0Db"`
	Symbols        int64   `json:"symbols"`
	Bits           int64   `json:"bits"`
	BitErrors      int64   `json:"bitErrors"`
	BER            float64 `json:"ber"`
	TheoreticalBER float64 `json:"theoreticalBer"`
}

// SamplePoint is one received symbol for scatter displays.
type SamplePoint struct {
	I      float64 `json:"i"`
	Q      float64 `json:"q"`
	TxBits string  `json:"txBits"`
	RxBits string  `json:"rxBits"`
	Err    bool    `json:"err"`
}

// UpdatePayload carries the outcome of one simulation step.
type UpdatePayload struct {
	Stats   StatsPayload  `json:"stats"`
	Samples []SamplePoint `json:"samples"`
}

// WSHub manages WebSocket connections.
type WSHub struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
	log     *zap.Logger
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub(log *zap.Logger) *WSHub {
	return &WSHub{
		clients: make(map[*websocket.Conn]bool),
		log:     log,
	}
}

// AddClient registers a new WebSocket connection.
func (h *WSHub) AddClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	h.log.Info("websocket client connected", zap.Int("total", len(h.clients)))
}

// RemoveClient removes a WebSocket connection.
func (h *WSHub) RemoveClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
	h.log.Info("websocket client disconnected", zap.Int("remaining", len(h.clients)))
}

// ClientCount returns the number of connected clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to all connected clients.
func (h *WSHub) Broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("websocket marshal failed", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.clients {
		err := conn.WriteMessage(websocket.TextMessage, data)
		if err != nil {
			h.log.Warn("websocket write failed", zap.Error(err))
			go h.RemoveClient(conn)
		}
	}
}

// BroadcastUpdate pushes fresh samples and counters to all clients.
func (h *WSHub) BroadcastUpdate(payload UpdatePayload) {
	h.Broadcast(WSMessage{
		Type:    "update",
		Payload: payload,
	})
}

// BroadcastStatus sends a status update to all clients.
func (h *WSHub) BroadcastStatus(status, message string) {
	h.Broadcast(WSMessage{
		Type: "status",
		Payload: map[string]string{
			"status":  status,
			"message": message,
		},
	})
}
