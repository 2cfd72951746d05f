package services

import (
	"log"
	"sync"
	"time"

	"nigraan/internal/metrics"
	"nigraan/internal/models"
)

// Channel names clients can subscribe to.
const (
	ChannelSensorReadings = "sensorReadings"
	ChannelSafetyAlerts   = "safetyAlerts"
	ChannelSafetyAlert    = "safetyAlert"
	ChannelAuthenticated  = "authenticated"
)

// Envelope is the message frame sent to WebSocket clients.
type Envelope struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// ClientConn is the hub-facing handle for one realtime connection. The
// transport layer drains Send; the hub never blocks on a slow client.
type ClientConn struct {
	ID   string
	Send chan Envelope
}

// connState is the hub-owned view of a connection: its subscription set and
// the principal attached by an authenticate command.
type connState struct {
	client        *ClientConn
	subscriptions map[string]bool
	principal     *models.Principal
}

// Hub tracks active realtime connections and fans payloads out to the ones
// subscribed to a channel. Commands referencing a connection that already
// disconnected are silently ignored.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*connState
}

// NewHub creates an empty connection registry.
func NewHub() *Hub {
	return &Hub{conns: make(map[string]*connState)}
}

// Register adds a connection with the default subscriptions
// (sensorReadings and safetyAlerts on).
func (h *Hub) Register(client *ClientConn) {
	h.mu.Lock()
	h.conns[client.ID] = &connState{
		client: client,
		subscriptions: map[string]bool{
			ChannelSensorReadings: true,
			ChannelSafetyAlerts:   true,
		},
	}
	total := len(h.conns)
	h.mu.Unlock()

	metrics.SetConnectedClients(total)
	log.Printf("[WS] client connected: %s (total: %d)", client.ID, total)
}

// Unregister removes a connection and closes its send channel. Idempotent.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	cs, ok := h.conns[id]
	if ok {
		delete(h.conns, id)
		close(cs.client.Send)
	}
	total := len(h.conns)
	h.mu.Unlock()

	if ok {
		metrics.SetConnectedClients(total)
		log.Printf("[WS] client disconnected: %s (total: %d)", id, total)
	}
}

// Subscribe adds a channel to a connection's subscription set.
func (h *Hub) Subscribe(id, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cs, ok := h.conns[id]; ok {
		cs.subscriptions[channel] = true
	}
}

// Unsubscribe removes a channel from a connection's subscription set.
func (h *Hub) Unsubscribe(id, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cs, ok := h.conns[id]; ok {
		delete(cs.subscriptions, channel)
	}
}

// Authenticate attaches a principal to a connection and acknowledges on the
// authenticated channel. Identity verification happens upstream; the hub
// only labels the connection.
func (h *Hub) Authenticate(id string, principal models.Principal) {
	h.mu.Lock()
	cs, ok := h.conns[id]
	if ok {
		cs.principal = &principal
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	h.send(cs.client, Envelope{
		Type:      ChannelAuthenticated,
		Timestamp: time.Now(),
		Data:      map[string]bool{"success": true},
	})
	log.Printf("[WS] client %s authenticated as %s", id, principal.Name)
}

// Principal returns the identity attached to a connection, if any.
func (h *Hub) Principal(id string) (models.Principal, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	cs, ok := h.conns[id]
	if !ok || cs.principal == nil {
		return models.Principal{}, false
	}
	return *cs.principal, true
}

// Broadcast delivers a payload to every connection subscribed to channel.
func (h *Hub) Broadcast(channel string, payload interface{}) {
	env := Envelope{
		Type:      channel,
		Timestamp: time.Now(),
		Data:      payload,
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, cs := range h.conns {
		if !cs.subscriptions[channel] {
			continue
		}
		h.send(cs.client, env)
	}
}

// send enqueues without blocking; a full client buffer drops the frame.
func (h *Hub) send(client *ClientConn, env Envelope) {
	select {
	case client.Send <- env:
	default:
	}
}

// ClientCount reports how many connections are registered.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
