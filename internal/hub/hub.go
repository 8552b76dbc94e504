package hub

import (
	"sync"

	"github.com/Adilzhan2201/Special_Network/pkg/logger"
)

// Conn is the slice of a websocket connection the hub needs. Satisfied
// by *websocket.Conn.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Hub tracks which users currently have a live, authenticated
// connection and pushes events to them. Delivery is best-effort: an
// event for a user with no registered connection is dropped, durable
// state lives in the stores.
type Hub struct {
	mu sync.RWMutex

	// conns holds every open connection; the value is the user it is
	// registered under, or "" while still anonymous.
	conns map[Conn]string

	// clients maps a user to their current connection. Last
	// registration wins when the same user opens several.
	clients map[string]Conn
}

func NewHub() *Hub {
	return &Hub{
		conns:   make(map[Conn]string),
		clients: make(map[string]Conn),
	}
}

// Add tracks a newly opened, not yet authenticated connection.
func (h *Hub) Add(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = ""
}

// Authenticate registers conn under userID and announces the user to
// everyone else. A previous connection for the same user is displaced
// but left open; its Remove will no longer own the registration. If the
// connection was already registered under a different user, that
// registration is cleared first so the old identity does not linger as
// online.
func (h *Hub) Authenticate(userID string, conn Conn) {
	h.mu.Lock()
	prev := h.conns[conn]
	if prev == userID {
		h.mu.Unlock()
		return
	}
	releasedPrev := prev != "" && h.clients[prev] == conn
	if releasedPrev {
		delete(h.clients, prev)
	}
	h.conns[conn] = userID
	h.clients[userID] = conn
	h.mu.Unlock()

	if releasedPrev {
		h.broadcastExcept(conn, Event{Event: EventUserOffline, Data: prev})
	}
	h.broadcastExcept(conn, Event{Event: EventUserOnline, Data: userID})
	logger.Log.WithField("userID", userID).Info("User authenticated on websocket")
}

// Remove drops a connection. The user registration is cleared only if
// it still points at this connection, so a newer connection for the
// same user survives a stale disconnect. user_offline is broadcast
// exactly once, and only when a registration was actually cleared.
func (h *Hub) Remove(conn Conn) {
	h.mu.Lock()
	userID, tracked := h.conns[conn]
	if !tracked {
		h.mu.Unlock()
		return
	}
	delete(h.conns, conn)

	ownedRegistration := userID != "" && h.clients[userID] == conn
	if ownedRegistration {
		delete(h.clients, userID)
	}
	h.mu.Unlock()

	if ownedRegistration {
		h.broadcastExcept(conn, Event{Event: EventUserOffline, Data: userID})
		logger.Log.WithField("userID", userID).Info("User disconnected from websocket")
	}
}

// Notify delivers an event to userID's registered connection. Returns
// false when the user is not reachable; that is not an error.
func (h *Hub) Notify(userID, event string, data interface{}) bool {
	h.mu.RLock()
	conn, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	if err := conn.WriteJSON(Event{Event: event, Data: data}); err != nil {
		logger.Log.WithField("userID", userID).Debugf("Dropped event %s: %v", event, err)
		return false
	}
	return true
}

// Relay forwards an ephemeral event (typing indicators) to toUser if
// they are reachable. Never persisted.
func (h *Hub) Relay(fromUser, toUser, event string, data interface{}) {
	_ = fromUser
	h.Notify(toUser, event, data)
}

// IsOnline reports whether the user has a registered connection.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// broadcastExcept writes the event to every open connection but one,
// authenticated or not.
func (h *Hub) broadcastExcept(skip Conn, event Event) {
	h.mu.RLock()
	targets := make([]Conn, 0, len(h.conns))
	for conn := range h.conns {
		if conn != skip {
			targets = append(targets, conn)
		}
	}
	h.mu.RUnlock()

	for _, conn := range targets {
		_ = conn.WriteJSON(event)
	}
}
