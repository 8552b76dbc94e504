package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/Adilzhan2201/Special_Network/internal/hub"
	jwtutil "github.com/Adilzhan2201/Special_Network/pkg/jwt"
	"github.com/Adilzhan2201/Special_Network/pkg/logger"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// safeConn serializes writes; the hub and the read loop both push to
// the same connection and gorilla connections allow one writer at a time.
type safeConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *safeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *safeConn) Close() error {
	return c.conn.Close()
}

// WSHandler owns the websocket endpoint. A connection starts anonymous
// and becomes authenticated only after presenting a valid token over
// the live channel.
type WSHandler struct {
	Hub       *hub.Hub
	JWTSecret string
}

func NewWSHandler(h *hub.Hub, jwtSecret string) *WSHandler {
	return &WSHandler{Hub: h, JWTSecret: jwtSecret}
}

// inbound is the envelope clients send over the socket.
type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ServeWS upgrades the connection and runs its read loop.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	raw, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warnf("WebSocket upgrade failed: %v", err)
		return
	}

	conn := &safeConn{conn: raw}
	h.Hub.Add(conn)
	defer func() {
		h.Hub.Remove(conn)
		conn.Close()
	}()

	// Set once authentication succeeds; messages before that are
	// limited to the authenticate event.
	var userID string

	for {
		var msg inbound
		if err := raw.ReadJSON(&msg); err != nil {
			break // client disconnected
		}

		switch msg.Event {
		case "authenticate":
			var payload struct {
				Token string `json:"token"`
			}
			if err := json.Unmarshal(msg.Data, &payload); err != nil || payload.Token == "" {
				// Also accept a bare token string.
				var token string
				if err := json.Unmarshal(msg.Data, &token); err != nil || token == "" {
					conn.WriteJSON(hub.Event{Event: hub.EventAuthError, Data: "Invalid token"})
					continue
				}
				payload.Token = token
			}

			claims, err := jwtutil.ValidateToken(payload.Token, h.JWTSecret)
			if err != nil {
				// Keep the connection open; it just stays anonymous.
				conn.WriteJSON(hub.Event{Event: hub.EventAuthError, Data: "Invalid token"})
				continue
			}

			userID = claims.UserID
			h.Hub.Authenticate(userID, conn)

		case "typing":
			if userID == "" {
				continue
			}
			var payload struct {
				ReceiverID string `json:"receiverId"`
				IsTyping   bool   `json:"isTyping"`
			}
			if err := json.Unmarshal(msg.Data, &payload); err != nil {
				continue
			}
			h.Hub.Relay(userID, payload.ReceiverID, hub.EventUserTyping, hub.TypingPayload{
				SenderID: userID,
				IsTyping: payload.IsTyping,
			})
		}
	}
}
