package hub

// Event is the wire envelope for every real-time push.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Events emitted by the hub.
const (
	EventUserOnline   = "user_online"
	EventUserOffline  = "user_offline"
	EventUserTyping   = "user_typing"
	EventNewMessage   = "new_message"
	EventMessageSent  = "message_sent"
	EventMessagesRead = "messages_read"
	EventAuthError    = "auth_error"
)

// TypingPayload is the user_typing event body.
type TypingPayload struct {
	SenderID string `json:"senderId"`
	IsTyping bool   `json:"isTyping"`
}

// ReadReceiptPayload is the messages_read event body.
type ReadReceiptPayload struct {
	ReadBy      string `json:"readBy"`
	ChatPartner string `json:"chatPartner"`
}
