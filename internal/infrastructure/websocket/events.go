package websocket

// Server-to-client event types
const (
	EventMessageReceived  = "message_received"
	EventMessageSnapshot  = "message_snapshot"
	EventMessagesRead     = "messages_read"
	EventMessageReaction  = "message_reaction"
	EventThreadUpdated    = "thread_updated"
	EventNotifications    = "notifications"
	EventPartnerChatReady = "partner_chat_ready"
	EventError            = "error"
	EventPong             = "pong"
)

// Client-to-server command types
const (
	CommandPing            = "ping"
	CommandSubscribeChat   = "subscribe_chat"
	CommandUnsubscribeChat = "unsubscribe_chat"
)

// Event is the envelope for every server-to-client frame.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// Command is the envelope for client-to-server frames.
type Command struct {
	Type string `json:"type"`
	// OtherUserID scopes subscribe/unsubscribe commands to a counterpart.
	OtherUserID string `json:"other_user_id,omitempty"`
}
