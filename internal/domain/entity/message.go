package entity

import "time"

const (
	MessageTypeText   = "text"
	MessageTypeSystem = "system"
)

// MaxMessageLength bounds the free-form text content of a message.
const MaxMessageLength = 1000

type Message struct {
	ID         string    `json:"id" firestore:"id"`
	ChatID     string    `json:"chat_id" firestore:"chatId"`
	SenderID   string    `json:"sender_id" firestore:"senderId"`
	ReceiverID string    `json:"receiver_id" firestore:"receiverId"`
	Text       string    `json:"text" firestore:"text"`
	Type       string    `json:"type" firestore:"type"` // "text", "system"
	Read       bool      `json:"read" firestore:"read"`
	Reaction   string    `json:"reaction,omitempty" firestore:"reaction,omitempty"`
	ReactedBy  string    `json:"reacted_by,omitempty" firestore:"reactedBy,omitempty"`
	Timestamp  time.Time `json:"timestamp" firestore:"timestamp"`
}
