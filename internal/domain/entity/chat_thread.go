package entity

import (
	"sort"
	"strings"
	"time"
)

// ChatThread is the denormalized summary of a one-to-one conversation.
// Exactly one thread exists per unordered participant pair; its ID is
// derived with ChatThreadID so both orderings collide to the same document.
type ChatThread struct {
	ID                   string         `json:"id" firestore:"id"`
	Participants         []string       `json:"participants" firestore:"participants"`
	LastMessage          string         `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageSenderID  string         `json:"last_message_sender_id,omitempty" firestore:"lastMessageSenderId,omitempty"`
	LastMessageTimestamp time.Time      `json:"last_message_timestamp" firestore:"lastMessageTimestamp"`
	UnreadCount          map[string]int `json:"unread_count" firestore:"unreadCount"` // Map of userID to unread count
	IsPartnerChat        bool           `json:"is_partner_chat" firestore:"isPartnerChat"`
	WorkoutID            string         `json:"workout_id,omitempty" firestore:"workoutId,omitempty"`
	CreatedAt            time.Time      `json:"created_at" firestore:"createdAt"`
	UpdatedAt            time.Time      `json:"updated_at" firestore:"updatedAt"`
}

// ChatThreadID derives the deterministic thread key for a participant pair.
// The ids are sorted lexicographically so (a, b) and (b, a) yield the same key.
func ChatThreadID(userID1, userID2 string) string {
	pair := []string{userID1, userID2}
	sort.Strings(pair)
	return strings.Join(pair, "_")
}

// OtherParticipant returns the counterpart of userID in the thread, or ""
// when userID is not a participant.
func (t *ChatThread) OtherParticipant(userID string) string {
	if !t.HasParticipant(userID) {
		return ""
	}
	for _, p := range t.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// HasParticipant reports whether userID takes part in the thread.
func (t *ChatThread) HasParticipant(userID string) bool {
	for _, p := range t.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
