package entity

import "time"

const (
	NotificationTypePartnerRequest = "partner_request"
	NotificationTypeMessage        = "message"
	NotificationTypeSystem         = "system"
)

const (
	NotificationStatusPending  = "pending"
	NotificationStatusAccepted = "accepted"
	NotificationStatusDeclined = "declined"
	NotificationStatusRead     = "read"
)

type Notification struct {
	ID          string    `json:"id" firestore:"id"`
	Type        string    `json:"type" firestore:"type"` // "partner_request", "message", "system"
	SenderID    string    `json:"sender_id" firestore:"senderId"`
	SenderName  string    `json:"sender_name" firestore:"senderName"`
	RecipientID string    `json:"recipient_id" firestore:"recipientId"`
	Status      string    `json:"status" firestore:"status"` // "pending", "accepted", "declined", "read"
	WorkoutID   string    `json:"workout_id,omitempty" firestore:"workoutId"`
	WorkoutName string    `json:"workout_name,omitempty" firestore:"workoutName,omitempty"`
	Day         string    `json:"day,omitempty" firestore:"day,omitempty"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}

// IsTerminal reports whether the notification has left the pending state.
// All non-pending statuses are terminal.
func (n *Notification) IsTerminal() bool {
	return n.Status != NotificationStatusPending
}
