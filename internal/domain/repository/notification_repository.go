package repository

import (
	"context"

	"fitlink/internal/domain/entity"
)

// NotificationSnapshotFunc receives a recipient's full notification sequence,
// descending by creation time, on every change.
type NotificationSnapshotFunc func(notifications []*entity.Notification)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByID(ctx context.Context, id string) (*entity.Notification, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]*entity.Notification, error)
	Update(ctx context.Context, notification *entity.Notification) error
	Delete(ctx context.Context, id string) error

	// FindPending returns the first pending notification matching the given
	// type, sender, recipient and workout triple, or NotFound.
	FindPending(ctx context.Context, nType, senderID, recipientID, workoutID string) (*entity.Notification, error)

	CountByRecipientAndStatus(ctx context.Context, recipientID, status string) (int, error)

	ListenToNotifications(ctx context.Context, recipientID string, fn NotificationSnapshotFunc) (UnsubscribeFunc, error)
}
