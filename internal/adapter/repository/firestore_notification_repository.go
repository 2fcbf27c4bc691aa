package repository

import (
	"context"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"fitlink/internal/domain/entity"
	"fitlink/internal/domain/repository"
	"fitlink/pkg/errors"
	"fitlink/pkg/logger"
)

type firestoreNotificationRepository struct {
	client *firestore.Client
}

func NewFirestoreNotificationRepository(client *firestore.Client) repository.NotificationRepository {
	return &firestoreNotificationRepository{
		client: client,
	}
}

func (r *firestoreNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}

	now := time.Now()
	notification.CreatedAt = now
	notification.UpdatedAt = now

	_, err := r.client.Collection("notifications").Doc(notification.ID).Set(ctx, notification)
	if err != nil {
		return errors.Internal("Failed to create notification", err)
	}

	return nil
}

func (r *firestoreNotificationRepository) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	doc, err := r.client.Collection("notifications").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Notification", err)
		}
		return nil, errors.Internal("Failed to get notification", err)
	}

	var notification entity.Notification
	if err := doc.DataTo(&notification); err != nil {
		return nil, errors.Internal("Failed to parse notification data", err)
	}

	return &notification, nil
}

func (r *firestoreNotificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]*entity.Notification, error) {
	query := r.client.Collection("notifications").
		Where("recipientId", "==", recipientID).
		OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	var notifications []*entity.Notification

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while fetching notifications for user %s: %v", recipientID, err)
			return nil, errors.Internal("Failed to fetch notifications", err)
		}

		var notification entity.Notification
		if err := doc.DataTo(&notification); err != nil {
			logger.Warn("Skipping malformed notification document %s: %v", doc.Ref.ID, err)
			continue
		}
		notifications = append(notifications, &notification)
	}

	return notifications, nil
}

func (r *firestoreNotificationRepository) Update(ctx context.Context, notification *entity.Notification) error {
	notification.UpdatedAt = time.Now()

	_, err := r.client.Collection("notifications").Doc(notification.ID).Set(ctx, notification)
	if err != nil {
		return errors.Internal("Failed to update notification", err)
	}

	return nil
}

func (r *firestoreNotificationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("notifications").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete notification", err)
	}

	return nil
}

func (r *firestoreNotificationRepository) FindPending(ctx context.Context, nType, senderID, recipientID, workoutID string) (*entity.Notification, error) {
	query := r.client.Collection("notifications").
		Where("type", "==", nType).
		Where("senderId", "==", senderID).
		Where("recipientId", "==", recipientID).
		Where("status", "==", entity.NotificationStatusPending).
		Where("workoutId", "==", workoutID)

	iter := query.Limit(1).Documents(ctx)
	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Pending notification", nil)
		}
		return nil, errors.Internal("Failed to query pending notifications", err)
	}

	var notification entity.Notification
	if err := doc.DataTo(&notification); err != nil {
		return nil, errors.Internal("Failed to parse notification data", err)
	}

	return &notification, nil
}

func (r *firestoreNotificationRepository) CountByRecipientAndStatus(ctx context.Context, recipientID, status string) (int, error) {
	docs, err := r.client.Collection("notifications").
		Where("recipientId", "==", recipientID).
		Where("status", "==", status).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count notifications", err)
	}

	return len(docs), nil
}

func (r *firestoreNotificationRepository) ListenToNotifications(ctx context.Context, recipientID string, fn repository.NotificationSnapshotFunc) (repository.UnsubscribeFunc, error) {
	listenCtx, cancel := context.WithCancel(ctx)

	query := r.client.Collection("notifications").
		Where("recipientId", "==", recipientID).
		OrderBy("createdAt", firestore.Desc)
	snapshots := query.Snapshots(listenCtx)

	go func() {
		defer snapshots.Stop()
		for {
			snapshot, err := snapshots.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled {
					return
				}
				logger.Error("Notification listener for user %s stopped: %v", recipientID, err)
				return
			}

			docs, err := snapshot.Documents.GetAll()
			if err != nil {
				logger.Error("Failed to read notification snapshot for user %s: %v", recipientID, err)
				continue
			}

			notifications := make([]*entity.Notification, 0, len(docs))
			for _, doc := range docs {
				var notification entity.Notification
				if err := doc.DataTo(&notification); err != nil {
					logger.Warn("Skipping malformed notification document %s: %v", doc.Ref.ID, err)
					continue
				}
				notifications = append(notifications, &notification)
			}

			fn(notifications)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(cancel)
	}, nil
}
