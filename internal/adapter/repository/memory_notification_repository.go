package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"fitlink/internal/domain/entity"
	"fitlink/internal/domain/repository"
	"fitlink/pkg/errors"
)

// MemoryNotificationRepository is the in-memory NotificationRepository used
// by tests and local development. Same listener discipline as
// MemoryChatRepository.
type MemoryNotificationRepository struct {
	mu            sync.RWMutex
	notifications []*entity.Notification // insertion order; reverse == descending createdAt
	subs          map[string]map[int64]*notificationSubscriber
	nextSub       int64
}

func NewMemoryNotificationRepository() *MemoryNotificationRepository {
	return &MemoryNotificationRepository{
		subs: make(map[string]map[int64]*notificationSubscriber),
	}
}

type notificationSubscriber struct {
	mu     sync.Mutex
	latest []*entity.Notification
	dirty  chan struct{}
	stop   chan struct{}
}

func newNotificationSubscriber() *notificationSubscriber {
	return &notificationSubscriber{
		dirty: make(chan struct{}, 1),
		stop:  make(chan struct{}),
	}
}

func (s *notificationSubscriber) push(snapshot []*entity.Notification) {
	s.mu.Lock()
	s.latest = snapshot
	s.mu.Unlock()

	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *notificationSubscriber) run(fn repository.NotificationSnapshotFunc) {
	for {
		select {
		case <-s.stop:
			return
		case <-s.dirty:
			s.mu.Lock()
			snapshot := s.latest
			s.mu.Unlock()
			fn(snapshot)
		}
	}
}

func (r *MemoryNotificationRepository) snapshotLocked(recipientID string) []*entity.Notification {
	var snapshot []*entity.Notification
	for i := len(r.notifications) - 1; i >= 0; i-- {
		n := r.notifications[i]
		if n.RecipientID == recipientID {
			copied := *n
			snapshot = append(snapshot, &copied)
		}
	}
	return snapshot
}

func (r *MemoryNotificationRepository) broadcastLocked(recipientID string) {
	subs := r.subs[recipientID]
	if len(subs) == 0 {
		return
	}
	snapshot := r.snapshotLocked(recipientID)
	for _, sub := range subs {
		sub.push(snapshot)
	}
}

func (r *MemoryNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}

	now := time.Now()
	notification.CreatedAt = now
	notification.UpdatedAt = now

	stored := *notification
	r.notifications = append(r.notifications, &stored)
	r.broadcastLocked(notification.RecipientID)

	return nil
}

func (r *MemoryNotificationRepository) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.notifications {
		if n.ID == id {
			copied := *n
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Notification", nil)
}

func (r *MemoryNotificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]*entity.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.snapshotLocked(recipientID), nil
}

func (r *MemoryNotificationRepository) Update(ctx context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, n := range r.notifications {
		if n.ID == notification.ID {
			notification.CreatedAt = n.CreatedAt
			notification.UpdatedAt = time.Now()
			stored := *notification
			r.notifications[i] = &stored
			r.broadcastLocked(notification.RecipientID)
			return nil
		}
	}
	return errors.NotFound("Notification", nil)
}

func (r *MemoryNotificationRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, n := range r.notifications {
		if n.ID == id {
			recipientID := n.RecipientID
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			r.broadcastLocked(recipientID)
			return nil
		}
	}
	return errors.NotFound("Notification", nil)
}

func (r *MemoryNotificationRepository) FindPending(ctx context.Context, nType, senderID, recipientID, workoutID string) (*entity.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.notifications {
		if n.Type == nType &&
			n.SenderID == senderID &&
			n.RecipientID == recipientID &&
			n.Status == entity.NotificationStatusPending &&
			n.WorkoutID == workoutID {
			copied := *n
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Pending notification", nil)
}

func (r *MemoryNotificationRepository) CountByRecipientAndStatus(ctx context.Context, recipientID, status string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && n.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *MemoryNotificationRepository) ListenToNotifications(ctx context.Context, recipientID string, fn repository.NotificationSnapshotFunc) (repository.UnsubscribeFunc, error) {
	sub := newNotificationSubscriber()

	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	if r.subs[recipientID] == nil {
		r.subs[recipientID] = make(map[int64]*notificationSubscriber)
	}
	r.subs[recipientID][id] = sub
	sub.push(r.snapshotLocked(recipientID))
	r.mu.Unlock()

	go sub.run(fn)

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs[recipientID], id)
			r.mu.Unlock()
			close(sub.stop)
		})
	}, nil
}

// SubscriberCount reports the number of live listeners for a recipient. Test hook.
func (r *MemoryNotificationRepository) SubscriberCount(recipientID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs[recipientID])
}
