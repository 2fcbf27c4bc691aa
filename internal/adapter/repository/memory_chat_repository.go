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

// MemoryChatRepository is an in-memory ChatRepository used by tests and
// local development. It preserves the live-listener contract of the
// Firestore adapter: every subscriber receives the thread's full ordered
// snapshot after each change, delivered by a dedicated goroutine so
// callbacks for one subscription never run concurrently. Rapid successive
// changes may coalesce into a single delivery carrying the newest snapshot,
// matching the backend listener's behavior.
type MemoryChatRepository struct {
	mu       sync.RWMutex
	threads  map[string]*entity.ChatThread
	messages map[string][]*entity.Message // per thread, insertion order == ascending timestamp
	subs     map[string]map[int64]*messageSubscriber
	nextSub  int64
}

func NewMemoryChatRepository() *MemoryChatRepository {
	return &MemoryChatRepository{
		threads:  make(map[string]*entity.ChatThread),
		messages: make(map[string][]*entity.Message),
		subs:     make(map[string]map[int64]*messageSubscriber),
	}
}

type messageSubscriber struct {
	mu     sync.Mutex
	latest []*entity.Message
	dirty  chan struct{}
	stop   chan struct{}
}

func newMessageSubscriber() *messageSubscriber {
	return &messageSubscriber{
		dirty: make(chan struct{}, 1),
		stop:  make(chan struct{}),
	}
}

func (s *messageSubscriber) push(snapshot []*entity.Message) {
	s.mu.Lock()
	s.latest = snapshot
	s.mu.Unlock()

	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *messageSubscriber) run(fn repository.MessageSnapshotFunc) {
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

func (r *MemoryChatRepository) snapshotLocked(threadID string) []*entity.Message {
	stored := r.messages[threadID]
	snapshot := make([]*entity.Message, len(stored))
	for i, m := range stored {
		copied := *m
		snapshot[i] = &copied
	}
	return snapshot
}

func (r *MemoryChatRepository) broadcastLocked(threadID string) {
	subs := r.subs[threadID]
	if len(subs) == 0 {
		return
	}
	snapshot := r.snapshotLocked(threadID)
	for _, sub := range subs {
		sub.push(snapshot)
	}
}

func (r *MemoryChatRepository) GetThread(ctx context.Context, threadID string) (*entity.ChatThread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	thread, ok := r.threads[threadID]
	if !ok {
		return nil, errors.NotFound("Chat thread", nil)
	}

	copied := *thread
	copied.Participants = append([]string(nil), thread.Participants...)
	copied.UnreadCount = make(map[string]int, len(thread.UnreadCount))
	for k, v := range thread.UnreadCount {
		copied.UnreadCount[k] = v
	}
	return &copied, nil
}

func (r *MemoryChatRepository) UpsertThread(ctx context.Context, thread *entity.ChatThread) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if thread.ID == "" {
		thread.ID = entity.ChatThreadID(thread.Participants[0], thread.Participants[1])
	}

	now := time.Now()
	if thread.CreatedAt.IsZero() {
		if existing, ok := r.threads[thread.ID]; ok {
			thread.CreatedAt = existing.CreatedAt
		} else {
			thread.CreatedAt = now
		}
	}
	thread.UpdatedAt = now

	stored := *thread
	stored.Participants = append([]string(nil), thread.Participants...)
	stored.UnreadCount = make(map[string]int, len(thread.UnreadCount))
	for k, v := range thread.UnreadCount {
		stored.UnreadCount[k] = v
	}
	r.threads[thread.ID] = &stored

	return nil
}

func (r *MemoryChatRepository) ListThreadsByUser(ctx context.Context, userID string) ([]*entity.ChatThread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var threads []*entity.ChatThread
	for _, thread := range r.threads {
		if thread.HasParticipant(userID) {
			copied := *thread
			threads = append(threads, &copied)
		}
	}
	return threads, nil
}

func (r *MemoryChatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}

	stored := *message
	r.messages[message.ChatID] = append(r.messages[message.ChatID], &stored)
	r.broadcastLocked(message.ChatID)

	return nil
}

func (r *MemoryChatRepository) GetMessagesByThread(ctx context.Context, threadID string) ([]*entity.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.snapshotLocked(threadID), nil
}

func (r *MemoryChatRepository) GetMessageByID(ctx context.Context, threadID, messageID string) (*entity.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.messages[threadID] {
		if m.ID == messageID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Message", nil)
}

func (r *MemoryChatRepository) UpdateMessageReaction(ctx context.Context, threadID, messageID, userID, reaction string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.messages[threadID] {
		if m.ID == messageID {
			m.Reaction = reaction
			m.ReactedBy = userID
			r.broadcastLocked(threadID)
			return nil
		}
	}
	return errors.NotFound("Message", nil)
}

func (r *MemoryChatRepository) MarkThreadMessagesRead(ctx context.Context, threadID, readerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	flipped := 0
	for _, m := range r.messages[threadID] {
		if m.ReceiverID == readerID && !m.Read {
			m.Read = true
			flipped++
		}
	}
	if flipped == 0 {
		return nil
	}

	if thread, ok := r.threads[threadID]; ok {
		if thread.UnreadCount == nil {
			thread.UnreadCount = make(map[string]int)
		}
		thread.UnreadCount[readerID] = 0
	}
	r.broadcastLocked(threadID)

	return nil
}

func (r *MemoryChatRepository) ListenToMessages(ctx context.Context, threadID string, fn repository.MessageSnapshotFunc) (repository.UnsubscribeFunc, error) {
	sub := newMessageSubscriber()

	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	if r.subs[threadID] == nil {
		r.subs[threadID] = make(map[int64]*messageSubscriber)
	}
	r.subs[threadID][id] = sub
	sub.push(r.snapshotLocked(threadID)) // initial snapshot, like the backend listener
	r.mu.Unlock()

	go sub.run(fn)

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs[threadID], id)
			r.mu.Unlock()
			close(sub.stop)
		})
	}, nil
}

// SubscriberCount reports the number of live listeners on a thread. Test hook.
func (r *MemoryChatRepository) SubscriberCount(threadID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs[threadID])
}
