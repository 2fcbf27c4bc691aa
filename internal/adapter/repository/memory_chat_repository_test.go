package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fitlink/internal/domain/entity"
)

func seedThread(t *testing.T, repo *MemoryChatRepository, a, b string) string {
	t.Helper()

	threadID := entity.ChatThreadID(a, b)
	require.NoError(t, repo.UpsertThread(context.Background(), &entity.ChatThread{
		ID:           threadID,
		Participants: []string{a, b},
		UnreadCount:  map[string]int{a: 0, b: 0},
	}))
	return threadID
}

func TestListenToMessagesDeliversOrderedSnapshots(t *testing.T) {
	repo := NewMemoryChatRepository()
	ctx := context.Background()
	threadID := seedThread(t, repo, "alice", "bob")

	var mu sync.Mutex
	var latest []*entity.Message
	unsubscribe, err := repo.ListenToMessages(ctx, threadID, func(messages []*entity.Message) {
		mu.Lock()
		latest = messages
		mu.Unlock()
	})
	require.NoError(t, err)
	defer unsubscribe()

	for _, text := range []string{"one", "two", "three"} {
		require.NoError(t, repo.CreateMessage(ctx, &entity.Message{
			ChatID:     threadID,
			SenderID:   "alice",
			ReceiverID: "bob",
			Text:       text,
			Type:       entity.MessageTypeText,
		}))
		time.Sleep(time.Millisecond)
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(latest) == 3
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, "one", latest[0].Text)
	require.Equal(t, "two", latest[1].Text)
	require.Equal(t, "three", latest[2].Text)
}

func TestListenToMessagesInitialSnapshot(t *testing.T) {
	repo := NewMemoryChatRepository()
	ctx := context.Background()
	threadID := seedThread(t, repo, "alice", "bob")
	require.NoError(t, repo.CreateMessage(ctx, &entity.Message{
		ChatID:     threadID,
		SenderID:   "alice",
		ReceiverID: "bob",
		Text:       "already here",
	}))

	snapshots := make(chan []*entity.Message, 1)
	unsubscribe, err := repo.ListenToMessages(ctx, threadID, func(messages []*entity.Message) {
		select {
		case snapshots <- messages:
		default:
		}
	})
	require.NoError(t, err)
	defer unsubscribe()

	select {
	case snap := <-snapshots:
		require.Len(t, snap, 1)
		require.Equal(t, "already here", snap[0].Text)
	case <-time.After(time.Second):
		t.Fatal("no initial snapshot delivered")
	}
}

func TestUnsubscribeRemovesListener(t *testing.T) {
	repo := NewMemoryChatRepository()
	threadID := seedThread(t, repo, "alice", "bob")

	for i := 0; i < 10; i++ {
		unsubscribe, err := repo.ListenToMessages(context.Background(), threadID, func([]*entity.Message) {})
		require.NoError(t, err)
		require.Equal(t, 1, repo.SubscriberCount(threadID))

		unsubscribe()
		unsubscribe() // second call must be a no-op
		require.Equal(t, 0, repo.SubscriberCount(threadID))
	}
}

func TestUnsubscribedListenerGetsNoFurtherCallbacks(t *testing.T) {
	repo := NewMemoryChatRepository()
	ctx := context.Background()
	threadID := seedThread(t, repo, "alice", "bob")

	var mu sync.Mutex
	calls := 0
	unsubscribe, err := repo.ListenToMessages(ctx, threadID, func([]*entity.Message) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 1 // initial snapshot
	}, time.Second, 5*time.Millisecond)

	unsubscribe()

	require.NoError(t, repo.CreateMessage(ctx, &entity.Message{
		ChatID: threadID, SenderID: "alice", ReceiverID: "bob", Text: "late",
	}))
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 1, calls)
}

func TestSnapshotsAreCopies(t *testing.T) {
	repo := NewMemoryChatRepository()
	ctx := context.Background()
	threadID := seedThread(t, repo, "alice", "bob")
	require.NoError(t, repo.CreateMessage(ctx, &entity.Message{
		ChatID: threadID, SenderID: "alice", ReceiverID: "bob", Text: "original",
	}))

	messages, err := repo.GetMessagesByThread(ctx, threadID)
	require.NoError(t, err)
	messages[0].Text = "mutated"

	again, err := repo.GetMessagesByThread(ctx, threadID)
	require.NoError(t, err)
	require.Equal(t, "original", again[0].Text)
}

func TestMarkThreadMessagesRead(t *testing.T) {
	repo := NewMemoryChatRepository()
	ctx := context.Background()
	threadID := seedThread(t, repo, "alice", "bob")

	require.NoError(t, repo.CreateMessage(ctx, &entity.Message{
		ChatID: threadID, SenderID: "alice", ReceiverID: "bob", Text: "for bob",
	}))
	require.NoError(t, repo.CreateMessage(ctx, &entity.Message{
		ChatID: threadID, SenderID: "bob", ReceiverID: "alice", Text: "for alice",
	}))

	require.NoError(t, repo.MarkThreadMessagesRead(ctx, threadID, "bob"))

	messages, err := repo.GetMessagesByThread(ctx, threadID)
	require.NoError(t, err)
	require.True(t, messages[0].Read)   // addressed to bob
	require.False(t, messages[1].Read)  // addressed to alice, untouched
}
