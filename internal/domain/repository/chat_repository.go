package repository

import (
	"context"

	"fitlink/internal/domain/entity"
)

// MessageSnapshotFunc receives the full ordered message sequence of a thread
// on every change, never a diff. Invocations for one subscription are
// sequential; a callback is never entered concurrently with itself.
type MessageSnapshotFunc func(messages []*entity.Message)

// UnsubscribeFunc cancels a live listener. It is idempotent.
type UnsubscribeFunc func()

type ChatRepository interface {
	// Thread summary methods
	GetThread(ctx context.Context, threadID string) (*entity.ChatThread, error)
	UpsertThread(ctx context.Context, thread *entity.ChatThread) error
	ListThreadsByUser(ctx context.Context, userID string) ([]*entity.ChatThread, error)

	// Message methods
	CreateMessage(ctx context.Context, message *entity.Message) error
	GetMessagesByThread(ctx context.Context, threadID string) ([]*entity.Message, error)
	GetMessageByID(ctx context.Context, threadID, messageID string) (*entity.Message, error)
	UpdateMessageReaction(ctx context.Context, threadID, messageID, userID, reaction string) error

	// MarkThreadMessagesRead flips every unread message addressed to readerID
	// and zeroes the reader's unread counter in one atomic batch.
	MarkThreadMessagesRead(ctx context.Context, threadID, readerID string) error

	// ListenToMessages delivers the thread's full message snapshot, ascending
	// by timestamp, on every change until the returned function is called.
	ListenToMessages(ctx context.Context, threadID string, fn MessageSnapshotFunc) (UnsubscribeFunc, error)
}
