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

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) threadRef(threadID string) *firestore.DocumentRef {
	return r.client.Collection("chat_threads").Doc(threadID)
}

func (r *firestoreChatRepository) GetThread(ctx context.Context, threadID string) (*entity.ChatThread, error) {
	doc, err := r.threadRef(threadID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat thread", err)
		}
		return nil, errors.Internal("Failed to get chat thread", err)
	}

	var thread entity.ChatThread
	if err := doc.DataTo(&thread); err != nil {
		return nil, errors.Internal("Failed to parse chat thread data", err)
	}

	return &thread, nil
}

func (r *firestoreChatRepository) UpsertThread(ctx context.Context, thread *entity.ChatThread) error {
	if thread.ID == "" {
		thread.ID = entity.ChatThreadID(thread.Participants[0], thread.Participants[1])
	}

	now := time.Now()
	if thread.CreatedAt.IsZero() {
		thread.CreatedAt = now
	}
	thread.UpdatedAt = now

	_, err := r.threadRef(thread.ID).Set(ctx, thread)
	if err != nil {
		return errors.Internal("Failed to upsert chat thread", err)
	}

	return nil
}

func (r *firestoreChatRepository) ListThreadsByUser(ctx context.Context, userID string) ([]*entity.ChatThread, error) {
	query := r.client.Collection("chat_threads").Where("participants", "array-contains", userID)

	iter := query.Documents(ctx)
	var threads []*entity.ChatThread

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while fetching threads for user %s: %v", userID, err)
			return nil, errors.Internal("Failed to fetch chat threads", err)
		}

		var thread entity.ChatThread
		if err := doc.DataTo(&thread); err != nil {
			logger.Warn("Skipping malformed thread document %s: %v", doc.Ref.ID, err)
			continue
		}
		threads = append(threads, &thread)
	}

	return threads, nil
}

func (r *firestoreChatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}

	_, err := r.threadRef(message.ChatID).Collection("messages").Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreChatRepository) GetMessagesByThread(ctx context.Context, threadID string) ([]*entity.Message, error) {
	query := r.threadRef(threadID).Collection("messages").OrderBy("timestamp", firestore.Asc)

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while iterating messages for thread %s: %v", threadID, err)
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, errors.Internal("Failed to parse message data", err)
		}
		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *firestoreChatRepository) GetMessageByID(ctx context.Context, threadID, messageID string) (*entity.Message, error) {
	doc, err := r.threadRef(threadID).Collection("messages").Doc(messageID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Message", err)
		}
		return nil, errors.Internal("Failed to get message", err)
	}

	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}
	return &message, nil
}

func (r *firestoreChatRepository) UpdateMessageReaction(ctx context.Context, threadID, messageID, userID, reaction string) error {
	docRef := r.threadRef(threadID).Collection("messages").Doc(messageID)

	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "reaction", Value: reaction},
		{Path: "reactedBy", Value: userID},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Message", err)
		}
		return errors.Internal("Failed to update message reaction", err)
	}

	return nil
}

// MarkThreadMessagesRead flips the reader's unread messages and zeroes the
// reader's counter in a single write batch, so the two stay consistent.
func (r *firestoreChatRepository) MarkThreadMessagesRead(ctx context.Context, threadID, readerID string) error {
	threadRef := r.threadRef(threadID)

	query := threadRef.Collection("messages").
		Where("receiverId", "==", readerID).
		Where("read", "==", false)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return errors.Internal("Failed to query unread messages", err)
	}

	if len(docs) == 0 {
		return nil
	}

	batch := r.client.Batch()
	for _, doc := range docs {
		batch.Update(doc.Ref, []firestore.Update{
			{Path: "read", Value: true},
		})
	}
	batch.Update(threadRef, []firestore.Update{
		{FieldPath: firestore.FieldPath{"unreadCount", readerID}, Value: 0},
	})

	if _, err := batch.Commit(ctx); err != nil {
		return errors.Internal("Failed to commit read-receipt batch", err)
	}

	return nil
}

func (r *firestoreChatRepository) ListenToMessages(ctx context.Context, threadID string, fn repository.MessageSnapshotFunc) (repository.UnsubscribeFunc, error) {
	listenCtx, cancel := context.WithCancel(ctx)

	query := r.threadRef(threadID).Collection("messages").OrderBy("timestamp", firestore.Asc)
	snapshots := query.Snapshots(listenCtx)

	go func() {
		defer snapshots.Stop()
		for {
			snapshot, err := snapshots.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled {
					return
				}
				logger.Error("Message listener for thread %s stopped: %v", threadID, err)
				return
			}

			docs, err := snapshot.Documents.GetAll()
			if err != nil {
				logger.Error("Failed to read message snapshot for thread %s: %v", threadID, err)
				continue
			}

			messages := make([]*entity.Message, 0, len(docs))
			for _, doc := range docs {
				var message entity.Message
				if err := doc.DataTo(&message); err != nil {
					logger.Warn("Skipping malformed message document %s: %v", doc.Ref.ID, err)
					continue
				}
				messages = append(messages, &message)
			}

			fn(messages)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(cancel)
	}, nil
}
