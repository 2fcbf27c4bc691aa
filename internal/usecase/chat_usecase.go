package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"fitlink/internal/domain/entity"
	"fitlink/internal/domain/repository"
	"fitlink/internal/infrastructure/ratelimit"
	ws "fitlink/internal/infrastructure/websocket"
	"fitlink/pkg/errors"
	"fitlink/pkg/logger"
)

type ChatUseCase struct {
	chatRepo  repository.ChatRepository
	userRepo  repository.UserRepository
	notifRepo repository.NotificationRepository
	wsManager *ws.Manager
	limiter   *ratelimit.Limiter
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	wsManager *ws.Manager,
	limiter *ratelimit.Limiter,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:  chatRepo,
		userRepo:  userRepo,
		notifRepo: notifRepo,
		wsManager: wsManager,
		limiter:   limiter,
	}
}

type ChatThreadResponse struct {
	*entity.ChatThread
	OtherUser *entity.User `json:"other_user,omitempty"`
}

func validatePair(userID1, userID2 string) error {
	if userID1 == "" || userID2 == "" {
		return errors.BadRequest("Both user identifiers are required", nil)
	}
	if userID1 == userID2 {
		return errors.BadRequest("A chat requires two distinct users", nil)
	}
	return nil
}

// SendMessage appends a message to the pair's thread and upserts the thread
// summary. The two writes are not atomic: if the summary upsert fails the
// message stays persisted and the error is surfaced, leaving the summary
// stale until the next successful send. Callers decide whether to retry.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID, receiverID, text string) (*entity.Message, error) {
	if err := validatePair(senderID, receiverID); err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, errors.BadRequest("Message text is required", nil)
	}
	if utf8.RuneCountInString(text) > entity.MaxMessageLength {
		return nil, errors.BadRequest(fmt.Sprintf("Message text exceeds %d characters", entity.MaxMessageLength), nil)
	}

	if !uc.limiter.Allow(ctx, senderID, "send_message") {
		logger.Warn("SendMessage rate limited for user %s", senderID)
		return nil, errors.TooManyRequests("Too many messages, slow down")
	}

	threadID := entity.ChatThreadID(senderID, receiverID)
	message := &entity.Message{
		ChatID:     threadID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Type:       entity.MessageTypeText,
		Read:       false,
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		logger.Error("SendMessage: failed to persist message from %s to %s: %v", senderID, receiverID, err)
		return nil, err
	}

	if err := uc.upsertThreadSummary(ctx, threadID, message); err != nil {
		logger.Error("SendMessage: message %s persisted but thread summary update failed: %v", message.ID, err)
		return nil, err
	}

	uc.emitMessageNotification(ctx, senderID, receiverID)

	if uc.wsManager != nil {
		uc.wsManager.SendEventToUser(receiverID, ws.EventMessageReceived, message)
		uc.wsManager.SendEventToUser(senderID, ws.EventMessageReceived, message)
	}

	return message, nil
}

func (uc *ChatUseCase) upsertThreadSummary(ctx context.Context, threadID string, message *entity.Message) error {
	thread, err := uc.chatRepo.GetThread(ctx, threadID)
	if err != nil {
		if !errors.Is(err, "NOT_FOUND") {
			return err
		}
		thread = &entity.ChatThread{
			ID:           threadID,
			Participants: []string{message.SenderID, message.ReceiverID},
			UnreadCount:  map[string]int{message.ReceiverID: 0, message.SenderID: 0},
		}
	}

	if thread.UnreadCount == nil {
		thread.UnreadCount = make(map[string]int)
	}
	thread.UnreadCount[message.ReceiverID]++
	thread.LastMessage = message.Text
	thread.LastMessageSenderID = message.SenderID
	thread.LastMessageTimestamp = message.Timestamp

	return uc.chatRepo.UpsertThread(ctx, thread)
}

// emitMessageNotification creates a message-type notification for the
// receiver unless one from this sender is still pending, so a burst of
// messages yields a single alert. Failures here are logged, not surfaced;
// the message itself is already durable.
func (uc *ChatUseCase) emitMessageNotification(ctx context.Context, senderID, receiverID string) {
	if uc.notifRepo == nil {
		return
	}

	if _, err := uc.notifRepo.FindPending(ctx, entity.NotificationTypeMessage, senderID, receiverID, ""); err == nil {
		return
	} else if !errors.Is(err, "NOT_FOUND") {
		logger.Warn("SendMessage: pending-notification lookup failed: %v", err)
		return
	}

	senderName := senderID
	if sender, err := uc.userRepo.GetByID(ctx, senderID); err == nil {
		senderName = sender.DisplayName
	}

	notification := &entity.Notification{
		Type:        entity.NotificationTypeMessage,
		SenderID:    senderID,
		SenderName:  senderName,
		RecipientID: receiverID,
		Status:      entity.NotificationStatusPending,
	}
	if err := uc.notifRepo.Create(ctx, notification); err != nil {
		logger.Warn("SendMessage: failed to create message notification: %v", err)
	}
}

// GetMessages returns the pair's full message history ascending by timestamp.
func (uc *ChatUseCase) GetMessages(ctx context.Context, userID1, userID2 string) ([]*entity.Message, error) {
	if err := validatePair(userID1, userID2); err != nil {
		return nil, err
	}
	return uc.chatRepo.GetMessagesByThread(ctx, entity.ChatThreadID(userID1, userID2))
}

// SubscribeToMessages attaches a live listener on the pair's thread. The
// callback receives the full ordered message sequence on every change until
// the returned function is invoked.
func (uc *ChatUseCase) SubscribeToMessages(ctx context.Context, userID1, userID2 string, fn repository.MessageSnapshotFunc) (repository.UnsubscribeFunc, error) {
	if err := validatePair(userID1, userID2); err != nil {
		return nil, err
	}
	return uc.chatRepo.ListenToMessages(ctx, entity.ChatThreadID(userID1, userID2), fn)
}

// MarkMessagesAsRead flips every unread message addressed to readerID in the
// pair's thread and zeroes the reader's unread counter, atomically. Calling
// it with nothing unread is a no-op.
func (uc *ChatUseCase) MarkMessagesAsRead(ctx context.Context, readerID, otherUserID string) error {
	if err := validatePair(readerID, otherUserID); err != nil {
		return err
	}

	threadID := entity.ChatThreadID(readerID, otherUserID)
	if err := uc.chatRepo.MarkThreadMessagesRead(ctx, threadID, readerID); err != nil {
		return err
	}

	if uc.wsManager != nil {
		uc.wsManager.SendEventToUser(otherUserID, ws.EventMessagesRead, map[string]string{
			"chat_id":   threadID,
			"reader_id": readerID,
		})
	}

	return nil
}

// AddReaction sets the reaction on a message and returns it with the
// reaction applied. The message's thread id is part of the address, so the
// update is a direct document write.
func (uc *ChatUseCase) AddReaction(ctx context.Context, userID, threadID, messageID, reaction string) (*entity.Message, error) {
	if userID == "" || threadID == "" || messageID == "" {
		return nil, errors.BadRequest("User, chat and message identifiers are required", nil)
	}
	if reaction == "" || utf8.RuneCountInString(reaction) > 16 {
		return nil, errors.BadRequest("Reaction must be a short emoji string", nil)
	}

	thread, err := uc.chatRepo.GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if !thread.HasParticipant(userID) {
		return nil, errors.Forbidden("Only chat participants can react to messages", nil)
	}

	if err := uc.chatRepo.UpdateMessageReaction(ctx, threadID, messageID, userID, reaction); err != nil {
		return nil, err
	}

	message, err := uc.chatRepo.GetMessageByID(ctx, threadID, messageID)
	if err != nil {
		return nil, err
	}

	if uc.wsManager != nil {
		uc.wsManager.SendEventToUser(thread.OtherParticipant(userID), ws.EventMessageReaction, message)
	}

	return message, nil
}

// GetUserChats lists the user's threads with the counterpart's profile
// resolved, newest activity first. Threads that never saw a message sort last.
func (uc *ChatUseCase) GetUserChats(ctx context.Context, userID string) ([]*ChatThreadResponse, error) {
	if userID == "" {
		return nil, errors.BadRequest("User identifier is required", nil)
	}

	threads, err := uc.chatRepo.ListThreadsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*ChatThreadResponse, 0, len(threads))
	for _, thread := range threads {
		resp := &ChatThreadResponse{ChatThread: thread}
		otherID := thread.OtherParticipant(userID)
		if otherID != "" {
			if other, err := uc.userRepo.GetByID(ctx, otherID); err == nil {
				resp.OtherUser = other
			} else {
				logger.Warn("GetUserChats: could not resolve user %s: %v", otherID, err)
			}
		}
		responses = append(responses, resp)
	}

	sort.SliceStable(responses, func(i, j int) bool {
		ti, tj := responses[i].LastMessageTimestamp, responses[j].LastMessageTimestamp
		if ti.IsZero() {
			return false
		}
		if tj.IsZero() {
			return true
		}
		return ti.After(tj)
	})

	return responses, nil
}

// ProvisionPartnerThread creates the chat thread for an accepted partner
// request, seeded with a system message. It is idempotent: an existing
// thread for the pair is left untouched, so retrying an accept never
// produces a second thread.
func (uc *ChatUseCase) ProvisionPartnerThread(ctx context.Context, requesterID, acceptorID, workoutID, workoutName string) error {
	if err := validatePair(requesterID, acceptorID); err != nil {
		return err
	}

	threadID := entity.ChatThreadID(requesterID, acceptorID)
	if _, err := uc.chatRepo.GetThread(ctx, threadID); err == nil {
		return nil
	} else if !errors.Is(err, "NOT_FOUND") {
		return err
	}

	text := "Partner request accepted!"
	if workoutName != "" {
		text = fmt.Sprintf("Partner request for %q accepted!", workoutName)
	}

	message := &entity.Message{
		ChatID:     threadID,
		SenderID:   acceptorID,
		ReceiverID: requesterID,
		Text:       text,
		Type:       entity.MessageTypeSystem,
		Read:       false,
	}
	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		return err
	}

	thread := &entity.ChatThread{
		ID:                   threadID,
		Participants:         []string{requesterID, acceptorID},
		LastMessage:          message.Text,
		LastMessageSenderID:  acceptorID,
		LastMessageTimestamp: message.Timestamp,
		UnreadCount:          map[string]int{requesterID: 1, acceptorID: 0},
		IsPartnerChat:        true,
		WorkoutID:            workoutID,
	}
	if err := uc.chatRepo.UpsertThread(ctx, thread); err != nil {
		return err
	}

	if uc.wsManager != nil {
		uc.wsManager.SendEventToUser(requesterID, ws.EventPartnerChatReady, thread)
		uc.wsManager.SendEventToUser(acceptorID, ws.EventPartnerChatReady, thread)
	}

	return nil
}
