package usecase

import (
	"context"

	"fitlink/internal/domain/entity"
	"fitlink/internal/domain/repository"
	"fitlink/pkg/errors"
	"fitlink/pkg/logger"
)

// ThreadProvisioner creates the chat thread that an accepted partner request
// entitles both users to. Implemented by ChatUseCase; the indirection keeps
// the notification store from depending on the chat store wholesale.
type ThreadProvisioner interface {
	ProvisionPartnerThread(ctx context.Context, requesterID, acceptorID, workoutID, workoutName string) error
}

type NotificationUseCase struct {
	notifRepo   repository.NotificationRepository
	userRepo    repository.UserRepository
	workoutRepo repository.WorkoutRepository
	provisioner ThreadProvisioner
}

func NewNotificationUseCase(
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	workoutRepo repository.WorkoutRepository,
	provisioner ThreadProvisioner,
) *NotificationUseCase {
	return &NotificationUseCase{
		notifRepo:   notifRepo,
		userRepo:    userRepo,
		workoutRepo: workoutRepo,
		provisioner: provisioner,
	}
}

type CreateNotificationInput struct {
	Type        string
	SenderID    string
	SenderName  string
	RecipientID string
	WorkoutID   string
	WorkoutName string
	Day         string
}

func (uc *NotificationUseCase) CreateNotification(ctx context.Context, input CreateNotificationInput) (string, error) {
	switch input.Type {
	case entity.NotificationTypePartnerRequest, entity.NotificationTypeMessage, entity.NotificationTypeSystem:
	default:
		return "", errors.BadRequest("Unknown notification type", nil)
	}
	if input.RecipientID == "" {
		return "", errors.BadRequest("Recipient identifier is required", nil)
	}

	notification := &entity.Notification{
		Type:        input.Type,
		SenderID:    input.SenderID,
		SenderName:  input.SenderName,
		RecipientID: input.RecipientID,
		Status:      entity.NotificationStatusPending,
		WorkoutID:   input.WorkoutID,
		WorkoutName: input.WorkoutName,
		Day:         input.Day,
	}
	if err := uc.notifRepo.Create(ctx, notification); err != nil {
		return "", err
	}

	return notification.ID, nil
}

// SendPartnerRequest creates a pending partner_request notification. It is
// idempotent per (sender, recipient, workout): while an earlier request is
// still pending, the existing notification id is returned instead of
// creating a duplicate.
func (uc *NotificationUseCase) SendPartnerRequest(ctx context.Context, senderID, recipientID, workoutID, workoutName, day string) (string, error) {
	if err := validatePair(senderID, recipientID); err != nil {
		return "", err
	}

	sender, err := uc.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return "", err
	}

	if workoutID != "" && workoutName == "" && uc.workoutRepo != nil {
		if workout, err := uc.workoutRepo.GetByID(ctx, workoutID); err == nil {
			workoutName = workout.Name
			if day == "" {
				day = workout.Day
			}
		} else {
			logger.Warn("SendPartnerRequest: could not resolve workout %s: %v", workoutID, err)
		}
	}

	existing, err := uc.notifRepo.FindPending(ctx, entity.NotificationTypePartnerRequest, senderID, recipientID, workoutID)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return "", err
	}

	notification := &entity.Notification{
		Type:        entity.NotificationTypePartnerRequest,
		SenderID:    senderID,
		SenderName:  sender.DisplayName,
		RecipientID: recipientID,
		Status:      entity.NotificationStatusPending,
		WorkoutID:   workoutID,
		WorkoutName: workoutName,
		Day:         day,
	}
	if err := uc.notifRepo.Create(ctx, notification); err != nil {
		return "", err
	}

	return notification.ID, nil
}

// GetUserNotifications returns everything addressed to userID, newest first.
func (uc *NotificationUseCase) GetUserNotifications(ctx context.Context, userID string) ([]*entity.Notification, error) {
	if userID == "" {
		return nil, errors.BadRequest("User identifier is required", nil)
	}
	return uc.notifRepo.ListByRecipient(ctx, userID)
}

func (uc *NotificationUseCase) SubscribeToNotifications(ctx context.Context, userID string, fn repository.NotificationSnapshotFunc) (repository.UnsubscribeFunc, error) {
	if userID == "" {
		return nil, errors.BadRequest("User identifier is required", nil)
	}
	return uc.notifRepo.ListenToNotifications(ctx, userID, fn)
}

// UpdateNotificationStatus moves a pending notification to accepted,
// declined or read. Those three states are terminal; repeating the same
// transition is a no-op, any other transition out of them fails.
func (uc *NotificationUseCase) UpdateNotificationStatus(ctx context.Context, id, status string) error {
	switch status {
	case entity.NotificationStatusAccepted, entity.NotificationStatusDeclined, entity.NotificationStatusRead:
	default:
		return errors.BadRequest("Invalid target status", nil)
	}

	notification, err := uc.notifRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if notification.IsTerminal() {
		if notification.Status == status {
			return nil
		}
		return errors.InvalidState("Notification status is already final", nil)
	}

	notification.Status = status
	return uc.notifRepo.Update(ctx, notification)
}

// AcceptPartnerRequest transitions a partner request to accepted and
// provisions the pair's chat thread. The provisioning side effect is
// idempotent, so retrying after a partial failure is safe.
func (uc *NotificationUseCase) AcceptPartnerRequest(ctx context.Context, id string) error {
	notification, err := uc.notifRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if notification.Type != entity.NotificationTypePartnerRequest {
		return errors.InvalidState("Notification is not a partner request", nil)
	}

	switch notification.Status {
	case entity.NotificationStatusPending:
		notification.Status = entity.NotificationStatusAccepted
		if err := uc.notifRepo.Update(ctx, notification); err != nil {
			return err
		}
	case entity.NotificationStatusAccepted:
		// Already accepted: fall through so an interrupted accept can still
		// provision the thread.
	default:
		return errors.InvalidState("Partner request was already resolved", nil)
	}

	return uc.provisioner.ProvisionPartnerThread(ctx, notification.SenderID, notification.RecipientID, notification.WorkoutID, notification.WorkoutName)
}

// DeclinePartnerRequest resolves a pending partner request without creating
// a chat thread.
func (uc *NotificationUseCase) DeclinePartnerRequest(ctx context.Context, id string) error {
	notification, err := uc.notifRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notification.Type != entity.NotificationTypePartnerRequest {
		return errors.InvalidState("Notification is not a partner request", nil)
	}
	return uc.UpdateNotificationStatus(ctx, id, entity.NotificationStatusDeclined)
}

func (uc *NotificationUseCase) DeleteNotification(ctx context.Context, id string) error {
	if id == "" {
		return errors.BadRequest("Notification identifier is required", nil)
	}
	return uc.notifRepo.Delete(ctx, id)
}

// GetUnreadNotificationCount counts the user's pending notifications.
func (uc *NotificationUseCase) GetUnreadNotificationCount(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, errors.BadRequest("User identifier is required", nil)
	}
	return uc.notifRepo.CountByRecipientAndStatus(ctx, userID, entity.NotificationStatusPending)
}
