package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	adapter "fitlink/internal/adapter/repository"
	"fitlink/internal/domain/entity"
	"fitlink/internal/usecase"
	"fitlink/pkg/errors"
)

type notificationFixture struct {
	*chatFixture
	workoutRepo *adapter.MemoryWorkoutRepository
	notif       *usecase.NotificationUseCase
}

func newNotificationFixture(t *testing.T) *notificationFixture {
	t.Helper()

	f := &notificationFixture{
		chatFixture: newChatFixture(t),
		workoutRepo: adapter.NewMemoryWorkoutRepository(),
	}
	f.notif = usecase.NewNotificationUseCase(f.notifRepo, f.userRepo, f.workoutRepo, f.chat)
	return f
}

func (f *notificationFixture) createWorkout(t *testing.T, ownerID, name, day string) *entity.Workout {
	t.Helper()

	workout := &entity.Workout{OwnerID: ownerID, Name: name, Day: day}
	require.NoError(t, f.workoutRepo.Create(context.Background(), workout))
	return workout
}

func TestSendPartnerRequestIdempotence(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()
	workout := f.createWorkout(t, "alice", "Leg Day", "Monday")

	first, err := f.notif.SendPartnerRequest(ctx, "alice", "bob", workout.ID, "Leg Day", "Monday")
	require.NoError(t, err)

	second, err := f.notif.SendPartnerRequest(ctx, "alice", "bob", workout.ID, "Leg Day", "Monday")
	require.NoError(t, err)
	require.Equal(t, first, second)

	notifications, err := f.notif.GetUserNotifications(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, entity.NotificationTypePartnerRequest, notifications[0].Type)
	require.Equal(t, entity.NotificationStatusPending, notifications[0].Status)
	require.Equal(t, "Alice", notifications[0].SenderName)
}

func TestSendPartnerRequestKeysIdempotenceOnWorkout(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()
	legDay := f.createWorkout(t, "alice", "Leg Day", "Monday")
	pushDay := f.createWorkout(t, "alice", "Push Day", "Friday")

	first, err := f.notif.SendPartnerRequest(ctx, "alice", "bob", legDay.ID, "Leg Day", "Monday")
	require.NoError(t, err)

	// Same pair, different workout: a distinct pending request.
	second, err := f.notif.SendPartnerRequest(ctx, "alice", "bob", pushDay.ID, "Push Day", "Friday")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	// Same pair, no workout context: also its own request.
	third, err := f.notif.SendPartnerRequest(ctx, "alice", "bob", "", "", "")
	require.NoError(t, err)
	require.NotEqual(t, first, third)
	require.NotEqual(t, second, third)

	// Repeating the workout-less request still dedupes against itself.
	again, err := f.notif.SendPartnerRequest(ctx, "alice", "bob", "", "", "")
	require.NoError(t, err)
	require.Equal(t, third, again)

	notifications, err := f.notif.GetUserNotifications(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, notifications, 3)
}

func TestSendPartnerRequestResolvesWorkoutName(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()
	workout := f.createWorkout(t, "alice", "Push Day", "Friday")

	id, err := f.notif.SendPartnerRequest(ctx, "alice", "bob", workout.ID, "", "")
	require.NoError(t, err)

	notifications, err := f.notif.GetUserNotifications(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, id, notifications[0].ID)
	require.Equal(t, "Push Day", notifications[0].WorkoutName)
	require.Equal(t, "Friday", notifications[0].Day)
}

func TestAcceptPartnerRequestProvisionsThread(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()
	workout := f.createWorkout(t, "alice", "Leg Day", "Monday")

	id, err := f.notif.SendPartnerRequest(ctx, "alice", "bob", workout.ID, "Leg Day", "Monday")
	require.NoError(t, err)

	require.NoError(t, f.notif.AcceptPartnerRequest(ctx, id))

	notification, err := f.notifRepo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, entity.NotificationStatusAccepted, notification.Status)

	thread, err := f.chatRepo.GetThread(ctx, entity.ChatThreadID("alice", "bob"))
	require.NoError(t, err)
	require.True(t, thread.IsPartnerChat)
	require.Equal(t, workout.ID, thread.WorkoutID)
	require.Equal(t, 1, thread.UnreadCount["alice"])
	require.Equal(t, 0, thread.UnreadCount["bob"])

	messages, err := f.chat.GetMessages(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, entity.MessageTypeSystem, messages[0].Type)
	require.Contains(t, messages[0].Text, "Leg Day")
}

func TestAcceptPartnerRequestIdempotentSideEffect(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()
	workout := f.createWorkout(t, "alice", "Leg Day", "Monday")

	id, err := f.notif.SendPartnerRequest(ctx, "alice", "bob", workout.ID, "Leg Day", "Monday")
	require.NoError(t, err)

	require.NoError(t, f.notif.AcceptPartnerRequest(ctx, id))
	require.NoError(t, f.notif.AcceptPartnerRequest(ctx, id))

	messages, err := f.chat.GetMessages(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Len(t, messages, 1) // still the single seeded message

	threads, err := f.chatRepo.ListThreadsByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, threads, 1)
}

func TestAcceptRejectsNonPartnerRequest(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()

	id, err := f.notif.CreateNotification(ctx, usecase.CreateNotificationInput{
		Type:        entity.NotificationTypeMessage,
		SenderID:    "alice",
		SenderName:  "Alice",
		RecipientID: "bob",
	})
	require.NoError(t, err)

	err = f.notif.AcceptPartnerRequest(ctx, id)
	require.True(t, errors.Is(err, "INVALID_STATE"))

	_, err = f.chatRepo.GetThread(ctx, entity.ChatThreadID("alice", "bob"))
	require.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestAcceptMissingNotification(t *testing.T) {
	f := newNotificationFixture(t)

	err := f.notif.AcceptPartnerRequest(context.Background(), "missing")
	require.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestDeclinePartnerRequest(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()
	workout := f.createWorkout(t, "alice", "Leg Day", "Monday")

	id, err := f.notif.SendPartnerRequest(ctx, "alice", "bob", workout.ID, "Leg Day", "Monday")
	require.NoError(t, err)

	require.NoError(t, f.notif.DeclinePartnerRequest(ctx, id))

	notification, err := f.notifRepo.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, entity.NotificationStatusDeclined, notification.Status)

	// Declined is terminal: accepting afterwards fails and creates no thread.
	err = f.notif.AcceptPartnerRequest(ctx, id)
	require.True(t, errors.Is(err, "INVALID_STATE"))
	_, err = f.chatRepo.GetThread(ctx, entity.ChatThreadID("alice", "bob"))
	require.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestUpdateNotificationStatusTransitions(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()

	id, err := f.notif.CreateNotification(ctx, usecase.CreateNotificationInput{
		Type:        entity.NotificationTypeSystem,
		RecipientID: "bob",
	})
	require.NoError(t, err)

	require.Error(t, f.notif.UpdateNotificationStatus(ctx, id, "pending"))
	require.Error(t, f.notif.UpdateNotificationStatus(ctx, id, "bogus"))

	require.NoError(t, f.notif.UpdateNotificationStatus(ctx, id, entity.NotificationStatusRead))

	// Repeating the same terminal transition is a no-op.
	require.NoError(t, f.notif.UpdateNotificationStatus(ctx, id, entity.NotificationStatusRead))

	// Any other transition out of a terminal state fails.
	err = f.notif.UpdateNotificationStatus(ctx, id, entity.NotificationStatusAccepted)
	require.True(t, errors.Is(err, "INVALID_STATE"))
}

func TestUnreadNotificationCount(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()

	count, err := f.notif.GetUnreadNotificationCount(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, 0, count)

	id1, err := f.notif.CreateNotification(ctx, usecase.CreateNotificationInput{
		Type: entity.NotificationTypeSystem, RecipientID: "bob",
	})
	require.NoError(t, err)
	_, err = f.notif.CreateNotification(ctx, usecase.CreateNotificationInput{
		Type: entity.NotificationTypeSystem, RecipientID: "bob",
	})
	require.NoError(t, err)

	count, err = f.notif.GetUnreadNotificationCount(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	require.NoError(t, f.notif.UpdateNotificationStatus(ctx, id1, entity.NotificationStatusRead))

	count, err = f.notif.GetUnreadNotificationCount(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestDeleteNotification(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()

	id, err := f.notif.CreateNotification(ctx, usecase.CreateNotificationInput{
		Type: entity.NotificationTypeSystem, RecipientID: "bob",
	})
	require.NoError(t, err)

	require.NoError(t, f.notif.DeleteNotification(ctx, id))

	_, err = f.notifRepo.GetByID(ctx, id)
	require.True(t, errors.Is(err, "NOT_FOUND"))
}

func TestGetUserNotificationsNewestFirst(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()

	_, err := f.notif.CreateNotification(ctx, usecase.CreateNotificationInput{
		Type: entity.NotificationTypeSystem, RecipientID: "bob", SenderName: "first",
	})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = f.notif.CreateNotification(ctx, usecase.CreateNotificationInput{
		Type: entity.NotificationTypeSystem, RecipientID: "bob", SenderName: "second",
	})
	require.NoError(t, err)

	notifications, err := f.notif.GetUserNotifications(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	require.Equal(t, "second", notifications[0].SenderName)
	require.Equal(t, "first", notifications[1].SenderName)
}

func TestSubscribeToNotifications(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()

	snapshots := make(chan []*entity.Notification, 16)
	unsubscribe, err := f.notif.SubscribeToNotifications(ctx, "bob", func(notifications []*entity.Notification) {
		snapshots <- notifications
	})
	require.NoError(t, err)
	defer unsubscribe()

	_, err = f.notif.CreateNotification(ctx, usecase.CreateNotificationInput{
		Type: entity.NotificationTypeSystem, RecipientID: "bob",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		select {
		case snap := <-snapshots:
			return len(snap) == 1
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}
