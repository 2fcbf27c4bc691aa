package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// Walks the happy path end to end: a message exchange with unread
// bookkeeping, then a partner request from invite to shared thread.
func TestMessagingScenario(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	_, err := f.chat.SendMessage(ctx, "alice", "bob", "hello")
	require.NoError(t, err)

	threads, err := f.chat.GetUserChats(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, threads, 1)
	require.Equal(t, 1, threads[0].UnreadCount["bob"])
	require.Equal(t, "hello", threads[0].LastMessage)
	require.Equal(t, "Alice", threads[0].OtherUser.DisplayName)

	require.NoError(t, f.chat.MarkMessagesAsRead(ctx, "bob", "alice"))

	threads, err = f.chat.GetUserChats(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, 0, threads[0].UnreadCount["bob"])

	// Alice's side of the counter was never touched.
	aliceThreads, err := f.chat.GetUserChats(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, 0, aliceThreads[0].UnreadCount["alice"])

	messages, err := f.chat.GetMessages(ctx, "bob", "alice")
	require.NoError(t, err)
	require.True(t, messages[0].Read)
}

func TestPartnerRequestScenario(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()
	workout := f.createWorkout(t, "alice", "Leg Day", "Monday")

	id, err := f.notif.SendPartnerRequest(ctx, "alice", "bob", workout.ID, "", "")
	require.NoError(t, err)

	// Bob sees the invite with the workout details resolved.
	inbox, err := f.notif.GetUserNotifications(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	require.Equal(t, "Leg Day", inbox[0].WorkoutName)
	require.Equal(t, "Monday", inbox[0].Day)

	require.NoError(t, f.notif.AcceptPartnerRequest(ctx, id))

	// Both users now see the partner thread, seeded with the system message
	// and one unread for the requester.
	for _, userID := range []string{"alice", "bob"} {
		threads, err := f.chat.GetUserChats(ctx, userID)
		require.NoError(t, err)
		require.Len(t, threads, 1)
		require.True(t, threads[0].IsPartnerChat)
		require.Equal(t, workout.ID, threads[0].WorkoutID)
	}

	messages, err := f.chat.GetMessages(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Contains(t, messages[0].Text, "Leg Day")

	threads, err := f.chat.GetUserChats(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, 1, threads[0].UnreadCount["alice"])

	// The pair can chat in the provisioned thread right away.
	_, err = f.chat.SendMessage(ctx, "bob", "alice", "see you Monday!")
	require.NoError(t, err)

	messages, err = f.chat.GetMessages(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, "see you Monday!", messages[1].Text)
}
