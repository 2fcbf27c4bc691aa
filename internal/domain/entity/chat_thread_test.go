package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatThreadIDSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"alice", "bob"},
		{"bob", "alice"},
		{"user-1", "user-2"},
		{"zed", "abe"},
	}

	for _, pair := range pairs {
		assert.Equal(t, ChatThreadID(pair[0], pair[1]), ChatThreadID(pair[1], pair[0]))
	}

	assert.Equal(t, "alice_bob", ChatThreadID("bob", "alice"))
}

func TestChatThreadParticipants(t *testing.T) {
	thread := &ChatThread{Participants: []string{"alice", "bob"}}

	assert.True(t, thread.HasParticipant("alice"))
	assert.False(t, thread.HasParticipant("carol"))
	assert.Equal(t, "bob", thread.OtherParticipant("alice"))
	assert.Equal(t, "", thread.OtherParticipant("carol"))
}
