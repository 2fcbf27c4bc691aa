package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	adapter "fitlink/internal/adapter/repository"
	"fitlink/internal/usecase"
	"fitlink/pkg/errors"
)

func newUserFixture() (*adapter.MemoryUserRepository, *usecase.UserUseCase) {
	repo := adapter.NewMemoryUserRepository()
	return repo, usecase.NewUserUseCase(repo)
}

func TestEnsureProfileCreatesOnce(t *testing.T) {
	_, users := newUserFixture()
	ctx := context.Background()

	created, err := users.EnsureProfile(ctx, "uid-1", "alice", "Alice")
	require.NoError(t, err)
	require.Equal(t, "alice", created.Username)

	// Second sign-in returns the existing profile untouched.
	again, err := users.EnsureProfile(ctx, "uid-1", "somebody-else", "Other")
	require.NoError(t, err)
	require.Equal(t, "alice", again.Username)
	require.Equal(t, "Alice", again.DisplayName)
}

func TestEnsureProfileRejectsTakenUsername(t *testing.T) {
	_, users := newUserFixture()
	ctx := context.Background()

	_, err := users.EnsureProfile(ctx, "uid-1", "alice", "Alice")
	require.NoError(t, err)

	_, err = users.EnsureProfile(ctx, "uid-2", "alice", "Impostor")
	require.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestFindByUsername(t *testing.T) {
	_, users := newUserFixture()
	ctx := context.Background()

	_, err := users.EnsureProfile(ctx, "uid-1", "alice", "Alice")
	require.NoError(t, err)

	found, err := users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "uid-1", found.ID)

	_, err = users.FindByUsername(ctx, "nobody")
	require.True(t, errors.Is(err, "NOT_FOUND"))

	_, err = users.FindByUsername(ctx, "   ")
	require.True(t, errors.Is(err, "BAD_REQUEST"))
}
