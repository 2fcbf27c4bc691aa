package usecase

import (
	"context"
	"strings"

	"fitlink/internal/domain/entity"
	"fitlink/internal/domain/repository"
	"fitlink/pkg/errors"
)

type UserUseCase struct {
	userRepo repository.UserRepository
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
	}
}

type UpdateProfileInput struct {
	DisplayName string
	PhotoURL    string
	Bio         string
}

// EnsureProfile creates the user's profile document on first sign-in and
// returns the existing one otherwise.
func (uc *UserUseCase) EnsureProfile(ctx context.Context, uid, username, displayName string) (*entity.User, error) {
	if uid == "" {
		return nil, errors.BadRequest("User identifier is required", nil)
	}

	existing, err := uc.userRepo.GetByID(ctx, uid)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	if username == "" {
		username = uid
	}
	if displayName == "" {
		displayName = username
	}

	if taken, err := uc.userRepo.GetByUsername(ctx, username); err == nil && taken.ID != uid {
		return nil, errors.BadRequest("Username is already taken", nil)
	} else if err != nil && !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	user := &entity.User{
		ID:          uid,
		Username:    username,
		DisplayName: displayName,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (uc *UserUseCase) GetProfile(ctx context.Context, uid string) (*entity.User, error) {
	if uid == "" {
		return nil, errors.BadRequest("User identifier is required", nil)
	}
	return uc.userRepo.GetByID(ctx, uid)
}

// FindByUsername resolves a profile by its unique username; partner search
// uses it to find who to invite.
func (uc *UserUseCase) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.BadRequest("Username is required", nil)
	}
	return uc.userRepo.GetByUsername(ctx, username)
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, uid string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.DisplayName); name != "" {
		user.DisplayName = name
	}
	if input.PhotoURL != "" {
		user.PhotoURL = input.PhotoURL
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
