package repository

import (
	"context"

	"fitlink/internal/domain/entity"
)

type WorkoutRepository interface {
	Create(ctx context.Context, workout *entity.Workout) error
	GetByID(ctx context.Context, id string) (*entity.Workout, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Workout, error)
	Update(ctx context.Context, workout *entity.Workout) error
	Delete(ctx context.Context, id string) error
}
