package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"fitlink/internal/domain/entity"
	"fitlink/pkg/errors"
)

type MemoryWorkoutRepository struct {
	mu       sync.RWMutex
	workouts map[string]*entity.Workout
}

func NewMemoryWorkoutRepository() *MemoryWorkoutRepository {
	return &MemoryWorkoutRepository{
		workouts: make(map[string]*entity.Workout),
	}
}

func (r *MemoryWorkoutRepository) Create(ctx context.Context, workout *entity.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if workout.ID == "" {
		workout.ID = uuid.New().String()
	}

	now := time.Now()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	stored := *workout
	stored.Exercises = append([]entity.Exercise(nil), workout.Exercises...)
	r.workouts[workout.ID] = &stored
	return nil
}

func (r *MemoryWorkoutRepository) GetByID(ctx context.Context, id string) (*entity.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	workout, ok := r.workouts[id]
	if !ok {
		return nil, errors.NotFound("Workout", nil)
	}
	copied := *workout
	copied.Exercises = append([]entity.Exercise(nil), workout.Exercises...)
	return &copied, nil
}

func (r *MemoryWorkoutRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var workouts []*entity.Workout
	for _, workout := range r.workouts {
		if workout.OwnerID == ownerID {
			copied := *workout
			workouts = append(workouts, &copied)
		}
	}
	sort.Slice(workouts, func(i, j int) bool {
		return workouts[i].CreatedAt.After(workouts[j].CreatedAt)
	})
	return workouts, nil
}

func (r *MemoryWorkoutRepository) Update(ctx context.Context, workout *entity.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.workouts[workout.ID]
	if !ok {
		return errors.NotFound("Workout", nil)
	}

	workout.CreatedAt = existing.CreatedAt
	workout.UpdatedAt = time.Now()
	stored := *workout
	stored.Exercises = append([]entity.Exercise(nil), workout.Exercises...)
	r.workouts[workout.ID] = &stored
	return nil
}

func (r *MemoryWorkoutRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workouts[id]; !ok {
		return errors.NotFound("Workout", nil)
	}
	delete(r.workouts, id)
	return nil
}
