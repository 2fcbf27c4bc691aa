package usecase

import (
	"context"
	"strings"

	"fitlink/internal/domain/entity"
	"fitlink/internal/domain/repository"
	"fitlink/pkg/errors"
)

type WorkoutUseCase struct {
	workoutRepo repository.WorkoutRepository
}

func NewWorkoutUseCase(workoutRepo repository.WorkoutRepository) *WorkoutUseCase {
	return &WorkoutUseCase{
		workoutRepo: workoutRepo,
	}
}

type WorkoutInput struct {
	Name      string
	Day       string
	Exercises []entity.Exercise
}

func (uc *WorkoutUseCase) CreateWorkout(ctx context.Context, ownerID string, input WorkoutInput) (*entity.Workout, error) {
	if ownerID == "" {
		return nil, errors.BadRequest("Owner identifier is required", nil)
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.BadRequest("Workout name is required", nil)
	}

	workout := &entity.Workout{
		OwnerID:   ownerID,
		Name:      input.Name,
		Day:       input.Day,
		Exercises: input.Exercises,
	}
	if err := uc.workoutRepo.Create(ctx, workout); err != nil {
		return nil, err
	}

	return workout, nil
}

// GetWorkout is not restricted to the owner: partner requests reference
// other users' workouts by id.
func (uc *WorkoutUseCase) GetWorkout(ctx context.Context, id string) (*entity.Workout, error) {
	if id == "" {
		return nil, errors.BadRequest("Workout identifier is required", nil)
	}
	return uc.workoutRepo.GetByID(ctx, id)
}

func (uc *WorkoutUseCase) ListWorkouts(ctx context.Context, ownerID string) ([]*entity.Workout, error) {
	if ownerID == "" {
		return nil, errors.BadRequest("Owner identifier is required", nil)
	}
	return uc.workoutRepo.ListByOwner(ctx, ownerID)
}

func (uc *WorkoutUseCase) UpdateWorkout(ctx context.Context, userID, id string, input WorkoutInput) (*entity.Workout, error) {
	workout, err := uc.workoutRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if workout.OwnerID != userID {
		return nil, errors.Forbidden("Only the owner can modify a workout", nil)
	}

	if strings.TrimSpace(input.Name) != "" {
		workout.Name = input.Name
	}
	if input.Day != "" {
		workout.Day = input.Day
	}
	if input.Exercises != nil {
		workout.Exercises = input.Exercises
	}

	if err := uc.workoutRepo.Update(ctx, workout); err != nil {
		return nil, err
	}

	return workout, nil
}

func (uc *WorkoutUseCase) DeleteWorkout(ctx context.Context, userID, id string) error {
	workout, err := uc.workoutRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if workout.OwnerID != userID {
		return errors.Forbidden("Only the owner can delete a workout", nil)
	}
	return uc.workoutRepo.Delete(ctx, id)
}
