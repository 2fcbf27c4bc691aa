package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"fitlink/internal/domain/entity"
	"fitlink/internal/domain/repository"
	"fitlink/pkg/errors"
	"fitlink/pkg/logger"
)

type firestoreWorkoutRepository struct {
	client *firestore.Client
}

func NewFirestoreWorkoutRepository(client *firestore.Client) repository.WorkoutRepository {
	return &firestoreWorkoutRepository{
		client: client,
	}
}

func (r *firestoreWorkoutRepository) Create(ctx context.Context, workout *entity.Workout) error {
	if workout.ID == "" {
		workout.ID = uuid.New().String()
	}

	now := time.Now()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	_, err := r.client.Collection("workouts").Doc(workout.ID).Set(ctx, workout)
	if err != nil {
		return errors.Internal("Failed to create workout", err)
	}

	return nil
}

func (r *firestoreWorkoutRepository) GetByID(ctx context.Context, id string) (*entity.Workout, error) {
	doc, err := r.client.Collection("workouts").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Workout", err)
		}
		return nil, errors.Internal("Failed to get workout", err)
	}

	var workout entity.Workout
	if err := doc.DataTo(&workout); err != nil {
		return nil, errors.Internal("Failed to parse workout data", err)
	}

	return &workout, nil
}

func (r *firestoreWorkoutRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entity.Workout, error) {
	query := r.client.Collection("workouts").
		Where("ownerId", "==", ownerID).
		OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	var workouts []*entity.Workout

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while fetching workouts for user %s: %v", ownerID, err)
			return nil, errors.Internal("Failed to fetch workouts", err)
		}

		var workout entity.Workout
		if err := doc.DataTo(&workout); err != nil {
			logger.Warn("Skipping malformed workout document %s: %v", doc.Ref.ID, err)
			continue
		}
		workouts = append(workouts, &workout)
	}

	return workouts, nil
}

func (r *firestoreWorkoutRepository) Update(ctx context.Context, workout *entity.Workout) error {
	workout.UpdatedAt = time.Now()

	_, err := r.client.Collection("workouts").Doc(workout.ID).Set(ctx, workout)
	if err != nil {
		return errors.Internal("Failed to update workout", err)
	}

	return nil
}

func (r *firestoreWorkoutRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("workouts").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete workout", err)
	}

	return nil
}
