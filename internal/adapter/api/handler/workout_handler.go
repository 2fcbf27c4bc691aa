package handler

import (
	"github.com/labstack/echo/v4"

	"fitlink/internal/domain/entity"
	"fitlink/internal/usecase"
	"fitlink/pkg/response"
	"fitlink/pkg/utils"
)

type WorkoutHandler struct {
	workoutUseCase *usecase.WorkoutUseCase
}

func NewWorkoutHandler(workoutUseCase *usecase.WorkoutUseCase) *WorkoutHandler {
	return &WorkoutHandler{
		workoutUseCase: workoutUseCase,
	}
}

type workoutRequest struct {
	Name      string            `json:"name" validate:"required,max=100"`
	Day       string            `json:"day" validate:"omitempty,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Exercises []entity.Exercise `json:"exercises"`
}

func (h *WorkoutHandler) CreateWorkout(c echo.Context) error {
	var req workoutRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	workout, err := h.workoutUseCase.CreateWorkout(c.Request().Context(), userID, usecase.WorkoutInput{
		Name:      req.Name,
		Day:       req.Day,
		Exercises: req.Exercises,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, workout)
}

func (h *WorkoutHandler) GetWorkout(c echo.Context) error {
	workout, err := h.workoutUseCase.GetWorkout(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, workout)
}

func (h *WorkoutHandler) ListWorkouts(c echo.Context) error {
	userID := c.Get("uid").(string)

	workouts, err := h.workoutUseCase.ListWorkouts(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	params := utils.GetPaginationParams(c)
	total := int64(len(workouts))
	start := params.Offset
	if start > len(workouts) {
		start = len(workouts)
	}
	end := start + params.PageSize
	if end > len(workouts) {
		end = len(workouts)
	}

	return response.Paginated(c, workouts[start:end], total, params.Page, params.PageSize)
}

func (h *WorkoutHandler) UpdateWorkout(c echo.Context) error {
	var req workoutRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	workout, err := h.workoutUseCase.UpdateWorkout(c.Request().Context(), userID, c.Param("id"), usecase.WorkoutInput{
		Name:      req.Name,
		Day:       req.Day,
		Exercises: req.Exercises,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, workout)
}

func (h *WorkoutHandler) DeleteWorkout(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.workoutUseCase.DeleteWorkout(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"deleted": true})
}
