package router

import (
	"github.com/labstack/echo/v4"

	"fitlink/internal/adapter/api/handler"
	"fitlink/internal/adapter/api/middleware"
)

func SetupWorkoutRouter(e *echo.Echo, workoutHandler *handler.WorkoutHandler, authMiddleware *middleware.AuthMiddleware) {
	group := e.Group("/v1/workouts")
	group.Use(authMiddleware.Authenticate)

	group.POST("", workoutHandler.CreateWorkout)
	group.GET("", workoutHandler.ListWorkouts)
	group.GET("/:id", workoutHandler.GetWorkout)
	group.PUT("/:id", workoutHandler.UpdateWorkout)
	group.DELETE("/:id", workoutHandler.DeleteWorkout)
}
