package router

import (
	"github.com/labstack/echo/v4"

	"fitlink/internal/adapter/api/handler"
	"fitlink/internal/adapter/api/middleware"
)

type Handlers struct {
	Health       *handler.HealthHandler
	User         *handler.UserHandler
	Workout      *handler.WorkoutHandler
	Chat         *handler.ChatHandler
	Notification *handler.NotificationHandler
	WebSocket    *handler.WebSocketHandler
	DevToken     *handler.DevTokenHandler
}

func Setup(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware, environment string) {
	SetupHealthRouter(e, h.Health)
	SetupUserRouter(e, h.User, authMiddleware)
	SetupWorkoutRouter(e, h.Workout, authMiddleware)
	SetupChatRouter(e, h.Chat, authMiddleware)
	SetupNotificationRouter(e, h.Notification, authMiddleware)
	SetupWebSocketRouter(e, h.WebSocket)

	if environment == "development" && h.DevToken != nil {
		SetupDevRouter(e, h.DevToken)
	}
}
