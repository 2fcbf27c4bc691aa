package router

import (
	"github.com/labstack/echo/v4"

	"fitlink/internal/adapter/api/handler"
	"fitlink/internal/adapter/api/middleware"
)

func SetupNotificationRouter(e *echo.Echo, notificationHandler *handler.NotificationHandler, authMiddleware *middleware.AuthMiddleware) {
	group := e.Group("/v1/notifications")
	group.Use(authMiddleware.Authenticate)

	group.GET("", notificationHandler.GetUserNotifications)
	group.GET("/unread-count", notificationHandler.GetUnreadCount)
	group.POST("/partner-requests", notificationHandler.SendPartnerRequest)
	group.PUT("/:id/accept", notificationHandler.AcceptPartnerRequest)
	group.PUT("/:id/decline", notificationHandler.DeclinePartnerRequest)
	group.PUT("/:id/read", notificationHandler.MarkAsRead)
	group.DELETE("/:id", notificationHandler.DeleteNotification)
}
