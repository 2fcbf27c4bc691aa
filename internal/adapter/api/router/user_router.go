package router

import (
	"github.com/labstack/echo/v4"

	"fitlink/internal/adapter/api/handler"
	"fitlink/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, userHandler *handler.UserHandler, authMiddleware *middleware.AuthMiddleware) {
	group := e.Group("/v1/users")
	group.Use(authMiddleware.Authenticate)

	group.POST("/me", userHandler.EnsureProfile)
	group.GET("/me", userHandler.GetMe)
	group.PUT("/me", userHandler.UpdateMe)
	group.GET("/search", userHandler.FindByUsername)
	group.GET("/:id", userHandler.GetUser)
}
