package router

import (
	"github.com/labstack/echo/v4"

	"fitlink/internal/adapter/api/handler"
	"fitlink/internal/adapter/api/middleware"
)

// SetupChatRouter sets up all chat-related routes (excluding WebSocket)
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	chatGroup := e.Group("/v1/chats")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.GET("", chatHandler.GetUserChats)                     // GET /v1/chats - list thread summaries
	chatGroup.GET("/with/:userId", chatHandler.GetMessages)         // GET /v1/chats/with/:userId - message history
	chatGroup.POST("/messages", chatHandler.SendMessage)            // POST /v1/chats/messages - send message
	chatGroup.PUT("/with/:userId/read", chatHandler.MarkAsRead)     // PUT /v1/chats/with/:userId/read - read receipts
	chatGroup.POST("/:id/reactions", chatHandler.AddReaction)       // POST /v1/chats/:id/reactions - react to a message
}
