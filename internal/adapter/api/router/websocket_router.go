package router

import (
	"github.com/labstack/echo/v4"

	"fitlink/internal/adapter/api/handler"
)

// SetupWebSocketRouter mounts the realtime endpoint. Authentication happens
// inside the handler via a token query parameter, since browser WebSocket
// clients cannot set an Authorization header on the handshake.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/v1/ws", wsHandler.HandleWebSocket)
}
