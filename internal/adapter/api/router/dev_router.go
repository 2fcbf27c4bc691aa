package router

import (
	"github.com/labstack/echo/v4"

	"fitlink/internal/adapter/api/handler"
)

// SetupDevRouter mounts development-only tooling. Never call this in
// production; router.Setup gates it on the environment.
func SetupDevRouter(e *echo.Echo, devTokenHandler *handler.DevTokenHandler) {
	e.GET("/v1/dev/token", devTokenHandler.GenerateToken)
}
