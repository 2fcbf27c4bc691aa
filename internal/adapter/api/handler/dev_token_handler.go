package handler

import (
	"github.com/labstack/echo/v4"

	"fitlink/internal/infrastructure/firebase"
	"fitlink/pkg/errors"
	"fitlink/pkg/response"
)

// DevTokenHandler mints long-lived tokens for a given uid. Development
// environments only; the router never mounts it in production.
type DevTokenHandler struct {
	firebaseAuth *firebase.FirebaseAuthClient
}

func NewDevTokenHandler(firebaseAuth *firebase.FirebaseAuthClient) *DevTokenHandler {
	return &DevTokenHandler{
		firebaseAuth: firebaseAuth,
	}
}

func (h *DevTokenHandler) GenerateToken(c echo.Context) error {
	uid := c.QueryParam("uid")
	if uid == "" {
		return response.Error(c, errors.BadRequest("uid query parameter is required", nil))
	}

	token, err := h.firebaseAuth.GenerateLongLivedToken(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to generate token", err))
	}

	return response.Success(c, map[string]string{
		"uid":   uid,
		"token": token,
	})
}
