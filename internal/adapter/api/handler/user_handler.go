package handler

import (
	"github.com/labstack/echo/v4"

	"fitlink/internal/usecase"
	"fitlink/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type ensureProfileRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url" validate:"omitempty,url"`
	Bio         string `json:"bio" validate:"max=500"`
}

// EnsureProfile creates the caller's profile on first sign-in
func (h *UserHandler) EnsureProfile(c echo.Context) error {
	var req ensureProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	user, err := h.userUseCase.EnsureProfile(c.Request().Context(), userID, req.Username, req.DisplayName)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

// GetMe returns the caller's profile
func (h *UserHandler) GetMe(c echo.Context) error {
	userID := c.Get("uid").(string)

	user, err := h.userUseCase.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

// FindByUsername resolves a user by username, for partner search
func (h *UserHandler) FindByUsername(c echo.Context) error {
	user, err := h.userUseCase.FindByUsername(c.Request().Context(), c.QueryParam("username"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

// GetUser returns another user's public profile
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userUseCase.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

// UpdateMe updates the caller's profile
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), userID, usecase.UpdateProfileInput{
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
		Bio:         req.Bio,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}
