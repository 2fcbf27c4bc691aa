package handler

import (
	"github.com/labstack/echo/v4"

	"fitlink/internal/domain/entity"
	"fitlink/internal/usecase"
	"fitlink/pkg/response"
)

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
	}
}

type partnerRequestRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	WorkoutID   string `json:"workout_id"`
	WorkoutName string `json:"workout_name"`
	Day         string `json:"day"`
}

// GetUserNotifications lists the authenticated user's notifications, newest first
func (h *NotificationHandler) GetUserNotifications(c echo.Context) error {
	userID := c.Get("uid").(string)

	notifications, err := h.notificationUseCase.GetUserNotifications(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, notifications)
}

// GetUnreadCount returns the number of pending notifications
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	userID := c.Get("uid").(string)

	count, err := h.notificationUseCase.GetUnreadNotificationCount(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{"count": count})
}

// SendPartnerRequest asks another user to become a workout partner
func (h *NotificationHandler) SendPartnerRequest(c echo.Context) error {
	var req partnerRequestRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	id, err := h.notificationUseCase.SendPartnerRequest(
		c.Request().Context(), userID, req.RecipientID, req.WorkoutID, req.WorkoutName, req.Day)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{"id": id})
}

// AcceptPartnerRequest accepts a pending partner request and provisions the chat
func (h *NotificationHandler) AcceptPartnerRequest(c echo.Context) error {
	id := c.Param("id")

	if err := h.notificationUseCase.AcceptPartnerRequest(c.Request().Context(), id); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": entity.NotificationStatusAccepted})
}

// DeclinePartnerRequest declines a pending partner request
func (h *NotificationHandler) DeclinePartnerRequest(c echo.Context) error {
	id := c.Param("id")

	if err := h.notificationUseCase.DeclinePartnerRequest(c.Request().Context(), id); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": entity.NotificationStatusDeclined})
}

// MarkAsRead moves a pending notification to read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	id := c.Param("id")

	if err := h.notificationUseCase.UpdateNotificationStatus(c.Request().Context(), id, entity.NotificationStatusRead); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": entity.NotificationStatusRead})
}

// DeleteNotification removes a notification permanently
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	id := c.Param("id")

	if err := h.notificationUseCase.DeleteNotification(c.Request().Context(), id); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"deleted": true})
}
