package handler

import (
	"github.com/labstack/echo/v4"

	"fitlink/internal/usecase"
	"fitlink/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	Text       string `json:"text" validate:"required,max=1000"`
}

type addReactionRequest struct {
	MessageID string `json:"message_id" validate:"required"`
	Reaction  string `json:"reaction" validate:"required,max=16"`
}

// GetUserChats lists the authenticated user's threads, newest activity first
func (h *ChatHandler) GetUserChats(c echo.Context) error {
	userID := c.Get("uid").(string)

	chats, err := h.chatUseCase.GetUserChats(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chats)
}

// GetMessages returns the full history with another user, oldest first
func (h *ChatHandler) GetMessages(c echo.Context) error {
	userID := c.Get("uid").(string)
	otherUserID := c.Param("userId")

	messages, err := h.chatUseCase.GetMessages(c.Request().Context(), userID, otherUserID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

// SendMessage sends a message to another user
func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), userID, req.ReceiverID, req.Text)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// MarkAsRead marks every message from the other user as read
func (h *ChatHandler) MarkAsRead(c echo.Context) error {
	userID := c.Get("uid").(string)
	otherUserID := c.Param("userId")

	if err := h.chatUseCase.MarkMessagesAsRead(c.Request().Context(), userID, otherUserID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"marked": true})
}

// AddReaction sets a reaction on a message in one of the user's threads
func (h *ChatHandler) AddReaction(c echo.Context) error {
	var req addReactionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)
	threadID := c.Param("id")

	message, err := h.chatUseCase.AddReaction(c.Request().Context(), userID, threadID, req.MessageID, req.Reaction)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, message)
}
