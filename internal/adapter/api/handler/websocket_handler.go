package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"fitlink/internal/adapter/api/middleware"
	"fitlink/internal/domain/entity"
	"fitlink/internal/domain/repository"
	ws "fitlink/internal/infrastructure/websocket"
	"fitlink/internal/usecase"
	"fitlink/pkg/errors"
	"fitlink/pkg/logger"
)

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // restricted by the CORS policy at the edge
	},
}

type WebSocketHandler struct {
	wsManager           *ws.Manager
	authMiddleware      *middleware.AuthMiddleware
	chatUseCase         *usecase.ChatUseCase
	notificationUseCase *usecase.NotificationUseCase
}

func NewWebSocketHandler(
	wsManager *ws.Manager,
	authMiddleware *middleware.AuthMiddleware,
	chatUseCase *usecase.ChatUseCase,
	notificationUseCase *usecase.NotificationUseCase,
) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:           wsManager,
		authMiddleware:      authMiddleware,
		chatUseCase:         chatUseCase,
		notificationUseCase: notificationUseCase,
	}
}

// clientBridge owns the live listeners opened on behalf of one connection
// and guarantees they are released exactly once on teardown.
type clientBridge struct {
	mu            sync.Mutex
	chatListeners map[string]repository.UnsubscribeFunc // keyed by other user id
	notifListener repository.UnsubscribeFunc
	closed        bool
}

func (b *clientBridge) addChatListener(otherUserID string, unsubscribe repository.UnsubscribeFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		unsubscribe()
		return
	}
	// At most one listener per counterpart; replacing cancels the old one.
	if old, ok := b.chatListeners[otherUserID]; ok {
		old()
	}
	b.chatListeners[otherUserID] = unsubscribe
}

func (b *clientBridge) setNotifListener(unsubscribe repository.UnsubscribeFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		unsubscribe()
		return
	}
	b.notifListener = unsubscribe
}

func (b *clientBridge) removeChatListener(otherUserID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if unsubscribe, ok := b.chatListeners[otherUserID]; ok {
		unsubscribe()
		delete(b.chatListeners, otherUserID)
	}
}

func (b *clientBridge) teardown() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for _, unsubscribe := range b.chatListeners {
		unsubscribe()
	}
	b.chatListeners = nil
	if b.notifListener != nil {
		b.notifListener()
	}
}

// HandleWebSocket upgrades the connection and bridges store listeners to it:
// the client is subscribed to its notification feed immediately and can
// attach or detach per-chat message listeners with subscribe_chat /
// unsubscribe_chat commands.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	userID, ok := c.Get("uid").(string)
	if !ok || userID == "" {
		token := c.QueryParam("token")
		if token == "" {
			return errors.Unauthorized("Authentication required", nil)
		}
		uid, err := h.authMiddleware.GetUIDFromToken(c.Request().Context(), token)
		if err != nil {
			return errors.Unauthorized("Invalid or expired token", err)
		}
		userID = uid
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	bridge := &clientBridge{
		chatListeners: make(map[string]repository.UnsubscribeFunc),
	}

	client := &ws.Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}
	client.OnMessage = func(data []byte) {
		h.handleCommand(client, bridge, data)
	}
	client.OnClose = bridge.teardown

	// Register before subscribing: the notification listener fires its
	// initial snapshot immediately, and the client must be routable by then.
	h.wsManager.RegisterClient(client)
	go client.ReadPump(h.wsManager)
	go client.WritePump()

	// Listener lifetimes are tied to the bridge, not the HTTP request.
	unsubscribe, err := h.notificationUseCase.SubscribeToNotifications(
		context.Background(), userID, func(notifications []*entity.Notification) {
			h.wsManager.SendEventToUser(userID, ws.EventNotifications, notifications)
		})
	if err != nil {
		logger.Error("WebSocket: notification subscription failed for %s: %v", userID, err)
		h.wsManager.Unregister <- client
		return nil
	}
	bridge.setNotifListener(unsubscribe)

	return nil
}

func (h *WebSocketHandler) handleCommand(client *ws.Client, bridge *clientBridge, data []byte) {
	var cmd ws.Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		h.wsManager.SendEventToUser(client.UserID, ws.EventError, "invalid command format")
		return
	}

	switch cmd.Type {
	case ws.CommandPing:
		h.wsManager.SendEventToUser(client.UserID, ws.EventPong, nil)

	case ws.CommandSubscribeChat:
		userID := client.UserID
		threadID := entity.ChatThreadID(userID, cmd.OtherUserID)
		unsubscribe, err := h.chatUseCase.SubscribeToMessages(
			context.Background(), userID, cmd.OtherUserID, func(messages []*entity.Message) {
				h.wsManager.SendEventToUser(userID, ws.EventMessageSnapshot, map[string]interface{}{
					"chat_id":  threadID,
					"messages": messages,
				})
			})
		if err != nil {
			h.wsManager.SendEventToUser(userID, ws.EventError, err.Error())
			return
		}
		bridge.addChatListener(cmd.OtherUserID, unsubscribe)

	case ws.CommandUnsubscribeChat:
		bridge.removeChatListener(cmd.OtherUserID)

	default:
		h.wsManager.SendEventToUser(client.UserID, ws.EventError, "unknown command type")
	}
}
