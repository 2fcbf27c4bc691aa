package handler_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"fitlink/internal/adapter/api/handler"
	adapter "fitlink/internal/adapter/repository"
	"fitlink/internal/domain/entity"
	"fitlink/internal/usecase"
	ws "fitlink/internal/infrastructure/websocket"
)

type wsFixture struct {
	notifUC *usecase.NotificationUseCase
	server  *httptest.Server
}

func newWSFixture(t *testing.T, uid string) *wsFixture {
	t.Helper()

	chatRepo := adapter.NewMemoryChatRepository()
	userRepo := adapter.NewMemoryUserRepository()
	notifRepo := adapter.NewMemoryNotificationRepository()
	require.NoError(t, userRepo.Create(context.Background(), &entity.User{
		ID: uid, Username: uid, DisplayName: uid,
	}))

	manager := ws.NewManager()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	manager.Start(ctx)

	chatUC := usecase.NewChatUseCase(chatRepo, userRepo, notifRepo, manager, nil)
	notifUC := usecase.NewNotificationUseCase(notifRepo, userRepo, adapter.NewMemoryWorkoutRepository(), chatUC)

	h := handler.NewWebSocketHandler(manager, nil, chatUC, notifUC)

	e := echo.New()
	e.GET("/v1/ws", func(c echo.Context) error {
		c.Set("uid", uid)
		return h.HandleWebSocket(c)
	})

	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	return &wsFixture{
		notifUC: notifUC,
		server:  server,
	}
}

func (f *wsFixture) dial(t *testing.T) *gorillaws.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/v1/ws"
	conn, resp, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *gorillaws.Conn, eventType string) ws.Event {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err, "no %s event before the read deadline", eventType)

		var event ws.Event
		require.NoError(t, json.Unmarshal(data, &event))
		if event.Type == eventType {
			return event
		}
	}
}

// A notification that exists before the client connects must arrive in the
// listener's first snapshot, not only after the next change.
func TestWebSocketDeliversInitialNotificationSnapshot(t *testing.T) {
	f := newWSFixture(t, "bob")

	_, err := f.notifUC.CreateNotification(context.Background(), usecase.CreateNotificationInput{
		Type:        entity.NotificationTypeSystem,
		RecipientID: "bob",
	})
	require.NoError(t, err)

	conn := f.dial(t)

	event := readEvent(t, conn, ws.EventNotifications)
	items, ok := event.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
}

func TestWebSocketDeliversNotificationChanges(t *testing.T) {
	f := newWSFixture(t, "bob")
	conn := f.dial(t)

	// Initial snapshot is empty.
	event := readEvent(t, conn, ws.EventNotifications)
	require.Empty(t, event.Data)

	_, err := f.notifUC.CreateNotification(context.Background(), usecase.CreateNotificationInput{
		Type:        entity.NotificationTypeSystem,
		RecipientID: "bob",
	})
	require.NoError(t, err)

	event = readEvent(t, conn, ws.EventNotifications)
	items, ok := event.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
}
