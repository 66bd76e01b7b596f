package ws

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tablesync/internal/core/domain/model/notification"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-hub.done
	})
	return hub
}

func mockClient(hub *Hub, waitress string, buffer int) *Client {
	client := &Client{hub: hub, waitress: waitress, send: make(chan []byte, buffer)}
	hub.register <- client
	return client
}

func kitchenCall(t *testing.T, waitress string) *notification.Notification {
	t.Helper()
	n, err := notification.NewKitchenCall("12", waitress, "", time.Date(2025, 3, 14, 19, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	return n
}

func TestHub_SurfaceReachesOnlyTargetWaitress(t *testing.T) {
	hub := startHub(t)
	audrey := mockClient(hub, "Audrey", 4)
	bianca := mockClient(hub, "Bianca", 4)
	n := kitchenCall(t, "Audrey")

	require.NoError(t, hub.Surface(t.Context(), n))

	require.Len(t, audrey.send, 1)
	assert.Empty(t, bianca.send)

	var event struct {
		Type    string              `json:"type"`
		Payload NotificationPayload `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(<-audrey.send, &event))
	assert.Equal(t, "notification", event.Type)
	assert.Equal(t, n.ID().String(), event.Payload.ID)
	assert.Equal(t, "12", event.Payload.Table)
	assert.Equal(t, n.Type().String(), event.Payload.Type)
}

func TestHub_SurfaceWithoutSubscriber(t *testing.T) {
	hub := startHub(t)

	err := hub.Surface(t.Context(), kitchenCall(t, "Chloe"))

	require.ErrorIs(t, err, ErrNoSubscriber)
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := startHub(t)
	slow := mockClient(hub, "Audrey", 1)

	require.NoError(t, hub.Surface(t.Context(), kitchenCall(t, "Audrey")))
	err := hub.Surface(t.Context(), kitchenCall(t, "Audrey"))

	require.ErrorIs(t, err, ErrNoSubscriber)
	<-slow.send
	_, open := <-slow.send
	assert.False(t, open, "a dropped client has its send channel closed")
}

func TestHub_UnregisterRemovesRoom(t *testing.T) {
	hub := startHub(t)
	client := mockClient(hub, "Audrey", 1)

	hub.unregister <- client

	require.ErrorIs(t, hub.Surface(t.Context(), kitchenCall(t, "Audrey")), ErrNoSubscriber)
}

func TestHub_ServeDeliversOverWebsocket(t *testing.T) {
	hub := startHub(t)
	e := echo.New()
	e.GET("/ws", hub.Serve)
	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?waitress=Audrey"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	n := kitchenCall(t, "Audrey")
	require.Eventually(t, func() bool {
		return hub.Surface(t.Context(), n) == nil
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(frame), n.ID().String())
}

func TestHub_ServeRequiresWaitress(t *testing.T) {
	hub := startHub(t)
	e := echo.New()
	e.GET("/ws", hub.Serve)
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, httptest.NewRequest("GET", "/ws", nil))

	assert.Equal(t, 400, rec.Code)
}
