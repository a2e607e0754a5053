package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func runHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func TestHubBroadcastToWebsocket(t *testing.T) {
	hub, _ := runHub(t)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(conn)
		hub.Register(client)
		go hub.ReadPump(client)
		go hub.WritePump(client)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)
	hub.Broadcast([]byte(`{"type":"report_updated"}`))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"report_updated"}`, string(msg))

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubDropsSlowClient(t *testing.T) {
	hub, _ := runHub(t)
	slow := &Client{Send: make(chan []byte)}
	hub.Register(slow)
	require.Equal(t, 1, hub.Clients())

	hub.Broadcast([]byte("x"))

	assert.Equal(t, 0, hub.Clients())
	_, open := <-slow.Send
	assert.False(t, open)
}

func TestHubAfterShutdown(t *testing.T) {
	hub, cancel := runHub(t)
	client := &Client{Send: make(chan []byte, 1)}
	hub.Register(client)
	cancel()

	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 5*time.Millisecond)
	hub.Broadcast([]byte("ignored"))
	hub.Unregister(client)

	_, open := <-client.Send
	assert.False(t, open)
}
