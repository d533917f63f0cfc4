package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) {
		c.Set("userID", int64(1))
		c.Next()
	}, NewHandler(hub, zerolog.Nop()).HandleConnection)
	return httptest.NewServer(r)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 10*time.Millisecond)
}

func TestHubDeliversNotifications(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	srv := newTestServer(t, hub)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Notify(EventUserRegistered, map[string]string{"email": "jane@example.com"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, EventUserRegistered, msg.Type)
	assert.Equal(t, "jane@example.com", msg.Data["email"])

	require.NoError(t, conn.Close())
	waitFor(t, func() bool { return hub.ClientCount() == 0 })

	cancel()
	<-stopped
}

func TestHubShutdownClosesClients(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	srv := newTestServer(t, hub)
	defer srv.Close()

	conn, _, err := gorilla.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	cancel()
	<-stopped

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)

	// Notify after shutdown must not block
	hub.Notify(EventJobPosted, nil)
}

func TestSameOrigin(t *testing.T) {
	req := httptest.NewRequest("GET", "http://alumni.example.com/api/v1/admin/ws", nil)
	assert.True(t, sameOrigin(req))

	req.Header.Set("Origin", "http://alumni.example.com")
	assert.True(t, sameOrigin(req))

	req.Header.Set("Origin", "http://evil.example.com")
	assert.False(t, sameOrigin(req))
}
