package chathub

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixiBack/internal/models"
)

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.URL.Query().Get("user"))
		hub.ServeWS(w, r, id)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, user int) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=" + strconv.Itoa(user)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestPublishReachesBothParties(t *testing.T) {
	hub := New(nil, nil)
	srv := newTestServer(t, hub)

	proveedor := dial(t, srv, 2)
	cliente := dial(t, srv, 3)
	outsider := dial(t, srv, 4)
	require.Eventually(t, func() bool {
		return hub.Connected(2) && hub.Connected(3) && hub.Connected(4)
	}, time.Second, 10*time.Millisecond)

	chat := models.Chat{ID: 7, Mensaje: "hola", ProveedorID: 2, ClienteID: 3, FechaCreate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	hub.Publish(chat)

	for _, conn := range []*websocket.Conn{proveedor, cliente} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var ev Event
		require.NoError(t, conn.ReadJSON(&ev))
		assert.Equal(t, "chat", ev.Type)
		assert.Equal(t, chat, ev.Chat)
	}

	require.NoError(t, outsider.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := outsider.ReadMessage()
	assert.Error(t, err)
}

func TestPingPong(t *testing.T) {
	hub := New(nil, nil)
	srv := newTestServer(t, hub)
	conn := dial(t, srv, 5)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("ping")))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "pong", string(msg))
}

func TestDisconnectUnregisters(t *testing.T) {
	hub := New(nil, nil)
	srv := newTestServer(t, hub)
	conn := dial(t, srv, 6)
	require.Eventually(t, func() bool { return hub.Connected(6) }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return !hub.Connected(6) }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(models.Chat{ProveedorID: 6, ClienteID: 1})
}

func TestRejectsAnonymous(t *testing.T) {
	hub := New(nil, nil)
	srv := newTestServer(t, hub)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://fixi.mx"})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, check(r))
	r.Header.Set("Origin", "https://fixi.mx")
	assert.True(t, check(r))
	r.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(r))
}
