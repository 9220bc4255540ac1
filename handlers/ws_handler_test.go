package handlers_test

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/pkl_sertifikasi/models"
	hub "github.com/anjiri1684/pkl_sertifikasi/websocket"
	fastws "github.com/fasthttp/websocket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *testServer) listen() string {
	s.t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(s.t, err)
	go func() { _ = s.app.Listener(ln) }()
	s.t.Cleanup(func() { _ = s.app.ShutdownWithTimeout(time.Second) })
	return "ws://" + ln.Addr().String() + "/api/v1/ws"
}

func publishUntil(stop <-chan struct{}, userID uuid.UUID) {
	ticker := time.NewTicker(2 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			hub.Publish(hub.Event{Type: "registration.status", Status: "Disetujui", UserID: userID})
		}
	}
}

func TestWebsocketEventsWhileClientsAuthenticate(t *testing.T) {
	s := newTestServer(t)
	url := s.listen()

	const clients = 25
	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		u, token := s.user(models.RoleCandidate)
		wg.Add(1)
		go func() {
			defer wg.Done()
			stop := make(chan struct{})
			defer close(stop)
			go publishUntil(stop, u.ID)

			conn, _, err := fastws.DefaultDialer.Dial(url, nil)
			if !assert.NoError(t, err) {
				return
			}
			defer conn.Close()
			_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

			if !assert.NoError(t, conn.WriteJSON(map[string]string{"type": "auth", "token": token})) {
				return
			}
			var first map[string]any
			if !assert.NoError(t, conn.ReadJSON(&first)) {
				return
			}
			assert.Equal(t, "auth_ok", first["type"])

			var ev map[string]any
			if !assert.NoError(t, conn.ReadJSON(&ev)) {
				return
			}
			assert.Equal(t, "registration.status", ev["type"])
			assert.Equal(t, "Disetujui", ev["status"])
		}()
	}
	wg.Wait()
}

func TestWebsocketRejectsBadToken(t *testing.T) {
	s := newTestServer(t)
	url := s.listen()

	conn, _, err := fastws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "auth", "token": "nope"}))
	var reply map[string]any
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, "Invalid token", reply["error"])
}
