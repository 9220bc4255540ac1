package websocket

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishNeverBlocks(t *testing.T) {
	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer*4; i++ {
			Publish(Event{Type: "registration.status", UserID: uuid.New()})
		}
		close(done)
	}()
	<-done
}

func TestConnectedUnknownUser(t *testing.T) {
	assert.False(t, Connected(uuid.New()))
}

func receive(t *testing.T, ch chan Event) (Event, bool) {
	t.Helper()
	select {
	case ev, ok := <-ch:
		return ev, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting on client queue")
		return Event{}, false
	}
}

func TestHubQueuesEventsForRegisteredClient(t *testing.T) {
	client := NewClient(uuid.New(), nil)
	Register <- client
	require.Eventually(t, func() bool { return Connected(client.UserID) }, time.Second, 5*time.Millisecond)

	Publish(Event{Type: "registration.status", Status: "Disetujui", UserID: client.UserID})
	ev, ok := receive(t, client.Send)
	require.True(t, ok)
	assert.Equal(t, "Disetujui", ev.Status)
	assert.False(t, ev.OccurredAt.IsZero())

	Unregister <- client
	_, ok = receive(t, client.Send)
	assert.False(t, ok, "queue is closed on unregister")
	assert.Eventually(t, func() bool { return !Connected(client.UserID) }, time.Second, 5*time.Millisecond)
}

func TestHubReplacesClientOfSameUser(t *testing.T) {
	userID := uuid.New()
	first := NewClient(userID, nil)
	second := NewClient(userID, nil)

	Register <- first
	Register <- second
	_, ok := receive(t, first.Send)
	assert.False(t, ok, "replaced client queue is closed")

	// A late unregister of the replaced client leaves the new one alone.
	Unregister <- first
	Publish(Event{Type: "submission.status", Status: "approved", UserID: userID})
	ev, ok := receive(t, second.Send)
	require.True(t, ok)
	assert.Equal(t, "approved", ev.Status)

	Unregister <- second
}
