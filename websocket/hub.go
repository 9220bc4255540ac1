package websocket

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

const (
	broadcastBuffer = 256
	clientBuffer    = 16
	writeWait       = 10 * time.Second
)

// Client is one authenticated connection. Only WritePump writes to Conn
// once the client is registered.
type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan Event
}

func NewClient(userID uuid.UUID, conn *websocket.Conn) *Client {
	return &Client{UserID: userID, Conn: conn, Send: make(chan Event, clientBuffer)}
}

// WritePump delivers queued events until Send is closed by the hub or a
// write fails. It closes the connection on exit.
func (c *Client) WritePump() {
	defer c.Conn.Close()
	for ev := range c.Send {
		_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.Conn.WriteJSON(ev); err != nil {
			slog.Warn("error sending event to client", "user_id", c.UserID, "error", err)
			return
		}
	}
	_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// Event is pushed to a single user when something they own changes state.
type Event struct {
	Type       string    `json:"type"`
	Entity     string    `json:"entity"`
	EntityID   uuid.UUID `json:"entity_id"`
	Status     string    `json:"status"`
	Message    string    `json:"message,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`

	UserID uuid.UUID `json:"-"`
}

var clients = make(map[uuid.UUID]*Client)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan Event, broadcastBuffer)

func init() {
	go RunHub()
}

// Publish queues ev for its user. It never blocks the caller; events are
// dropped when the buffer is full.
func Publish(ev Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}
	select {
	case Broadcast <- ev:
	default:
		slog.Warn("websocket broadcast buffer full, dropping event", "user_id", ev.UserID, "type", ev.Type)
	}
}

// Connected reports whether userID has a live connection.
func Connected(userID uuid.UUID) bool {
	clientsMu.RLock()
	defer clientsMu.RUnlock()
	_, ok := clients[userID]
	return ok
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			slog.Debug("websocket client registered", "user_id", client.UserID)
			clientsMu.Lock()
			if old, ok := clients[client.UserID]; ok {
				close(old.Send)
			}
			clients[client.UserID] = client
			clientsMu.Unlock()
		case client := <-Unregister:
			slog.Debug("websocket client unregistered", "user_id", client.UserID)
			clientsMu.Lock()
			if current, ok := clients[client.UserID]; ok && current == client {
				delete(clients, client.UserID)
				close(client.Send)
			}
			clientsMu.Unlock()
		case ev := <-Broadcast:
			clientsMu.RLock()
			client, ok := clients[ev.UserID]
			if ok {
				select {
				case client.Send <- ev:
				default:
					slog.Warn("websocket client queue full, dropping event", "user_id", ev.UserID, "type", ev.Type)
				}
			}
			clientsMu.RUnlock()
		}
	}
}
