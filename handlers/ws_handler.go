package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	config "github.com/anjiri1684/pkl_sertifikasi/configs"
	"github.com/anjiri1684/pkl_sertifikasi/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// UpgradeRequired rejects plain HTTP requests to the websocket endpoint.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocketcontrib.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ServeWs authenticates the connection with a first {"type":"auth"} message
// and then keeps it registered for status events until the client leaves.
func ServeWs(c *websocketcontrib.Conn) {
	type AuthMessage struct {
		Type  string `json:"type"`
		Token string `json:"token"`
	}
	var authMsg AuthMessage
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		slog.Warn("websocket auth failed: invalid or missing auth message", "error", err)
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}

	claims, err := parseToken(authMsg.Token)
	if err != nil {
		slog.Warn("websocket auth failed: invalid token", "error", err)
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		c.Close()
		return
	}
	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid user ID"})
		c.Close()
		return
	}

	if err := c.WriteJSON(fiber.Map{"type": "auth_ok"}); err != nil {
		c.Close()
		return
	}

	client := websocket.NewClient(userID, c)
	done := make(chan struct{})
	go func() {
		client.WritePump()
		close(done)
	}()
	websocket.Register <- client
	// The connection is released when this handler returns, so wait for the
	// writer to stop first.
	defer func() {
		websocket.Unregister <- client
		<-done
	}()

	// Events only flow server to client; reads just detect the close.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if !websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				slog.Debug("websocket read error", "user_id", userID, "error", err)
			}
			return
		}
	}
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
