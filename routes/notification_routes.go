package routes

import (
	"github.com/anjiri1684/pkl_sertifikasi/handlers"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func NotificationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Use("/ws", handlers.UpgradeRequired)
	api.Get("/ws", websocket.New(handlers.ServeWs))
}
