package routes

import (
	"github.com/anjiri1684/pkl_sertifikasi/handlers"
	"github.com/anjiri1684/pkl_sertifikasi/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile/me", middleware.Protected())
	profile.Get("", handlers.GetProfile)
	profile.Put("", handlers.UpdateProfile)

	api.Get("/certificates/me", middleware.Protected(), handlers.ListMyCertificates)
}
