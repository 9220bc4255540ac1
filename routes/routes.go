package routes

import (
	"github.com/anjiri1684/pkl_sertifikasi/metrics"
	"github.com/gofiber/fiber/v2"
)

// Setup mounts every API group on app.
func Setup(app *fiber.App) {
	app.Get("/metrics", metrics.Handler())

	AuthRoutes(app)
	ProfileRoutes(app)
	UploadRoutes(app)
	PKLRoutes(app)
	SertifikasiRoutes(app)
	SubmissionRoutes(app)
	AdminRoutes(app)
	NotificationRoutes(app)
}
