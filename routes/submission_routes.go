package routes

import (
	"github.com/anjiri1684/pkl_sertifikasi/handlers"
	"github.com/anjiri1684/pkl_sertifikasi/middleware"
	"github.com/gofiber/fiber/v2"
)

func SubmissionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	submissions := api.Group("/submissions", middleware.Protected(), middleware.StaffRequired())
	submissions.Get("/:kind", handlers.ListSubmissionsByStatus)
	submissions.Patch("/:kind/:id", handlers.ReviewSubmission)
}
