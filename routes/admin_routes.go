package routes

import (
	"github.com/anjiri1684/pkl_sertifikasi/handlers"
	"github.com/anjiri1684/pkl_sertifikasi/middleware"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/dashboard-analytics", handlers.GetDashboardAnalytics)

	admin.Get("/pkl/registrations", handlers.AdminListRegistrations(models.ProgramPKL))
	admin.Get("/sertifikasi/registrations", handlers.AdminListRegistrations(models.ProgramSertifikasi))

	positions := admin.Group("/positions")
	positions.Post("", handlers.CreatePosition)
	positions.Put("/:id", handlers.UpdatePosition)

	programs := admin.Group("/programs")
	programs.Post("", handlers.CreateProgram)
	programs.Put("/:id", handlers.UpdateProgram)
	programs.Post("/:id/batches", handlers.CreateBatch)
	programs.Put("/:id/batches/:batchId", handlers.UpdateBatch)

	users := admin.Group("/users")
	users.Get("", handlers.GetAllUsers)
	users.Post("", handlers.CreateStaffUser)
	users.Put("/:userId/status", handlers.ToggleUserStatus)

	admin.Get("/certificates", handlers.AdminListCertificates)
	admin.Delete("/reviews/:id", handlers.AdminDeleteReview)
}
