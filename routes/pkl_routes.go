package routes

import (
	"github.com/anjiri1684/pkl_sertifikasi/handlers"
	"github.com/anjiri1684/pkl_sertifikasi/middleware"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/gofiber/fiber/v2"
)

func PKLRoutes(app *fiber.App) {
	api := app.Group("/api/v1")
	pkl := api.Group("/pkl")

	positions := pkl.Group("/positions")
	positions.Get("", handlers.ListPositions)
	positions.Get("/:id/reviews", handlers.ListProgramReviews(models.ProgramPKL))
	positions.Post("/:id/review", middleware.Protected(), middleware.CandidateRequired(), handlers.SubmitReview(models.ProgramPKL))

	registrations := pkl.Group("/registrations", middleware.Protected())
	registrations.Post("", middleware.CandidateRequired(), handlers.CreateInternshipRegistration)
	registrations.Get("/me", handlers.ListMyRegistrations(models.ProgramPKL))
	registrations.Get("/:id", handlers.GetRegistration(models.ProgramPKL))
	registrations.Patch("/:id", handlers.UpdateRegistration(models.ProgramPKL))
	registrations.Get("/:id/submissions", handlers.ListRegistrationSubmissions(models.ProgramPKL))
	registrations.Post("/:id/weekly-reports", handlers.CreateSubmission(models.KindWeeklyReport))
	registrations.Post("/:id/documents", handlers.CreateSubmission(models.KindInternshipDocument))
	registrations.Post("/:id/assessment", middleware.StaffRequired(), handlers.AssessRegistration(models.ProgramPKL))
	registrations.Post("/:id/certificate", middleware.AdminRequired(), handlers.IssueCertificate(models.ProgramPKL))
}
