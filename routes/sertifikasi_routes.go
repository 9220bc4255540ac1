package routes

import (
	"github.com/anjiri1684/pkl_sertifikasi/handlers"
	"github.com/anjiri1684/pkl_sertifikasi/middleware"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/gofiber/fiber/v2"
)

func SertifikasiRoutes(app *fiber.App) {
	api := app.Group("/api/v1")
	sertifikasi := api.Group("/sertifikasi")

	programs := sertifikasi.Group("/programs")
	programs.Get("", handlers.ListPrograms)
	programs.Get("/:id/reviews", handlers.ListProgramReviews(models.ProgramSertifikasi))
	programs.Post("/:id/review", middleware.Protected(), middleware.CandidateRequired(), handlers.SubmitReview(models.ProgramSertifikasi))

	registrations := sertifikasi.Group("/registrations", middleware.Protected())
	registrations.Post("", middleware.CandidateRequired(), handlers.CreateCertificationRegistration)
	registrations.Get("/me", handlers.ListMyRegistrations(models.ProgramSertifikasi))
	registrations.Get("/:id", handlers.GetRegistration(models.ProgramSertifikasi))
	registrations.Patch("/:id", handlers.UpdateRegistration(models.ProgramSertifikasi))
	registrations.Get("/:id/submissions", handlers.ListRegistrationSubmissions(models.ProgramSertifikasi))
	registrations.Post("/:id/tasks", handlers.CreateSubmission(models.KindCertificationTask))
	registrations.Post("/:id/assessment", middleware.StaffRequired(), handlers.AssessRegistration(models.ProgramSertifikasi))
	registrations.Post("/:id/certificate", middleware.AdminRequired(), handlers.IssueCertificate(models.ProgramSertifikasi))
}
