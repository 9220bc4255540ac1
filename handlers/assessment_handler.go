package handlers

import (
	"github.com/anjiri1684/pkl_sertifikasi/database"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/anjiri1684/pkl_sertifikasi/services"
	"github.com/gofiber/fiber/v2"
)

type AssessmentRequest struct {
	Outcome string               `json:"outcome"`
	Note    string               `json:"note"`
	Scores  *services.ScoreSheet `json:"scores"`
}

func AssessRegistration(program models.ProgramType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return respondError(c, err)
		}
		id, err := uuidParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}

		var req AssessmentRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Cannot parse JSON")
		}
		in := services.AssessmentInput{Outcome: req.Outcome, Note: req.Note, Scores: req.Scores}

		if program == models.ProgramPKL {
			a, err := services.AssessInternship(database.DB, actor, id, in)
			if err != nil {
				return respondError(c, err)
			}
			return c.JSON(fiber.Map{"id": a.ID, "status": a.Status, "final_score": a.FinalScore})
		}
		a, err := services.AssessCertification(database.DB, actor, id, in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(statusResponse(a.ID, a.Status))
	}
}
