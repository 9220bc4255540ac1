package handlers

import (
	"github.com/anjiri1684/pkl_sertifikasi/database"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/anjiri1684/pkl_sertifikasi/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReviewRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

type ReviewSummary struct {
	Count         int64   `json:"count"`
	AverageRating float64 `json:"average_rating"`
}

func SubmitReview(program models.ProgramType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return respondError(c, err)
		}
		programID, err := uuidParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}

		var req ReviewRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Cannot parse JSON")
		}
		review, err := services.SubmitReview(database.DB, actor, program, programID, req.Rating, req.Text)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": review.ID})
	}
}

func ListProgramReviews(program models.ProgramType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		programID, err := uuidParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}

		var reviews []models.ProgramReview
		err = database.DB.
			Preload("Candidate", func(db *gorm.DB) *gorm.DB { return db.Select("id", "full_name") }).
			Where("program_type = ? AND program_id = ?", program, programID).
			Order("created_at desc").
			Find(&reviews).Error
		if err != nil {
			return respondError(c, err)
		}

		var summary ReviewSummary
		err = database.DB.Model(&models.ProgramReview{}).
			Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average_rating").
			Where("program_type = ? AND program_id = ?", program, programID).
			Scan(&summary).Error
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"data": reviews, "summary": summary})
	}
}

func AdminDeleteReview(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	result := database.DB.Delete(&models.ProgramReview{}, "id = ?", id)
	if result.Error != nil {
		return respondError(c, result.Error)
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Review not found", "kind": "not_found"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
