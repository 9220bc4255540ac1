package handlers

import (
	"time"

	"github.com/anjiri1684/pkl_sertifikasi/database"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/anjiri1684/pkl_sertifikasi/services"
	"github.com/anjiri1684/pkl_sertifikasi/storage"
	"github.com/gofiber/fiber/v2"
)

type IssueCertificateRequest struct {
	IssueDate *string `json:"issue_date"`
	Link      string  `json:"link"`
	Note      string  `json:"note"`
}

// IssueCertificate issues with the given link, or renders and uploads a PDF
// when the link is omitted.
func IssueCertificate(program models.ProgramType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return respondError(c, err)
		}
		id, err := uuidParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}

		var req IssueCertificateRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Cannot parse JSON")
		}
		issueDate, err := parseDate("issue_date", req.IssueDate)
		if err != nil {
			return respondError(c, err)
		}
		in := services.CertificateInput{Link: req.Link, Note: req.Note}
		if issueDate != nil {
			in.IssueDate = *issueDate
		} else {
			in.IssueDate = time.Now()
		}

		var cert *models.Certificate
		if in.Link == "" && actor.IsAdmin() {
			cert, err = services.IssueCertificateWithPDF(c.UserContext(), database.DB, storage.Default, actor, program, id, in)
		} else {
			cert, err = services.IssueCertificate(database.DB, actor, program, id, in)
		}
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": cert.ID, "certificate_link": cert.CertificateLink})
	}
}

func ListMyCertificates(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	var certificates []models.Certificate
	if err := database.DB.Where("candidate_id = ?", actor.ID).Order("issue_date desc").Find(&certificates).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(certificates)
}

func AdminListCertificates(c *fiber.Ctx) error {
	_, limit, offset := pagination(c)
	q := database.DB.Preload("Candidate").Order("issue_date desc")
	if program := models.ProgramType(c.Query("program")); program.Valid() {
		q = q.Where("program_type = ?", program)
	}
	var certificates []models.Certificate
	if err := q.Offset(offset).Limit(limit).Find(&certificates).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(certificates)
}
