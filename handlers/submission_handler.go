package handlers

import (
	"github.com/anjiri1684/pkl_sertifikasi/apperrors"
	"github.com/anjiri1684/pkl_sertifikasi/database"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/anjiri1684/pkl_sertifikasi/services"
	"github.com/anjiri1684/pkl_sertifikasi/storage"
	"github.com/anjiri1684/pkl_sertifikasi/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SubmissionRequest is sent as JSON with a url, or as multipart with a file
// field.
type SubmissionRequest struct {
	Title        string `json:"title" form:"title"`
	URL          string `json:"url" form:"url"`
	WeekNumber   int    `json:"week_number" form:"week_number"`
	Activities   string `json:"activities" form:"activities"`
	DocumentType string `json:"document_type" form:"document_type"`
	Description  string `json:"description" form:"description"`
}

type ReviewSubmissionRequest struct {
	Action   string `json:"action" validate:"required,oneof=approve reject"`
	Feedback string `json:"feedback"`
}

func parseSubmission(c *fiber.Ctx) (SubmissionRequest, services.SubmissionInput, error) {
	var req SubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return req, services.SubmissionInput{}, apperrors.Validation("Cannot parse request body")
	}
	file, err := storeFormFile(c, "file", storage.FolderSubmissions)
	if err != nil {
		return req, services.SubmissionInput{}, err
	}
	return req, services.SubmissionInput{Title: req.Title, URL: req.URL, File: file}, nil
}

// CreateSubmission handles the three upload kinds under a registration.
func CreateSubmission(kind models.SubmissionKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return respondError(c, err)
		}
		registrationID, err := uuidParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}
		req, in, err := parseSubmission(c)
		if err != nil {
			return respondError(c, err)
		}

		var rec models.Reviewable
		switch kind {
		case models.KindWeeklyReport:
			rec, err = services.CreateWeeklyReport(database.DB, actor, registrationID, services.WeeklyReportInput{
				SubmissionInput: in, WeekNumber: req.WeekNumber, Activities: req.Activities,
			})
		case models.KindInternshipDocument:
			rec, err = services.CreateInternshipDocument(database.DB, actor, registrationID, services.InternshipDocumentInput{
				SubmissionInput: in, DocumentType: req.DocumentType,
			})
		case models.KindCertificationTask:
			rec, err = services.CreateCertificationTask(database.DB, actor, registrationID, services.CertificationTaskInput{
				SubmissionInput: in, Description: req.Description,
			})
		default:
			err = apperrors.Validation("unknown submission kind %q", kind)
		}
		if err != nil {
			discardFiles(c, in.File)
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(statusResponse(rec.GetID(), rec.GetSubmission().Status))
	}
}

func ReviewSubmission(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}
	kind := models.SubmissionKind(c.Params("kind"))
	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req ReviewSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}
	outcome := models.SubmissionApproved
	if req.Action == "reject" {
		outcome = models.SubmissionRejected
	}

	rec, err := services.ReviewSubmission(database.DB, actor, kind, id, outcome, req.Feedback)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(statusResponse(rec.GetID(), rec.GetSubmission().Status))
}

// ListSubmissionsByStatus is the reviewer queue: GET /submissions/:kind?status=pending.
func ListSubmissionsByStatus(c *fiber.Ctx) error {
	kind := models.SubmissionKind(c.Params("kind"))
	model, err := services.NewReviewable(kind)
	if err != nil {
		return respondError(c, err)
	}
	status := models.SubmissionStatus(c.Query("status", string(models.SubmissionPending)))
	if !status.Valid() {
		return respondError(c, apperrors.Validation("unknown status %q", status))
	}
	_, limit, offset := pagination(c)

	dest := submissionSlice(kind)
	err = database.DB.Model(model).
		Where("status = ?", status).
		Order("submitted_at asc").
		Offset(offset).Limit(limit).
		Find(dest).Error
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dest)
}

func submissionSlice(kind models.SubmissionKind) any {
	switch kind {
	case models.KindWeeklyReport:
		return &[]models.WeeklyReport{}
	case models.KindInternshipDocument:
		return &[]models.InternshipDocument{}
	}
	return &[]models.CertificationTask{}
}

// ListRegistrationSubmissions returns every upload of one registration to
// its owner or to staff.
func ListRegistrationSubmissions(program models.ProgramType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return respondError(c, err)
		}
		id, err := uuidParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}

		model, _ := registrationModel(program)
		var owners []uuid.UUID
		if err := database.DB.Model(model).Where("id = ?", id).Pluck("candidate_id", &owners).Error; err != nil {
			return respondError(c, err)
		}
		if len(owners) == 0 {
			return respondError(c, apperrors.NotFound("registration %s not found", id))
		}
		if owners[0] != actor.ID && !actor.CanAssess() {
			return respondError(c, apperrors.Authorization("this registration belongs to another candidate"))
		}

		if program == models.ProgramSertifikasi {
			var tasks []models.CertificationTask
			if err := database.DB.Where("registration_id = ?", id).Order("submitted_at asc").Find(&tasks).Error; err != nil {
				return respondError(c, err)
			}
			return c.JSON(fiber.Map{"tasks": tasks})
		}

		var reports []models.WeeklyReport
		var documents []models.InternshipDocument
		if err := database.DB.Where("registration_id = ?", id).Order("week_number asc").Find(&reports).Error; err != nil {
			return respondError(c, err)
		}
		if err := database.DB.Where("registration_id = ?", id).Order("submitted_at asc").Find(&documents).Error; err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"weekly_reports": reports, "documents": documents})
	}
}
