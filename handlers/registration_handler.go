package handlers

import (
	"errors"
	"math"

	"github.com/anjiri1684/pkl_sertifikasi/apperrors"
	"github.com/anjiri1684/pkl_sertifikasi/database"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/anjiri1684/pkl_sertifikasi/services"
	"github.com/anjiri1684/pkl_sertifikasi/storage"
	"github.com/anjiri1684/pkl_sertifikasi/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InternshipRegistrationRequest accepts JSON or multipart; in multipart the
// cv and portfolio files are uploaded before the registration is stored.
type InternshipRegistrationRequest struct {
	PositionID     string         `json:"position_id" form:"position_id" validate:"required,uuid"`
	Institution    string         `json:"institution" form:"institution"`
	Major          string         `json:"major" form:"major"`
	EducationLevel string         `json:"education_level" form:"education_level"`
	Motivation     string         `json:"motivation" form:"motivation"`
	HasLaptop      *bool          `json:"has_laptop" form:"has_laptop"`
	AgreesToRules  *bool          `json:"agrees_to_rules" form:"agrees_to_rules"`
	EquipmentNotes string         `json:"equipment_notes" form:"equipment_notes"`
	CVURL          string         `json:"cv_url" form:"cv_url" validate:"omitempty,url"`
	PortfolioURL   string         `json:"portfolio_url" form:"portfolio_url" validate:"omitempty,url"`
	ExtraAnswers   map[string]any `json:"extra_answers" form:"-"`
}

type CertificationRegistrationRequest struct {
	ProgramID   string `json:"program_id" validate:"required,uuid"`
	BatchID     string `json:"batch_id" validate:"required,uuid"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Institution string `json:"institution"`
}

type RegistrationActionRequest struct {
	Action    string  `json:"action" validate:"required,oneof=approve reject cancel"`
	Note      string  `json:"note"`
	Reason    string  `json:"reason"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

func CreateInternshipRegistration(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}

	var req InternshipRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse request body")
	}
	if err := utils.Validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	cv, err := storeFormFile(c, "cv", storage.FolderCV)
	if err != nil {
		return respondError(c, err)
	}
	portfolio, err := storeFormFile(c, "portfolio", storage.FolderPortfolio)
	if err != nil {
		discardFiles(c, cv)
		return respondError(c, err)
	}
	if cv.Empty() && req.CVURL != "" {
		cv = models.FileRef{URL: req.CVURL, Name: "cv"}
	}
	if portfolio.Empty() && req.PortfolioURL != "" {
		portfolio = models.FileRef{URL: req.PortfolioURL, Name: "portfolio"}
	}

	out, err := services.SubmitInternshipRegistration(database.DB, actor, services.InternshipRegistrationInput{
		PositionID:     uuid.MustParse(req.PositionID),
		Institution:    req.Institution,
		Major:          req.Major,
		EducationLevel: req.EducationLevel,
		Motivation:     req.Motivation,
		HasLaptop:      req.HasLaptop,
		AgreesToRules:  req.AgreesToRules,
		EquipmentNotes: req.EquipmentNotes,
		CV:             cv,
		Portfolio:      portfolio,
		ExtraAnswers:   req.ExtraAnswers,
	})
	if err != nil {
		discardFiles(c, cv, portfolio)
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func CreateCertificationRegistration(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return respondError(c, err)
	}

	var req CertificationRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	out, err := services.SubmitCertificationRegistration(database.DB, actor, services.CertificationRegistrationInput{
		ProgramID:   uuid.MustParse(req.ProgramID),
		BatchID:     uuid.MustParse(req.BatchID),
		Phone:       req.Phone,
		Email:       req.Email,
		Institution: req.Institution,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateRegistration applies approve, reject or cancel.
func UpdateRegistration(program models.ProgramType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return respondError(c, err)
		}
		id, err := uuidParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}

		var req RegistrationActionRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Cannot parse JSON")
		}
		if err := utils.Validate.Struct(req); err != nil {
			return validationFailed(c, err)
		}

		var out *services.RegistrationOutcome
		switch req.Action {
		case "approve":
			start, err := parseDate("start_date", req.StartDate)
			if err != nil {
				return respondError(c, err)
			}
			end, err := parseDate("end_date", req.EndDate)
			if err != nil {
				return respondError(c, err)
			}
			out, err = services.ApproveRegistration(database.DB, actor, program, id, services.ApprovalInput{
				Note: req.Note, StartDate: start, EndDate: end,
			})
			if err != nil {
				return respondError(c, err)
			}
		case "reject":
			reason := req.Reason
			if reason == "" {
				reason = req.Note
			}
			out, err = services.RejectRegistration(database.DB, actor, program, id, reason)
		case "cancel":
			out, err = services.CancelRegistration(database.DB, actor, program, id)
		}
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(statusResponse(out.ID, out.Status))
	}
}

func registrationModel(program models.ProgramType) (model any, dest any) {
	if program == models.ProgramPKL {
		return &models.InternshipRegistration{}, &[]models.InternshipRegistration{}
	}
	return &models.CertificationRegistration{}, &[]models.CertificationRegistration{}
}

func withRegistrationDetails(q *gorm.DB, program models.ProgramType) *gorm.DB {
	if program == models.ProgramPKL {
		return q.Preload("Position").Preload("Assessment")
	}
	return q.Preload("Program").Preload("Batch").Preload("Assessment")
}

func ListMyRegistrations(program models.ProgramType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return respondError(c, err)
		}
		_, dest := registrationModel(program)
		q := withRegistrationDetails(database.DB, program)
		if err := q.Where("candidate_id = ?", actor.ID).Order("submitted_at desc").Find(dest).Error; err != nil {
			return respondError(c, err)
		}
		return c.JSON(dest)
	}
}

// AdminListRegistrations lists registrations, optionally filtered by ?status=.
func AdminListRegistrations(program models.ProgramType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit, offset := pagination(c)
		model, dest := registrationModel(program)
		q := database.DB.Model(model)

		if raw := c.Query("status"); raw != "" {
			status := models.RegistrationStatus(raw)
			if !status.Valid() {
				return respondError(c, apperrors.Validation("unknown status %q", raw))
			}
			q = q.Where("status = ?", status)
		}

		var total int64
		if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			return respondError(c, err)
		}
		q = withRegistrationDetails(q, program).Preload("Candidate")
		if err := q.Order("submitted_at asc").Offset(offset).Limit(limit).Find(dest).Error; err != nil {
			return respondError(c, err)
		}

		return c.JSON(fiber.Map{
			"data": dest,
			"meta": fiber.Map{
				"total":        total,
				"total_pages":  int(math.Ceil(float64(total) / float64(limit))),
				"current_page": page,
			},
		})
	}
}

// GetRegistration is visible to the owning candidate and to staff.
func GetRegistration(program models.ProgramType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return respondError(c, err)
		}
		id, err := uuidParam(c, "id")
		if err != nil {
			return respondError(c, err)
		}

		var reg any
		var owner uuid.UUID
		if program == models.ProgramPKL {
			var r models.InternshipRegistration
			err = database.DB.Preload("Position").Preload("Assessment").Preload("Candidate").First(&r, "id = ?", id).Error
			reg, owner = &r, r.CandidateID
		} else {
			var r models.CertificationRegistration
			err = database.DB.Preload("Program").Preload("Batch").Preload("Assessment").Preload("Candidate").First(&r, "id = ?", id).Error
			reg, owner = &r, r.CandidateID
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, apperrors.NotFound("registration %s not found", id))
		}
		if err != nil {
			return respondError(c, err)
		}
		if owner != actor.ID && !actor.CanAssess() {
			return respondError(c, apperrors.Authorization("this registration belongs to another candidate"))
		}
		return c.JSON(reg)
	}
}
