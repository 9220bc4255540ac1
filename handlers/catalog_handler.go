package handlers

import (
	"errors"

	"github.com/anjiri1684/pkl_sertifikasi/apperrors"
	"github.com/anjiri1684/pkl_sertifikasi/database"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/anjiri1684/pkl_sertifikasi/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PositionRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Division    string `json:"division" validate:"max=255"`
	Description string `json:"description"`
	Quota       int    `json:"quota" validate:"gte=0"`
	IsActive    *bool  `json:"is_active"`
}

type ProgramRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type BatchRequest struct {
	Name      string  `json:"name" validate:"required,max=255"`
	StartDate string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   *string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Quota     int     `json:"quota" validate:"gte=0"`
	IsActive  *bool   `json:"is_active"`
}

func ListPositions(c *fiber.Ctx) error {
	var positions []models.InternshipPosition
	q := database.DB.Order("name asc")
	if c.Query("all") != "true" {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&positions).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(positions)
}

func CreatePosition(c *fiber.Ctx) error {
	var req PositionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	position := models.InternshipPosition{
		Name:        req.Name,
		Division:    req.Division,
		Description: req.Description,
		Quota:       req.Quota,
		IsActive:    true,
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&position).Error; err != nil {
			return err
		}
		if req.IsActive != nil && !*req.IsActive {
			position.IsActive = false
			return tx.Model(&position).Update("is_active", false).Error
		}
		return nil
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(position)
}

func UpdatePosition(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var position models.InternshipPosition
	if err := findOr404(&position, id, "position"); err != nil {
		return respondError(c, err)
	}

	var req PositionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	updates := map[string]any{
		"name":        req.Name,
		"division":    req.Division,
		"description": req.Description,
		"quota":       req.Quota,
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if err := database.DB.Model(&position).Updates(updates).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(position)
}

func ListPrograms(c *fiber.Ctx) error {
	var programs []models.CertificationProgram
	q := database.DB.Order("name asc")
	if c.Query("all") != "true" {
		q = q.Where("is_active = ?", true).
			Preload("Batches", "is_active = ?", true, func(db *gorm.DB) *gorm.DB { return db.Order("start_date asc") })
	} else {
		q = q.Preload("Batches")
	}
	if err := q.Find(&programs).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(programs)
}

func CreateProgram(c *fiber.Ctx) error {
	var req ProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	program := models.CertificationProgram{Name: req.Name, Description: req.Description, IsActive: true}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.CertificationProgram{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.Conflict("program %q already exists", req.Name)
		}
		if err := tx.Create(&program).Error; err != nil {
			return err
		}
		if req.IsActive != nil && !*req.IsActive {
			program.IsActive = false
			return tx.Model(&program).Update("is_active", false).Error
		}
		return nil
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(program)
}

func UpdateProgram(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var program models.CertificationProgram
	if err := findOr404(&program, id, "program"); err != nil {
		return respondError(c, err)
	}

	var req ProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	updates := map[string]any{"name": req.Name, "description": req.Description}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if err := database.DB.Model(&program).Updates(updates).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(program)
}

func CreateBatch(c *fiber.Ctx) error {
	programID, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var program models.CertificationProgram
	if err := findOr404(&program, programID, "program"); err != nil {
		return respondError(c, err)
	}

	var req BatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}
	start, err := parseDate("start_date", &req.StartDate)
	if err != nil {
		return respondError(c, err)
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return respondError(c, err)
	}
	if end != nil && end.Before(*start) {
		return respondError(c, apperrors.Validation("end_date must not be before start_date"))
	}

	batch := models.CertificationBatch{
		ProgramID: program.ID,
		Name:      req.Name,
		StartDate: *start,
		EndDate:   end,
		Quota:     req.Quota,
		IsActive:  true,
	}
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&batch).Error; err != nil {
			return err
		}
		if req.IsActive != nil && !*req.IsActive {
			batch.IsActive = false
			return tx.Model(&batch).Update("is_active", false).Error
		}
		return nil
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(batch)
}

func UpdateBatch(c *fiber.Ctx) error {
	id, err := uuidParam(c, "batchId")
	if err != nil {
		return respondError(c, err)
	}
	var batch models.CertificationBatch
	if err := findOr404(&batch, id, "batch"); err != nil {
		return respondError(c, err)
	}

	var req BatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}
	start, err := parseDate("start_date", &req.StartDate)
	if err != nil {
		return respondError(c, err)
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		return respondError(c, err)
	}
	if req.Quota > 0 && req.Quota < batch.RegistrantCount {
		return respondError(c, apperrors.Validation("quota cannot be below the %d approved registrants", batch.RegistrantCount))
	}

	updates := map[string]any{"name": req.Name, "start_date": *start, "end_date": end, "quota": req.Quota}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if err := database.DB.Model(&batch).Updates(updates).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(batch)
}

func findOr404(dest any, id uuid.UUID, what string) error {
	err := database.DB.First(dest, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("%s %s not found", what, id)
	}
	return err
}
