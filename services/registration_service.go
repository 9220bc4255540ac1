package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/anjiri1684/pkl_sertifikasi/apperrors"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/anjiri1684/pkl_sertifikasi/notifications"
	"github.com/anjiri1684/pkl_sertifikasi/utils"
	"github.com/anjiri1684/pkl_sertifikasi/websocket"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InternshipRegistrationInput struct {
	PositionID     uuid.UUID      `json:"position_id"`
	Institution    string         `json:"institution" validate:"required,max=255"`
	Major          string         `json:"major" validate:"required,max=255"`
	EducationLevel string         `json:"education_level" validate:"required,max=50"`
	Motivation     string         `json:"motivation" validate:"required"`
	HasLaptop      *bool          `json:"has_laptop" validate:"required"`
	AgreesToRules  *bool          `json:"agrees_to_rules" validate:"required"`
	EquipmentNotes string         `json:"equipment_notes"`
	CV             models.FileRef `json:"cv"`
	Portfolio      models.FileRef `json:"portfolio"`
	ExtraAnswers   map[string]any `json:"extra_answers"`
}

type CertificationRegistrationInput struct {
	ProgramID   uuid.UUID `json:"program_id"`
	BatchID     uuid.UUID `json:"batch_id"`
	Phone       string    `json:"phone" validate:"required,min=8,max=30"`
	Email       string    `json:"email" validate:"required,email"`
	Institution string    `json:"institution" validate:"max=255"`
}

type ApprovalInput struct {
	Note      string
	StartDate *time.Time
	EndDate   *time.Time
}

// RegistrationOutcome is what the HTTP layer reports after a registration
// operation.
type RegistrationOutcome struct {
	ID                uuid.UUID                 `json:"id"`
	Status            models.RegistrationStatus `json:"status"`
	ApplicationNumber string                    `json:"application_number"`

	candidateID uuid.UUID
	programName string
	note        string
}

const (
	entityInternshipRegistration    = "internship_registration"
	entityCertificationRegistration = "certification_registration"
)

func validateInput(in any) error {
	if err := utils.Validate.Struct(in); err != nil {
		return apperrors.Validation("%s", utils.FormatValidationErrors(err))
	}
	return nil
}

func SubmitInternshipRegistration(db *gorm.DB, actor Actor, in InternshipRegistrationInput) (*RegistrationOutcome, error) {
	if actor.Role != models.RoleCandidate {
		return nil, apperrors.Authorization("only candidates can register")
	}
	if in.PositionID == uuid.Nil {
		return nil, apperrors.Validation("position_id is required")
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if !*in.AgreesToRules {
		return nil, apperrors.Validation("agrees_to_rules must be accepted")
	}

	var extra datatypes.JSON
	if len(in.ExtraAnswers) > 0 {
		raw, err := json.Marshal(in.ExtraAnswers)
		if err != nil {
			return nil, apperrors.Validation("extra_answers is not valid JSON")
		}
		extra = datatypes.JSON(raw)
	}

	var reg models.InternshipRegistration
	var positionName string
	err := db.Transaction(func(tx *gorm.DB) error {
		var position models.InternshipPosition
		if err := tx.First(&position, "id = ?", in.PositionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Validation("position %s does not exist", in.PositionID)
			}
			return err
		}
		if !position.IsActive {
			return apperrors.Validation("position %s is not open for registration", position.Name)
		}
		positionName = position.Name

		var active int64
		err := tx.Model(&models.InternshipRegistration{}).
			Where("candidate_id = ? AND position_id = ? AND status IN ?", actor.ID, in.PositionID, models.ActiveRegistrationStatuses()).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return apperrors.Validation("you already have an active registration for %s", position.Name)
		}

		submittedAt := now()
		number, err := utils.NextApplicationNumber(tx, utils.PrefixInternship, submittedAt.Year(), &models.InternshipRegistration{})
		if err != nil {
			return err
		}

		reg = models.InternshipRegistration{
			ApplicationNumber: number,
			CandidateID:       actor.ID,
			PositionID:        in.PositionID,
			Institution:       strings.TrimSpace(in.Institution),
			Major:             strings.TrimSpace(in.Major),
			EducationLevel:    strings.TrimSpace(in.EducationLevel),
			Motivation:        strings.TrimSpace(in.Motivation),
			HasLaptop:         *in.HasLaptop,
			AgreesToRules:     *in.AgreesToRules,
			EquipmentNotes:    in.EquipmentNotes,
			CV:                in.CV,
			Portfolio:         in.Portfolio,
			ExtraAnswers:      extra,
			RegistrationState: models.RegistrationState{
				Status:      models.RegistrationPengajuan,
				SubmittedAt: submittedAt,
			},
		}
		return tx.Create(&reg).Error
	})
	if err != nil {
		return nil, err
	}

	slog.Info("internship registration submitted", "application_number", reg.ApplicationNumber, "candidate_id", actor.ID, "position", positionName)
	out := &RegistrationOutcome{ID: reg.ID, Status: reg.Status, ApplicationNumber: reg.ApplicationNumber}
	notifyCandidate(db, actor.ID, registrationEvent(entityInternshipRegistration, reg.ID, reg.Status), nil)
	return out, nil
}

func SubmitCertificationRegistration(db *gorm.DB, actor Actor, in CertificationRegistrationInput) (*RegistrationOutcome, error) {
	if actor.Role != models.RoleCandidate {
		return nil, apperrors.Authorization("only candidates can register")
	}
	if in.ProgramID == uuid.Nil {
		return nil, apperrors.Validation("program_id is required")
	}
	if in.BatchID == uuid.Nil {
		return nil, apperrors.Validation("batch_id is required")
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var reg models.CertificationRegistration
	err := db.Transaction(func(tx *gorm.DB) error {
		var program models.CertificationProgram
		if err := tx.First(&program, "id = ?", in.ProgramID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Validation("program %s does not exist", in.ProgramID)
			}
			return err
		}
		if !program.IsActive {
			return apperrors.Validation("program %s is not open for registration", program.Name)
		}

		var batch models.CertificationBatch
		if err := tx.First(&batch, "id = ? AND program_id = ?", in.BatchID, in.ProgramID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Validation("batch %s does not belong to program %s", in.BatchID, program.Name)
			}
			return err
		}
		if !batch.IsActive {
			return apperrors.Validation("batch %s is closed", batch.Name)
		}

		var active int64
		err := tx.Model(&models.CertificationRegistration{}).
			Where("candidate_id = ? AND program_id = ? AND status IN ?", actor.ID, in.ProgramID, models.ActiveRegistrationStatuses()).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return apperrors.Validation("you already have an active registration for %s", program.Name)
		}

		submittedAt := now()
		number, err := utils.NextApplicationNumber(tx, utils.PrefixCertification, submittedAt.Year(), &models.CertificationRegistration{})
		if err != nil {
			return err
		}

		reg = models.CertificationRegistration{
			ApplicationNumber: number,
			CandidateID:       actor.ID,
			ProgramID:         in.ProgramID,
			BatchID:           in.BatchID,
			Phone:             strings.TrimSpace(in.Phone),
			Email:             strings.TrimSpace(in.Email),
			Institution:       strings.TrimSpace(in.Institution),
			RegistrationState: models.RegistrationState{
				Status:      models.RegistrationPengajuan,
				SubmittedAt: submittedAt,
			},
		}
		return tx.Create(&reg).Error
	})
	if err != nil {
		return nil, err
	}

	slog.Info("certification registration submitted", "application_number", reg.ApplicationNumber, "candidate_id", actor.ID)
	out := &RegistrationOutcome{ID: reg.ID, Status: reg.Status, ApplicationNumber: reg.ApplicationNumber}
	notifyCandidate(db, actor.ID, registrationEvent(entityCertificationRegistration, reg.ID, reg.Status), nil)
	return out, nil
}

func ApproveRegistration(db *gorm.DB, actor Actor, program models.ProgramType, id uuid.UUID, in ApprovalInput) (*RegistrationOutcome, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Authorization("only admins can approve registrations")
	}

	var out *RegistrationOutcome
	var err error
	switch program {
	case models.ProgramPKL:
		out, err = approveInternship(db, actor, id, in)
	case models.ProgramSertifikasi:
		out, err = approveCertification(db, actor, id, in)
	default:
		return nil, apperrors.Validation("unknown program type %q", program)
	}
	if err != nil {
		return nil, err
	}
	publishDecision(db, program, out)
	return out, nil
}

func approveInternship(db *gorm.DB, actor Actor, id uuid.UUID, in ApprovalInput) (*RegistrationOutcome, error) {
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return nil, apperrors.Validation("end_date must not be before start_date")
	}

	var reg models.InternshipRegistration
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockByID(tx, &reg, id, "internship registration"); err != nil {
			return err
		}
		if err := reg.Decide(models.RegistrationDisetujui, actor.ID, in.Note, now()); err != nil {
			return err
		}
		if in.StartDate != nil {
			reg.StartDate = in.StartDate
		}
		if in.EndDate != nil {
			reg.EndDate = in.EndDate
		}
		if err := tx.Save(&reg).Error; err != nil {
			return err
		}

		assessment := models.InternshipAssessment{RegistrationID: reg.ID, Status: models.InternshipNotAssessed}
		return tx.Where("registration_id = ?", reg.ID).FirstOrCreate(&assessment).Error
	})
	if err != nil {
		return nil, err
	}

	return &RegistrationOutcome{
		ID: reg.ID, Status: reg.Status, ApplicationNumber: reg.ApplicationNumber,
		candidateID: reg.CandidateID, programName: positionLabel(db, reg.PositionID), note: in.Note,
	}, nil
}

func approveCertification(db *gorm.DB, actor Actor, id uuid.UUID, in ApprovalInput) (*RegistrationOutcome, error) {
	var reg models.CertificationRegistration
	var programName string
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockByID(tx, &reg, id, "certification registration"); err != nil {
			return err
		}
		if err := reg.Decide(models.RegistrationDisetujui, actor.ID, in.Note, now()); err != nil {
			return err
		}

		var batch models.CertificationBatch
		if err := lockByID(tx, &batch, reg.BatchID, "batch"); err != nil {
			return err
		}
		if batch.Full() {
			return apperrors.Precondition("batch %s is full (%d/%d)", batch.Name, batch.RegistrantCount, batch.Quota)
		}
		err := tx.Model(&models.CertificationBatch{}).
			Where("id = ?", batch.ID).
			UpdateColumn("registrant_count", gorm.Expr("registrant_count + ?", 1)).Error
		if err != nil {
			return err
		}

		if err := tx.Save(&reg).Error; err != nil {
			return err
		}
		assessment := models.CertificationAssessment{RegistrationID: reg.ID, Status: models.CertificationNotAssessed}
		if err := tx.Where("registration_id = ?", reg.ID).FirstOrCreate(&assessment).Error; err != nil {
			return err
		}

		programName = batchLabel(tx, reg.ProgramID, batch.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RegistrationOutcome{
		ID: reg.ID, Status: reg.Status, ApplicationNumber: reg.ApplicationNumber,
		candidateID: reg.CandidateID, programName: programName, note: in.Note,
	}, nil
}

func RejectRegistration(db *gorm.DB, actor Actor, program models.ProgramType, id uuid.UUID, reason string) (*RegistrationOutcome, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Authorization("only admins can reject registrations")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.Validation("a rejection reason is required")
	}

	out, err := transition(db, program, id, func(state *models.RegistrationState, _ uuid.UUID) error {
		return state.Decide(models.RegistrationDitolak, actor.ID, reason, now())
	})
	if err != nil {
		return nil, err
	}
	out.note = reason
	publishDecision(db, program, out)
	return out, nil
}

func CancelRegistration(db *gorm.DB, actor Actor, program models.ProgramType, id uuid.UUID) (*RegistrationOutcome, error) {
	out, err := transition(db, program, id, func(state *models.RegistrationState, owner uuid.UUID) error {
		if owner != actor.ID {
			return apperrors.Authorization("only the candidate who registered can cancel")
		}
		return state.Cancel()
	})
	if err != nil {
		return nil, err
	}
	publishDecision(db, program, out)
	return out, nil
}

// transition locks the registration, applies apply to its state and saves it.
func transition(db *gorm.DB, program models.ProgramType, id uuid.UUID, apply func(*models.RegistrationState, uuid.UUID) error) (*RegistrationOutcome, error) {
	out := &RegistrationOutcome{ID: id}
	err := db.Transaction(func(tx *gorm.DB) error {
		switch program {
		case models.ProgramPKL:
			var reg models.InternshipRegistration
			if err := lockByID(tx, &reg, id, "internship registration"); err != nil {
				return err
			}
			if err := apply(&reg.RegistrationState, reg.CandidateID); err != nil {
				return err
			}
			out.Status, out.ApplicationNumber, out.candidateID = reg.Status, reg.ApplicationNumber, reg.CandidateID
			out.programName = positionLabel(tx, reg.PositionID)
			return tx.Save(&reg).Error
		case models.ProgramSertifikasi:
			var reg models.CertificationRegistration
			if err := lockByID(tx, &reg, id, "certification registration"); err != nil {
				return err
			}
			if err := apply(&reg.RegistrationState, reg.CandidateID); err != nil {
				return err
			}
			out.Status, out.ApplicationNumber, out.candidateID = reg.Status, reg.ApplicationNumber, reg.CandidateID
			var batch models.CertificationBatch
			tx.Select("name").Take(&batch, "id = ?", reg.BatchID)
			out.programName = batchLabel(tx, reg.ProgramID, batch.Name)
			return tx.Save(&reg).Error
		}
		return apperrors.Validation("unknown program type %q", program)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// positionLabel and batchLabel label a registration in notifications.
// A missing row yields an empty name rather than failing the transition.
func positionLabel(tx *gorm.DB, positionID uuid.UUID) string {
	var position models.InternshipPosition
	tx.Select("name").Take(&position, "id = ?", positionID)
	return position.Name
}

func batchLabel(tx *gorm.DB, programID uuid.UUID, batchName string) string {
	var program models.CertificationProgram
	if err := tx.Select("name").Take(&program, "id = ?", programID).Error; err != nil {
		return batchName
	}
	if batchName == "" {
		return program.Name
	}
	return program.Name + " - " + batchName
}

func registrationEvent(entity string, id uuid.UUID, status models.RegistrationStatus) websocket.Event {
	return websocket.Event{
		Type:     "registration.status",
		Entity:   entity,
		EntityID: id,
		Status:   string(status),
	}
}

func publishDecision(db *gorm.DB, program models.ProgramType, out *RegistrationOutcome) {
	entity := entityInternshipRegistration
	if program == models.ProgramSertifikasi {
		entity = entityCertificationRegistration
	}
	slog.Info("registration status changed", "entity", entity, "id", out.ID, "status", out.Status)

	ev := registrationEvent(entity, out.ID, out.Status)
	ev.Message = out.note
	var build emailBuilder
	if out.Status != models.RegistrationDibatalkan {
		build = func(fullName string) (string, string) {
			return notifications.RegistrationDecisionEmail(fullName, out.programName, out.ApplicationNumber, string(out.Status), out.note)
		}
	}
	notifyCandidate(db, out.candidateID, ev, build)
}
