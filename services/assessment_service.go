package services

import (
	"log/slog"

	"github.com/anjiri1684/pkl_sertifikasi/apperrors"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/anjiri1684/pkl_sertifikasi/notifications"
	"github.com/anjiri1684/pkl_sertifikasi/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AssessmentInput struct {
	Outcome string      `json:"outcome"`
	Note    string      `json:"note"`
	Scores  *ScoreSheet `json:"scores"`
}

// ScoreSheet holds the optional PKL aspect scores, each between 0 and 100.
type ScoreSheet struct {
	Discipline  decimal.Decimal `json:"discipline"`
	Teamwork    decimal.Decimal `json:"teamwork"`
	WorkQuality decimal.Decimal `json:"work_quality"`
	Initiative  decimal.Decimal `json:"initiative"`
}

var (
	minScore = decimal.Zero
	maxScore = decimal.NewFromInt(100)
)

func (s ScoreSheet) aspects() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"discipline":   s.Discipline,
		"teamwork":     s.Teamwork,
		"work_quality": s.WorkQuality,
		"initiative":   s.Initiative,
	}
}

func (s ScoreSheet) Validate() error {
	for name, v := range s.aspects() {
		if v.LessThan(minScore) || v.GreaterThan(maxScore) {
			return apperrors.Validation("%s score must be between 0 and 100", name)
		}
	}
	return nil
}

// Final is the mean of the four aspects rounded to two places.
func (s ScoreSheet) Final() decimal.Decimal {
	sum := s.Discipline.Add(s.Teamwork).Add(s.WorkQuality).Add(s.Initiative)
	return sum.Div(decimal.NewFromInt(4)).Round(2)
}

func AssessInternship(db *gorm.DB, actor Actor, registrationID uuid.UUID, in AssessmentInput) (*models.InternshipAssessment, error) {
	if !actor.CanAssess() {
		return nil, apperrors.Authorization("only admins and assessors can assess")
	}
	outcome := models.InternshipAssessmentStatus(in.Outcome)
	if !outcome.Decided() {
		return nil, apperrors.Validation("outcome must be %s or %s", models.InternshipDiterima, models.InternshipDitolak)
	}
	if in.Scores != nil {
		if err := in.Scores.Validate(); err != nil {
			return nil, err
		}
	}

	var assessment models.InternshipAssessment
	var reg models.InternshipRegistration
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockByID(tx, &reg, registrationID, "internship registration"); err != nil {
			return err
		}
		if reg.Status != models.RegistrationDisetujui {
			return apperrors.Precondition("registration is %s, only %s registrations can be assessed", reg.Status, models.RegistrationDisetujui)
		}

		assessment = models.InternshipAssessment{RegistrationID: reg.ID, Status: models.InternshipNotAssessed}
		if err := tx.Where("registration_id = ?", reg.ID).FirstOrCreate(&assessment).Error; err != nil {
			return err
		}

		assessedAt := now()
		assessment.Status = outcome
		assessment.AssessorID = &actor.ID
		assessment.Note = optional(in.Note)
		assessment.AssessedAt = &assessedAt
		if in.Scores != nil {
			assessment.DisciplineScore = decimal.NewNullDecimal(in.Scores.Discipline)
			assessment.TeamworkScore = decimal.NewNullDecimal(in.Scores.Teamwork)
			assessment.WorkQualityScore = decimal.NewNullDecimal(in.Scores.WorkQuality)
			assessment.InitiativeScore = decimal.NewNullDecimal(in.Scores.Initiative)
			assessment.FinalScore = decimal.NewNullDecimal(in.Scores.Final())
		}
		return tx.Save(&assessment).Error
	})
	if err != nil {
		return nil, err
	}

	slog.Info("internship assessed", "registration_id", reg.ID, "status", assessment.Status, "assessor_id", actor.ID)
	var position models.InternshipPosition
	db.Select("name").First(&position, "id = ?", reg.PositionID)
	notifyCandidate(db, reg.CandidateID, assessmentEvent("internship_assessment", assessment.ID, string(assessment.Status)),
		func(fullName string) (string, string) {
			return notifications.AssessmentEmail(fullName, position.Name, string(assessment.Status))
		})
	return &assessment, nil
}

func AssessCertification(db *gorm.DB, actor Actor, registrationID uuid.UUID, in AssessmentInput) (*models.CertificationAssessment, error) {
	if !actor.CanAssess() {
		return nil, apperrors.Authorization("only admins and assessors can assess")
	}
	outcome := models.CertificationAssessmentStatus(in.Outcome)
	if !outcome.Decided() {
		return nil, apperrors.Validation("outcome must be %s or %s", models.CertificationLulus, models.CertificationTidakLulus)
	}
	if in.Scores != nil {
		return nil, apperrors.Validation("score sheets are only recorded for PKL")
	}

	var assessment models.CertificationAssessment
	var reg models.CertificationRegistration
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockByID(tx, &reg, registrationID, "certification registration"); err != nil {
			return err
		}
		if reg.Status != models.RegistrationDisetujui {
			return apperrors.Precondition("registration is %s, only %s registrations can be assessed", reg.Status, models.RegistrationDisetujui)
		}

		assessment = models.CertificationAssessment{RegistrationID: reg.ID, Status: models.CertificationNotAssessed}
		if err := tx.Where("registration_id = ?", reg.ID).FirstOrCreate(&assessment).Error; err != nil {
			return err
		}

		assessedAt := now()
		assessment.Status = outcome
		assessment.AssessorID = &actor.ID
		assessment.Note = optional(in.Note)
		assessment.AssessedAt = &assessedAt
		return tx.Save(&assessment).Error
	})
	if err != nil {
		return nil, err
	}

	slog.Info("certification assessed", "registration_id", reg.ID, "status", assessment.Status, "assessor_id", actor.ID)
	var program models.CertificationProgram
	db.Select("name").First(&program, "id = ?", reg.ProgramID)
	notifyCandidate(db, reg.CandidateID, assessmentEvent("certification_assessment", assessment.ID, string(assessment.Status)),
		func(fullName string) (string, string) {
			return notifications.AssessmentEmail(fullName, program.Name, string(assessment.Status))
		})
	return &assessment, nil
}

func assessmentEvent(entity string, id uuid.UUID, status string) websocket.Event {
	return websocket.Event{Type: "assessment.status", Entity: entity, EntityID: id, Status: status}
}
