package models

import (
	"time"

	"github.com/anjiri1684/pkl_sertifikasi/apperrors"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RegistrationState is the status bookkeeping shared by both registration kinds.
type RegistrationState struct {
	Status      RegistrationStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	SubmittedAt time.Time          `gorm:"not null" json:"submitted_at"`
	ProcessedAt *time.Time         `json:"processed_at"`
	ProcessedBy *uuid.UUID         `gorm:"type:uuid" json:"processed_by,omitempty"`
	AdminNote   *string            `gorm:"type:text" json:"admin_note"`
}

// Decide applies an admin outcome (Disetujui or Ditolak).
func (s *RegistrationState) Decide(next RegistrationStatus, by uuid.UUID, note string, at time.Time) error {
	if next != RegistrationDisetujui && next != RegistrationDitolak {
		return apperrors.Validation("%s is not an admin decision", next)
	}
	if s.Status.Terminal() {
		return apperrors.State("registration is already %s", s.Status)
	}
	if !s.Status.CanTransitionTo(next) {
		return apperrors.State("registration is %s, only %s registrations can be %s", s.Status, RegistrationPengajuan, next)
	}
	s.Status = next
	s.ProcessedAt = &at
	s.ProcessedBy = &by
	s.AdminNote = &note
	return nil
}

func (s *RegistrationState) Cancel() error {
	if s.Status.Terminal() {
		return apperrors.State("registration is already %s", s.Status)
	}
	if !s.Status.CanTransitionTo(RegistrationDibatalkan) {
		return apperrors.State("registration is %s, only %s registrations can be cancelled", s.Status, RegistrationPengajuan)
	}
	s.Status = RegistrationDibatalkan
	return nil
}

// InternshipRegistration is a PKL application (pendaftaran PKL).
type InternshipRegistration struct {
	Base
	ApplicationNumber string    `gorm:"size:20;not null;uniqueIndex" json:"application_number"`
	CandidateID       uuid.UUID `gorm:"type:uuid;not null;index" json:"candidate_id"`
	PositionID        uuid.UUID `gorm:"type:uuid;not null;index" json:"position_id"`

	Institution    string `gorm:"size:255;not null" json:"institution"`
	Major          string `gorm:"size:255;not null" json:"major"`
	EducationLevel string `gorm:"size:50;not null" json:"education_level"`
	Motivation     string `gorm:"type:text;not null" json:"motivation"`
	HasLaptop      bool   `gorm:"not null" json:"has_laptop"`
	AgreesToRules  bool   `gorm:"not null" json:"agrees_to_rules"`
	EquipmentNotes string `gorm:"type:text" json:"equipment_notes"`

	CV           FileRef        `gorm:"embedded;embeddedPrefix:cv_" json:"cv"`
	Portfolio    FileRef        `gorm:"embedded;embeddedPrefix:portfolio_" json:"portfolio"`
	ExtraAnswers datatypes.JSON `json:"extra_answers,omitempty"`

	RegistrationState

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	Candidate  *User                 `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
	Position   *InternshipPosition   `gorm:"foreignKey:PositionID" json:"position,omitempty"`
	Assessment *InternshipAssessment `gorm:"foreignKey:RegistrationID" json:"assessment,omitempty"`
}

// CertificationRegistration is a Sertifikasi application for one batch.
type CertificationRegistration struct {
	Base
	ApplicationNumber string    `gorm:"size:20;not null;uniqueIndex" json:"application_number"`
	CandidateID       uuid.UUID `gorm:"type:uuid;not null;index" json:"candidate_id"`
	ProgramID         uuid.UUID `gorm:"type:uuid;not null;index" json:"program_id"`
	BatchID           uuid.UUID `gorm:"type:uuid;not null;index" json:"batch_id"`

	Phone       string `gorm:"size:30;not null" json:"phone"`
	Email       string `gorm:"size:255;not null" json:"email"`
	Institution string `gorm:"size:255" json:"institution"`

	RegistrationState

	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Candidate  *User                    `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
	Program    *CertificationProgram    `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
	Batch      *CertificationBatch      `gorm:"foreignKey:BatchID" json:"batch,omitempty"`
	Assessment *CertificationAssessment `gorm:"foreignKey:RegistrationID" json:"assessment,omitempty"`
}

// ApplicationSequence is the per-prefix, per-year counter behind
// application numbers such as PKL-2025-0008.
type ApplicationSequence struct {
	Prefix    string `gorm:"size:10;primaryKey"`
	Year      int    `gorm:"primaryKey;autoIncrement:false"`
	LastValue int    `gorm:"not null;default:0"`
	UpdatedAt time.Time
}
