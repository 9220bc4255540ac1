package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmissionKind names a submission table on the HTTP surface.
type SubmissionKind string

const (
	KindWeeklyReport       SubmissionKind = "weekly-reports"
	KindInternshipDocument SubmissionKind = "documents"
	KindCertificationTask  SubmissionKind = "tasks"
)

func (k SubmissionKind) Valid() bool {
	return k == KindWeeklyReport || k == KindInternshipDocument || k == KindCertificationTask
}

func (k SubmissionKind) Program() ProgramType {
	if k == KindCertificationTask {
		return ProgramSertifikasi
	}
	return ProgramPKL
}

// Submission holds the fields every candidate upload shares.
type Submission struct {
	Title       string           `gorm:"size:255;not null" json:"title"`
	URL         *string          `gorm:"type:text" json:"url"`
	File        FileRef          `gorm:"embedded;embeddedPrefix:file_" json:"file"`
	Status      SubmissionStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Feedback    *string          `gorm:"type:text" json:"feedback"`
	ReviewerID  *uuid.UUID       `gorm:"type:uuid" json:"reviewer_id"`
	SubmittedAt time.Time        `gorm:"not null" json:"submitted_at"`
	ReviewedAt  *time.Time       `json:"reviewed_at"`
}

func (s *Submission) Review(outcome SubmissionStatus, reviewer uuid.UUID, feedback string, at time.Time) {
	s.Status = outcome
	s.ReviewerID = &reviewer
	s.ReviewedAt = &at
	if feedback != "" {
		s.Feedback = &feedback
	} else {
		s.Feedback = nil
	}
}

// Reviewable is implemented by every submission model.
type Reviewable interface {
	GetID() uuid.UUID
	GetRegistrationID() uuid.UUID
	GetSubmission() *Submission
}

// WeeklyReport is a PKL laporan mingguan; one per registration and week.
type WeeklyReport struct {
	Base
	RegistrationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_weekly_reports_registration_week" json:"registration_id"`
	WeekNumber     int       `gorm:"not null;uniqueIndex:idx_weekly_reports_registration_week" json:"week_number"`
	Activities     string    `gorm:"type:text" json:"activities"`
	Submission
}

// InternshipDocument is a PKL document upload (surat pengantar, laporan akhir, ...).
type InternshipDocument struct {
	Base
	RegistrationID uuid.UUID `gorm:"type:uuid;not null;index" json:"registration_id"`
	DocumentType   string    `gorm:"size:50;not null" json:"document_type"`
	Submission
}

// CertificationTask is a Sertifikasi task upload.
type CertificationTask struct {
	Base
	RegistrationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"registration_id"`
	Description    string         `gorm:"type:text" json:"description"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Submission
}

func (w *WeeklyReport) GetID() uuid.UUID             { return w.ID }
func (w *WeeklyReport) GetRegistrationID() uuid.UUID { return w.RegistrationID }
func (w *WeeklyReport) GetSubmission() *Submission   { return &w.Submission }

func (d *InternshipDocument) GetID() uuid.UUID             { return d.ID }
func (d *InternshipDocument) GetRegistrationID() uuid.UUID { return d.RegistrationID }
func (d *InternshipDocument) GetSubmission() *Submission   { return &d.Submission }

func (t *CertificationTask) GetID() uuid.UUID             { return t.ID }
func (t *CertificationTask) GetRegistrationID() uuid.UUID { return t.RegistrationID }
func (t *CertificationTask) GetSubmission() *Submission   { return &t.Submission }
