package models

import (
	"time"

	"github.com/google/uuid"
)

// Certificate (sertifikat kelulusan) is written once and never updated.
type Certificate struct {
	Base
	CandidateID                 uuid.UUID   `gorm:"type:uuid;not null;index" json:"candidate_id"`
	ProgramType                 ProgramType `gorm:"size:20;not null" json:"program_type"`
	InternshipRegistrationID    *uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"internship_registration_id,omitempty"`
	CertificationRegistrationID *uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"certification_registration_id,omitempty"`
	ProgramName                 string      `gorm:"size:255;not null" json:"program_name"`
	IssueDate                   time.Time   `gorm:"not null" json:"issue_date"`
	CertificateLink             string      `gorm:"type:text;not null" json:"certificate_link"`
	IssuerID                    uuid.UUID   `gorm:"type:uuid;not null" json:"issuer_id"`
	Note                        *string     `gorm:"type:text" json:"note"`

	Candidate *User `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
}
