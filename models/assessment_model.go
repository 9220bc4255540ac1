package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InternshipAssessment is the single PKL outcome row of a registration. The
// aspect scores are an optional score sheet and never gate certificates.
type InternshipAssessment struct {
	Base
	RegistrationID uuid.UUID                  `gorm:"type:uuid;not null;uniqueIndex" json:"registration_id"`
	Status         InternshipAssessmentStatus `gorm:"type:varchar(20);not null" json:"status"`
	AssessorID     *uuid.UUID                 `gorm:"type:uuid" json:"assessor_id"`
	Note           *string                    `gorm:"type:text" json:"note"`
	AssessedAt     *time.Time                 `json:"assessed_at"`

	DisciplineScore  decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"discipline_score"`
	TeamworkScore    decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"teamwork_score"`
	WorkQualityScore decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"work_quality_score"`
	InitiativeScore  decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"initiative_score"`
	FinalScore       decimal.NullDecimal `gorm:"type:numeric(5,2)" json:"final_score"`
}

type CertificationAssessment struct {
	Base
	RegistrationID uuid.UUID                     `gorm:"type:uuid;not null;uniqueIndex" json:"registration_id"`
	Status         CertificationAssessmentStatus `gorm:"type:varchar(20);not null" json:"status"`
	AssessorID     *uuid.UUID                    `gorm:"type:uuid" json:"assessor_id"`
	Note           *string                       `gorm:"type:text" json:"note"`
	AssessedAt     *time.Time                    `json:"assessed_at"`
	DeletedAt      gorm.DeletedAt                `gorm:"index" json:"-"`
}
