package models

import (
	"time"

	"github.com/google/uuid"
)

// InternshipPosition is a PKL opening candidates register for.
type InternshipPosition struct {
	Base
	Name        string `gorm:"size:255;not null" json:"name"`
	Division    string `gorm:"size:255" json:"division"`
	Description string `gorm:"type:text" json:"description"`
	Quota       int    `gorm:"not null;default:0" json:"quota"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

type CertificationProgram struct {
	Base
	Name        string               `gorm:"size:255;not null;unique" json:"name"`
	Description string               `gorm:"type:text" json:"description"`
	IsActive    bool                 `gorm:"default:true" json:"is_active"`
	Batches     []CertificationBatch `gorm:"foreignKey:ProgramID" json:"batches,omitempty"`
}

// CertificationBatch is a dated cohort of a program. RegistrantCount is a
// denormalised count of approved registrations.
type CertificationBatch struct {
	Base
	ProgramID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"program_id"`
	Name            string     `gorm:"size:255;not null" json:"name"`
	StartDate       time.Time  `gorm:"not null" json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	Quota           int        `gorm:"not null;default:0" json:"quota"`
	RegistrantCount int        `gorm:"not null;default:0" json:"registrant_count"`
	IsActive        bool       `gorm:"default:true" json:"is_active"`

	Program *CertificationProgram `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
}

// Full reports whether an approval would exceed the batch quota. A zero
// quota means unlimited.
func (b CertificationBatch) Full() bool {
	return b.Quota > 0 && b.RegistrantCount >= b.Quota
}
