package models

import "github.com/google/uuid"

// ProgramReview is a candidate's satisfaction rating of a position or program.
type ProgramReview struct {
	Base
	CandidateID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_program_reviews_candidate_program" json:"candidate_id"`
	ProgramType ProgramType `gorm:"size:20;not null;uniqueIndex:idx_program_reviews_candidate_program" json:"program_type"`
	ProgramID   uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_program_reviews_candidate_program" json:"program_id"`
	Rating      int         `gorm:"not null" json:"rating"`
	Text        string      `gorm:"type:text" json:"text"`

	Candidate *User `gorm:"foreignKey:CandidateID" json:"candidate,omitempty"`
}
