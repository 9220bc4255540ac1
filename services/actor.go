package services

import (
	"errors"
	"time"

	"github.com/anjiri1684/pkl_sertifikasi/apperrors"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Actor is the authenticated caller of a workflow operation.
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanAssess reports whether the actor may review submissions and set
// assessments.
func (a Actor) CanAssess() bool {
	return a.Role == models.RoleAdmin || a.Role == models.RoleAssessor
}

var now = time.Now

// lockByID loads dest by primary key and holds a row lock until the
// transaction ends.
func lockByID(tx *gorm.DB, dest any, id uuid.UUID, what string) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(dest, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("%s %s not found", what, id)
	}
	return err
}

func findByID(tx *gorm.DB, dest any, id uuid.UUID, what string) error {
	err := tx.First(dest, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("%s %s not found", what, id)
	}
	return err
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
