package services

import (
	"testing"
	"time"

	"github.com/anjiri1684/pkl_sertifikasi/database"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	now = func() time.Time { return fixedNow }
	t.Cleanup(func() {
		now = time.Now
		sqlDB.Close()
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, role string) Actor {
	t.Helper()
	u := models.User{
		FullName: "User " + role,
		Email:    uuid.NewString() + "@example.com",
		Password: "x",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&u).Error)
	return Actor{ID: u.ID, Role: role}
}

func createPosition(t *testing.T, db *gorm.DB, name string) models.InternshipPosition {
	t.Helper()
	p := models.InternshipPosition{Name: name, Division: "IT", Quota: 5, IsActive: true}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func createProgram(t *testing.T, db *gorm.DB, quota int) (models.CertificationProgram, models.CertificationBatch) {
	t.Helper()
	p := models.CertificationProgram{Name: "Junior Web Developer " + uuid.NewString()[:6], IsActive: true}
	require.NoError(t, db.Create(&p).Error)
	b := models.CertificationBatch{ProgramID: p.ID, Name: "Batch 1", StartDate: fixedNow, Quota: quota, IsActive: true}
	require.NoError(t, db.Create(&b).Error)
	return p, b
}

func boolPtr(b bool) *bool { return &b }

func internshipInput(positionID uuid.UUID) InternshipRegistrationInput {
	return InternshipRegistrationInput{
		PositionID:     positionID,
		Institution:    "SMK Negeri 1",
		Major:          "Rekayasa Perangkat Lunak",
		EducationLevel: "SMK",
		Motivation:     "Belajar di industri",
		HasLaptop:      boolPtr(true),
		AgreesToRules:  boolPtr(true),
	}
}

func certificationInput(programID, batchID uuid.UUID) CertificationRegistrationInput {
	return CertificationRegistrationInput{
		ProgramID: programID,
		BatchID:   batchID,
		Phone:     "081234567890",
		Email:     "peserta@example.com",
	}
}

// approvedInternship registers and approves a PKL registration for a new
// candidate.
func approvedInternship(t *testing.T, db *gorm.DB, admin Actor) (Actor, models.InternshipPosition, *RegistrationOutcome) {
	t.Helper()
	candidate := createUser(t, db, models.RoleCandidate)
	position := createPosition(t, db, "Backend Developer "+uuid.NewString()[:6])
	out, err := SubmitInternshipRegistration(db, candidate, internshipInput(position.ID))
	require.NoError(t, err)
	_, err = ApproveRegistration(db, admin, models.ProgramPKL, out.ID, ApprovalInput{Note: "ok"})
	require.NoError(t, err)
	return candidate, position, out
}
