package utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.ApplicationSequence{}, &models.InternshipRegistration{}))
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func seedRegistration(t *testing.T, db *gorm.DB, number string) {
	t.Helper()
	reg := models.InternshipRegistration{
		ApplicationNumber: number,
		CandidateID:       uuid.New(),
		PositionID:        uuid.New(),
		Institution:       "SMK",
		Major:             "RPL",
		EducationLevel:    "SMK",
		Motivation:        "belajar",
		RegistrationState: models.RegistrationState{
			Status:      models.RegistrationPengajuan,
			SubmittedAt: time.Now(),
		},
	}
	require.NoError(t, db.Create(&reg).Error)
}

func next(t *testing.T, db *gorm.DB, year int) string {
	t.Helper()
	var number string
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		number, err = NextApplicationNumber(tx, PrefixInternship, year, &models.InternshipRegistration{})
		return err
	})
	require.NoError(t, err)
	return number
}

func TestNextApplicationNumberContinuesExistingSequence(t *testing.T) {
	db := newTestDB(t)
	for i := 1; i <= 7; i++ {
		seedRegistration(t, db, fmt.Sprintf("PKL-2025-%04d", i))
	}

	assert.Equal(t, "PKL-2025-0008", next(t, db, 2025))
	assert.Equal(t, "PKL-2025-0009", next(t, db, 2025))
}

func TestNextApplicationNumberPerYear(t *testing.T) {
	db := newTestDB(t)
	seedRegistration(t, db, "PKL-2024-0042")

	assert.Equal(t, "PKL-2025-0001", next(t, db, 2025))
	assert.Equal(t, "PKL-2024-0043", next(t, db, 2024))
	assert.Equal(t, "PKL-2025-0002", next(t, db, 2025))
}

func TestParseApplicationNumber(t *testing.T) {
	prefix, year, seq, err := ParseApplicationNumber("SRT-2025-0123")
	require.NoError(t, err)
	assert.Equal(t, "SRT", prefix)
	assert.Equal(t, 2025, year)
	assert.Equal(t, 123, seq)

	for _, bad := range []string{"", "PKL-2025", "PKL-abcd-0001", "PKL-2025-x"} {
		_, _, _, err := ParseApplicationNumber(bad)
		assert.Error(t, err, bad)
	}
	assert.Equal(t, "PKL-2025-0008", FormatApplicationNumber(PrefixInternship, 2025, 8))
}

func TestFormatValidationErrors(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
		Role  string `validate:"oneof=admin asesor"`
	}
	err := Validate.Struct(form{Role: "guest"})
	require.Error(t, err)
	assert.Equal(t, "Email is required; Role must be one of: admin asesor", FormatValidationErrors(err))
}
