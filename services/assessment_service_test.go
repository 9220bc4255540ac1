package services

import (
	"testing"

	"github.com/anjiri1684/pkl_sertifikasi/apperrors"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreSheet(t *testing.T) {
	sheet := ScoreSheet{
		Discipline:  decimal.NewFromInt(90),
		Teamwork:    decimal.NewFromInt(85),
		WorkQuality: decimal.RequireFromString("88.5"),
		Initiative:  decimal.NewFromInt(80),
	}
	require.NoError(t, sheet.Validate())
	assert.Equal(t, "85.88", sheet.Final().StringFixed(2))

	sheet.Initiative = decimal.NewFromInt(101)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(sheet.Validate()))

	sheet.Initiative = decimal.NewFromInt(-1)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(sheet.Validate()))
}

func TestAssessInternship(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, models.RoleAdmin)
	assessor := createUser(t, db, models.RoleAssessor)
	candidate, _, out := approvedInternship(t, db, admin)

	_, err := AssessInternship(db, candidate, out.ID, AssessmentInput{Outcome: "Diterima"})
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
	_, err = AssessInternship(db, assessor, out.ID, AssessmentInput{Outcome: "Lulus"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	_, err = AssessInternship(db, assessor, out.ID, AssessmentInput{Outcome: models.AssessmentNotAssessed})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	scores := &ScoreSheet{
		Discipline:  decimal.NewFromInt(80),
		Teamwork:    decimal.NewFromInt(80),
		WorkQuality: decimal.NewFromInt(90),
		Initiative:  decimal.NewFromInt(90),
	}
	a, err := AssessInternship(db, assessor, out.ID, AssessmentInput{Outcome: "Ditolak", Note: "kurang disiplin"})
	require.NoError(t, err)
	assert.Equal(t, models.InternshipDitolak, a.Status)

	a, err = AssessInternship(db, assessor, out.ID, AssessmentInput{Outcome: "Diterima", Scores: scores})
	require.NoError(t, err)
	assert.Equal(t, models.InternshipDiterima, a.Status)
	assert.Nil(t, a.Note)

	var rows []models.InternshipAssessment
	require.NoError(t, db.Where("registration_id = ?", out.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, models.InternshipDiterima, rows[0].Status)
	require.True(t, rows[0].FinalScore.Valid)
	assert.True(t, rows[0].FinalScore.Decimal.Equal(decimal.NewFromInt(85)))
}

func TestAssessRequiresApprovedRegistration(t *testing.T) {
	db := newTestDB(t)
	assessor := createUser(t, db, models.RoleAssessor)
	candidate := createUser(t, db, models.RoleCandidate)
	program, batch := createProgram(t, db, 0)
	out, err := SubmitCertificationRegistration(db, candidate, certificationInput(program.ID, batch.ID))
	require.NoError(t, err)

	_, err = AssessCertification(db, assessor, out.ID, AssessmentInput{Outcome: "Lulus"})
	assert.Equal(t, apperrors.KindPrecondition, apperrors.KindOf(err))
}

func TestAssessCertification(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, models.RoleAdmin)
	candidate := createUser(t, db, models.RoleCandidate)
	program, batch := createProgram(t, db, 0)
	out, err := SubmitCertificationRegistration(db, candidate, certificationInput(program.ID, batch.ID))
	require.NoError(t, err)
	_, err = ApproveRegistration(db, admin, models.ProgramSertifikasi, out.ID, ApprovalInput{})
	require.NoError(t, err)

	_, err = AssessCertification(db, admin, out.ID, AssessmentInput{Outcome: "Lulus", Scores: &ScoreSheet{}})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	_, err = AssessCertification(db, admin, out.ID, AssessmentInput{Outcome: "Diterima"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	a, err := AssessCertification(db, admin, out.ID, AssessmentInput{Outcome: "Tidak Lulus", Note: "ulang"})
	require.NoError(t, err)
	assert.Equal(t, models.CertificationTidakLulus, a.Status)
	require.NotNil(t, a.Note)
	assert.Equal(t, "ulang", *a.Note)
}
