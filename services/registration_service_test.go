package services

import (
	"testing"

	"github.com/anjiri1684/pkl_sertifikasi/apperrors"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitInternshipRegistration(t *testing.T) {
	db := newTestDB(t)
	candidate := createUser(t, db, models.RoleCandidate)
	position := createPosition(t, db, "Frontend Developer")

	out, err := SubmitInternshipRegistration(db, candidate, internshipInput(position.ID))
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationPengajuan, out.Status)
	assert.Equal(t, "PKL-2025-0001", out.ApplicationNumber)

	var reg models.InternshipRegistration
	require.NoError(t, db.First(&reg, "id = ?", out.ID).Error)
	assert.Equal(t, candidate.ID, reg.CandidateID)
	assert.Equal(t, fixedNow.Unix(), reg.SubmittedAt.Unix())
	assert.Nil(t, reg.ProcessedAt)
}

func TestSubmitInternshipRegistrationValidation(t *testing.T) {
	db := newTestDB(t)
	candidate := createUser(t, db, models.RoleCandidate)
	position := createPosition(t, db, "Frontend Developer")

	tests := []struct {
		name   string
		actor  Actor
		mutate func(*InternshipRegistrationInput)
		kind   apperrors.Kind
	}{
		{"missing institution", candidate, func(in *InternshipRegistrationInput) { in.Institution = "" }, apperrors.KindValidation},
		{"missing has_laptop", candidate, func(in *InternshipRegistrationInput) { in.HasLaptop = nil }, apperrors.KindValidation},
		{"rules not accepted", candidate, func(in *InternshipRegistrationInput) { in.AgreesToRules = boolPtr(false) }, apperrors.KindValidation},
		{"unknown position", candidate, func(in *InternshipRegistrationInput) { in.PositionID = uuid.New() }, apperrors.KindValidation},
		{"not a candidate", Actor{ID: uuid.New(), Role: models.RoleAdmin}, func(*InternshipRegistrationInput) {}, apperrors.KindAuthorization},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := internshipInput(position.ID)
			tt.mutate(&in)
			_, err := SubmitInternshipRegistration(db, tt.actor, in)
			require.Error(t, err)
			assert.Equal(t, tt.kind, apperrors.KindOf(err))
		})
	}

	var count int64
	db.Model(&models.InternshipRegistration{}).Count(&count)
	assert.Zero(t, count)
}

func TestDuplicateActiveRegistrationRejected(t *testing.T) {
	db := newTestDB(t)
	candidate := createUser(t, db, models.RoleCandidate)
	position := createPosition(t, db, "Frontend Developer")

	first, err := SubmitInternshipRegistration(db, candidate, internshipInput(position.ID))
	require.NoError(t, err)

	_, err = SubmitInternshipRegistration(db, candidate, internshipInput(position.ID))
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = CancelRegistration(db, candidate, models.ProgramPKL, first.ID)
	require.NoError(t, err)

	again, err := SubmitInternshipRegistration(db, candidate, internshipInput(position.ID))
	require.NoError(t, err)
	assert.Equal(t, "PKL-2025-0002", again.ApplicationNumber)
}

func TestApproveAndRejectOnlyFromPengajuan(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, models.RoleAdmin)
	candidate := createUser(t, db, models.RoleCandidate)

	newRegistration := func() uuid.UUID {
		position := createPosition(t, db, "Position "+uuid.NewString()[:6])
		out, err := SubmitInternshipRegistration(db, candidate, internshipInput(position.ID))
		require.NoError(t, err)
		return out.ID
	}

	approved := newRegistration()
	_, err := ApproveRegistration(db, admin, models.ProgramPKL, approved, ApprovalInput{Note: "ok"})
	require.NoError(t, err)

	rejected := newRegistration()
	_, err = RejectRegistration(db, admin, models.ProgramPKL, rejected, "kuota penuh")
	require.NoError(t, err)

	cancelled := newRegistration()
	_, err = CancelRegistration(db, candidate, models.ProgramPKL, cancelled)
	require.NoError(t, err)

	for _, id := range []uuid.UUID{approved, rejected, cancelled} {
		_, err := ApproveRegistration(db, admin, models.ProgramPKL, id, ApprovalInput{})
		assert.Equal(t, apperrors.KindState, apperrors.KindOf(err))
		_, err = RejectRegistration(db, admin, models.ProgramPKL, id, "late")
		assert.Equal(t, apperrors.KindState, apperrors.KindOf(err))
	}

	var reg models.InternshipRegistration
	require.NoError(t, db.First(&reg, "id = ?", rejected).Error)
	assert.Equal(t, models.RegistrationDitolak, reg.Status)
	require.NotNil(t, reg.AdminNote)
	assert.Equal(t, "kuota penuh", *reg.AdminNote)
}

func TestApproveCreatesPendingAssessment(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, models.RoleAdmin)
	_, _, out := approvedInternship(t, db, admin)

	var reg models.InternshipRegistration
	require.NoError(t, db.Preload("Assessment").First(&reg, "id = ?", out.ID).Error)
	assert.Equal(t, models.RegistrationDisetujui, reg.Status)
	require.NotNil(t, reg.AdminNote)
	assert.Equal(t, "ok", *reg.AdminNote)
	require.NotNil(t, reg.ProcessedBy)
	assert.Equal(t, admin.ID, *reg.ProcessedBy)
	require.NotNil(t, reg.Assessment)
	assert.Equal(t, models.InternshipNotAssessed, reg.Assessment.Status)
}

func TestRegistrationAuthorization(t *testing.T) {
	db := newTestDB(t)
	candidate := createUser(t, db, models.RoleCandidate)
	other := createUser(t, db, models.RoleCandidate)
	assessor := createUser(t, db, models.RoleAssessor)
	position := createPosition(t, db, "Frontend Developer")
	out, err := SubmitInternshipRegistration(db, candidate, internshipInput(position.ID))
	require.NoError(t, err)

	_, err = ApproveRegistration(db, assessor, models.ProgramPKL, out.ID, ApprovalInput{})
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
	_, err = RejectRegistration(db, candidate, models.ProgramPKL, out.ID, "no")
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
	_, err = CancelRegistration(db, other, models.ProgramPKL, out.ID)
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))

	_, err = ApproveRegistration(db, Actor{ID: uuid.New(), Role: models.RoleAdmin}, models.ProgramPKL, uuid.New(), ApprovalInput{})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestRejectRequiresReason(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, models.RoleAdmin)

	_, err := RejectRegistration(db, admin, models.ProgramPKL, uuid.New(), "   ")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestCancelThenApproveIsStateError(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, models.RoleAdmin)
	candidate := createUser(t, db, models.RoleCandidate)
	program, batch := createProgram(t, db, 0)

	out, err := SubmitCertificationRegistration(db, candidate, certificationInput(program.ID, batch.ID))
	require.NoError(t, err)
	assert.Equal(t, "SRT-2025-0001", out.ApplicationNumber)

	cancelled, err := CancelRegistration(db, candidate, models.ProgramSertifikasi, out.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationDibatalkan, cancelled.Status)

	_, err = ApproveRegistration(db, admin, models.ProgramSertifikasi, out.ID, ApprovalInput{Note: "ok"})
	assert.ErrorIs(t, err, &apperrors.Error{Kind: apperrors.KindState})

	_, err = CancelRegistration(db, candidate, models.ProgramSertifikasi, out.ID)
	assert.Equal(t, apperrors.KindState, apperrors.KindOf(err))
}

func TestCertificationBatchQuota(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, models.RoleAdmin)
	program, batch := createProgram(t, db, 1)

	first := createUser(t, db, models.RoleCandidate)
	second := createUser(t, db, models.RoleCandidate)
	a, err := SubmitCertificationRegistration(db, first, certificationInput(program.ID, batch.ID))
	require.NoError(t, err)
	b, err := SubmitCertificationRegistration(db, second, certificationInput(program.ID, batch.ID))
	require.NoError(t, err)

	_, err = ApproveRegistration(db, admin, models.ProgramSertifikasi, a.ID, ApprovalInput{})
	require.NoError(t, err)
	_, err = ApproveRegistration(db, admin, models.ProgramSertifikasi, b.ID, ApprovalInput{})
	assert.Equal(t, apperrors.KindPrecondition, apperrors.KindOf(err))

	var reloaded models.CertificationBatch
	require.NoError(t, db.First(&reloaded, "id = ?", batch.ID).Error)
	assert.Equal(t, 1, reloaded.RegistrantCount)

	var reg models.CertificationRegistration
	require.NoError(t, db.First(&reg, "id = ?", b.ID).Error)
	assert.Equal(t, models.RegistrationPengajuan, reg.Status)
}

func TestCertificationRegistrationBatchMustBelongToProgram(t *testing.T) {
	db := newTestDB(t)
	candidate := createUser(t, db, models.RoleCandidate)
	program, _ := createProgram(t, db, 0)
	_, otherBatch := createProgram(t, db, 0)

	_, err := SubmitCertificationRegistration(db, candidate, certificationInput(program.ID, otherBatch.ID))
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestApprovalDateWindow(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, models.RoleAdmin)
	start := fixedNow.AddDate(0, 1, 0)
	end := fixedNow

	_, err := ApproveRegistration(db, admin, models.ProgramPKL, uuid.New(), ApprovalInput{StartDate: &start, EndDate: &end})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}
