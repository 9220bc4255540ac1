package services

import (
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/anjiri1684/pkl_sertifikasi/notifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentMail struct {
	to, subject, body string
}

type captureMailer struct {
	mu    sync.Mutex
	mails []sentMail
}

func (m *captureMailer) Send(toEmail, toName, subject, htmlContent string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mails = append(m.mails, sentMail{to: toEmail, subject: subject, body: htmlContent})
	return nil
}

// waitFor returns the first mail sent to the candidate once it arrives.
func (m *captureMailer) waitFor(t *testing.T, db *gorm.DB, candidate Actor) sentMail {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, "id = ?", candidate.ID).Error)
	var found sentMail
	require.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		for _, mail := range m.mails {
			if mail.to == user.Email {
				found = mail
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)
	return found
}

func captureEmails(t *testing.T) *captureMailer {
	t.Helper()
	m := &captureMailer{}
	prev := notifications.SetEmailClient(m)
	t.Cleanup(func() { notifications.SetEmailClient(prev) })
	return m
}

func TestRejectionEmailNamesPosition(t *testing.T) {
	db := newTestDB(t)
	mails := captureEmails(t)
	admin := createUser(t, db, models.RoleAdmin)
	candidate := createUser(t, db, models.RoleCandidate)
	position := createPosition(t, db, "Backend Developer")

	out, err := SubmitInternshipRegistration(db, candidate, internshipInput(position.ID))
	require.NoError(t, err)
	_, err = RejectRegistration(db, admin, models.ProgramPKL, out.ID, "kuota penuh")
	require.NoError(t, err)

	mail := mails.waitFor(t, db, candidate)
	assert.Equal(t, "Update on your registration PKL-2025-0001", mail.subject)
	assert.Contains(t, mail.body, "for <b>Backend Developer</b> is now <b>Ditolak</b>")
	assert.Contains(t, mail.body, "kuota penuh")
	assert.NotContains(t, mail.body, "<b></b>")
}

func TestApprovalEmailNamesProgramAndBatch(t *testing.T) {
	db := newTestDB(t)
	mails := captureEmails(t)
	admin := createUser(t, db, models.RoleAdmin)
	candidate := createUser(t, db, models.RoleCandidate)
	program, batch := createProgram(t, db, 0)

	out, err := SubmitCertificationRegistration(db, candidate, certificationInput(program.ID, batch.ID))
	require.NoError(t, err)
	_, err = ApproveRegistration(db, admin, models.ProgramSertifikasi, out.ID, ApprovalInput{Note: "ok"})
	require.NoError(t, err)

	mail := mails.waitFor(t, db, candidate)
	assert.Equal(t, "Update on your registration SRT-2025-0001", mail.subject)
	assert.Contains(t, mail.body, "for <b>"+program.Name+" - Batch 1</b> is now <b>Disetujui</b>")
}

func TestCertificationRejectionEmailNamesProgramAndBatch(t *testing.T) {
	db := newTestDB(t)
	mails := captureEmails(t)
	admin := createUser(t, db, models.RoleAdmin)
	candidate := createUser(t, db, models.RoleCandidate)
	program, batch := createProgram(t, db, 0)

	out, err := SubmitCertificationRegistration(db, candidate, certificationInput(program.ID, batch.ID))
	require.NoError(t, err)
	_, err = RejectRegistration(db, admin, models.ProgramSertifikasi, out.ID, "dokumen kurang")
	require.NoError(t, err)

	mail := mails.waitFor(t, db, candidate)
	assert.Equal(t, "Update on your registration SRT-2025-0001", mail.subject)
	assert.Contains(t, mail.body, "for <b>"+program.Name+" - Batch 1</b> is now <b>Ditolak</b>")
}
