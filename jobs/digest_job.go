package jobs

import (
	"log/slog"
	"time"

	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/anjiri1684/pkl_sertifikasi/notifications"
	"gorm.io/gorm"
)

const staleAfter = 3 * 24 * time.Hour

type PendingCounts struct {
	Internship    int64
	Certification int64
}

func (p PendingCounts) Total() int64 {
	return p.Internship + p.Certification
}

// StalePending counts Pengajuan registrations submitted before now-3d.
func StalePending(db *gorm.DB, now time.Time) (PendingCounts, error) {
	var counts PendingCounts
	cutoff := now.Add(-staleAfter)

	err := db.Model(&models.InternshipRegistration{}).
		Where("status = ? AND submitted_at < ?", models.RegistrationPengajuan, cutoff).
		Count(&counts.Internship).Error
	if err != nil {
		return counts, err
	}
	err = db.Model(&models.CertificationRegistration{}).
		Where("status = ? AND submitted_at < ?", models.RegistrationPengajuan, cutoff).
		Count(&counts.Certification).Error
	return counts, err
}

func SendPendingDigest(db *gorm.DB) {
	slog.Info("Running job: SendPendingDigest...")

	counts, err := StalePending(db, time.Now())
	if err != nil {
		slog.Error("Error counting pending registrations", "error", err)
		return
	}
	if counts.Total() == 0 {
		return
	}

	var admins []models.User
	if err := db.Where("role = ? AND is_active = ?", models.RoleAdmin, true).Find(&admins).Error; err != nil {
		slog.Error("Error loading admins for digest", "error", err)
		return
	}
	for _, admin := range admins {
		subject, body := notifications.PendingDigestEmail(admin.FullName, counts.Internship, counts.Certification)
		go notifications.SendEmail(admin.FullName, admin.Email, subject, body)
	}
	slog.Info("Pending registration digest sent", "pkl", counts.Internship, "sertifikasi", counts.Certification, "admins", len(admins))
}
