package jobs

import (
	"log/slog"
	"time"

	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/anjiri1684/pkl_sertifikasi/notifications"
	"gorm.io/gorm"
)

// WeekOfInternship returns the 1-based week containing at, counted from start.
func WeekOfInternship(start, at time.Time) int {
	if at.Before(start) {
		return 0
	}
	return int(at.Sub(start).Hours()/(24*7)) + 1
}

type Reminder struct {
	Registration models.InternshipRegistration
	Week         int
}

// DueWeeklyReports lists approved internships running at now that have no
// report for the current week yet.
func DueWeeklyReports(db *gorm.DB, now time.Time) ([]Reminder, error) {
	var running []models.InternshipRegistration
	err := db.
		Preload("Candidate").
		Preload("Position").
		Where("status = ? AND start_date IS NOT NULL AND start_date <= ? AND (end_date IS NULL OR end_date >= ?)",
			models.RegistrationDisetujui, now, now).
		Find(&running).Error
	if err != nil {
		return nil, err
	}

	var due []Reminder
	for _, reg := range running {
		week := WeekOfInternship(*reg.StartDate, now)
		var count int64
		err := db.Model(&models.WeeklyReport{}).
			Where("registration_id = ? AND week_number = ?", reg.ID, week).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		if count == 0 {
			due = append(due, Reminder{Registration: reg, Week: week})
		}
	}
	return due, nil
}

func SendWeeklyReportReminders(db *gorm.DB) {
	slog.Info("Running job: SendWeeklyReportReminders...")

	due, err := DueWeeklyReports(db, time.Now())
	if err != nil {
		slog.Error("Error checking for missing weekly reports", "error", err)
		return
	}
	if len(due) == 0 {
		return
	}

	for _, r := range due {
		if r.Registration.Candidate == nil {
			continue
		}
		positionName := ""
		if r.Registration.Position != nil {
			positionName = r.Registration.Position.Name
		}
		subject, body := notifications.WeeklyReportReminderEmail(r.Registration.Candidate.FullName, positionName, r.Week)
		go notifications.SendEmail(r.Registration.Candidate.FullName, r.Registration.Candidate.Email, subject, body)
	}
	slog.Info("Weekly report reminders sent", "count", len(due))
}
