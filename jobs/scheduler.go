package jobs

import (
	"log/slog"
	"time"

	config "github.com/anjiri1684/pkl_sertifikasi/configs"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const (
	weeklyReminderSpec = "0 8 * * 1"
	pendingDigestSpec  = "0 7 * * *"
)

// Start schedules the reminder jobs in APP_TIMEZONE and starts the cron runner.
func Start(db *gorm.DB) (*cron.Cron, error) {
	loc, err := time.LoadLocation(config.ConfigDefault("APP_TIMEZONE", "Asia/Jakarta"))
	if err != nil {
		slog.Warn("unknown APP_TIMEZONE, using UTC", "error", err)
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(weeklyReminderSpec, func() { SendWeeklyReportReminders(db) }); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc(pendingDigestSpec, func() { SendPendingDigest(db) }); err != nil {
		return nil, err
	}
	c.Start()
	slog.Info("✅ Cron jobs scheduled successfully.", "timezone", loc.String())
	return c, nil
}
