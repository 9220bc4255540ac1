package services

import (
	"log/slog"

	"github.com/anjiri1684/pkl_sertifikasi/metrics"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/anjiri1684/pkl_sertifikasi/notifications"
	"github.com/anjiri1684/pkl_sertifikasi/websocket"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type emailBuilder func(fullName string) (subject, body string)

// notifyCandidate runs after commit. Failures are logged and never undo the
// state change that triggered them.
func notifyCandidate(db *gorm.DB, candidateID uuid.UUID, ev websocket.Event, build emailBuilder) {
	metrics.RecordTransition(ev.Entity, ev.Status)

	if websocket.Connected(candidateID) {
		ev.UserID = candidateID
		websocket.Publish(ev)
		metrics.NotificationsSent.WithLabelValues("websocket").Inc()
	}

	if build == nil {
		return
	}
	var user models.User
	if err := db.Select("id", "full_name", "email").First(&user, "id = ?", candidateID).Error; err != nil {
		slog.Warn("notification skipped, candidate not loaded", "candidate_id", candidateID, "error", err)
		return
	}
	subject, body := build(user.FullName)
	go notifications.SendEmail(user.FullName, user.Email, subject, body)
	metrics.NotificationsSent.WithLabelValues("email").Inc()
}
