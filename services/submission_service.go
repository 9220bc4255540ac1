package services

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/anjiri1684/pkl_sertifikasi/apperrors"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/anjiri1684/pkl_sertifikasi/notifications"
	"github.com/anjiri1684/pkl_sertifikasi/utils"
	"github.com/anjiri1684/pkl_sertifikasi/websocket"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmissionInput carries the fields shared by every upload. At least one of
// URL and File must be set.
type SubmissionInput struct {
	Title string         `json:"title"`
	URL   string         `json:"url"`
	File  models.FileRef `json:"file"`
}

type WeeklyReportInput struct {
	SubmissionInput
	WeekNumber int    `json:"week_number"`
	Activities string `json:"activities"`
}

type InternshipDocumentInput struct {
	SubmissionInput
	DocumentType string `json:"document_type"`
}

type CertificationTaskInput struct {
	SubmissionInput
	Description string `json:"description"`
}

func (in SubmissionInput) build() (models.Submission, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Submission{}, apperrors.Validation("title is required")
	}
	link := strings.TrimSpace(in.URL)
	if link == "" && in.File.Empty() {
		return models.Submission{}, apperrors.Validation("either a url or a file is required")
	}
	if link != "" {
		if err := utils.Validate.Var(link, "url"); err != nil {
			return models.Submission{}, apperrors.Validation("url must be a valid URL")
		}
	}
	return models.Submission{
		Title:       title,
		URL:         optional(link),
		File:        in.File,
		Status:      models.SubmissionPending,
		SubmittedAt: now(),
	}, nil
}

// ownedApprovedRegistration checks that the candidate may upload against the
// registration.
func ownedApprovedRegistration(tx *gorm.DB, actor Actor, dest any, id uuid.UUID, what string) error {
	if err := findByID(tx, dest, id, what); err != nil {
		return err
	}
	var owner uuid.UUID
	var state *models.RegistrationState
	switch r := dest.(type) {
	case *models.InternshipRegistration:
		owner, state = r.CandidateID, &r.RegistrationState
	case *models.CertificationRegistration:
		owner, state = r.CandidateID, &r.RegistrationState
	default:
		return errors.New("unsupported registration type")
	}
	if owner != actor.ID {
		return apperrors.Authorization("this registration belongs to another candidate")
	}
	if state.Status != models.RegistrationDisetujui {
		return apperrors.Precondition("registration is %s, uploads open once it is %s", state.Status, models.RegistrationDisetujui)
	}
	return nil
}

func CreateWeeklyReport(db *gorm.DB, actor Actor, registrationID uuid.UUID, in WeeklyReportInput) (*models.WeeklyReport, error) {
	sub, err := in.build()
	if err != nil {
		return nil, err
	}
	if in.WeekNumber < 1 {
		return nil, apperrors.Validation("week_number must be at least 1")
	}

	report := models.WeeklyReport{
		RegistrationID: registrationID,
		WeekNumber:     in.WeekNumber,
		Activities:     in.Activities,
		Submission:     sub,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		var reg models.InternshipRegistration
		if err := ownedApprovedRegistration(tx, actor, &reg, registrationID, "internship registration"); err != nil {
			return err
		}
		var existing int64
		err := tx.Model(&models.WeeklyReport{}).
			Where("registration_id = ? AND week_number = ?", registrationID, in.WeekNumber).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return apperrors.Conflict("a report for week %d already exists", in.WeekNumber)
		}
		return createSubmission(tx, &report)
	})
	if err != nil {
		return nil, err
	}
	logCreated(models.KindWeeklyReport, &report)
	return &report, nil
}

func CreateInternshipDocument(db *gorm.DB, actor Actor, registrationID uuid.UUID, in InternshipDocumentInput) (*models.InternshipDocument, error) {
	sub, err := in.build()
	if err != nil {
		return nil, err
	}
	docType := strings.TrimSpace(in.DocumentType)
	if docType == "" {
		docType = "lainnya"
	}

	doc := models.InternshipDocument{RegistrationID: registrationID, DocumentType: docType, Submission: sub}
	err = db.Transaction(func(tx *gorm.DB) error {
		var reg models.InternshipRegistration
		if err := ownedApprovedRegistration(tx, actor, &reg, registrationID, "internship registration"); err != nil {
			return err
		}
		return createSubmission(tx, &doc)
	})
	if err != nil {
		return nil, err
	}
	logCreated(models.KindInternshipDocument, &doc)
	return &doc, nil
}

func CreateCertificationTask(db *gorm.DB, actor Actor, registrationID uuid.UUID, in CertificationTaskInput) (*models.CertificationTask, error) {
	sub, err := in.build()
	if err != nil {
		return nil, err
	}

	task := models.CertificationTask{RegistrationID: registrationID, Description: in.Description, Submission: sub}
	err = db.Transaction(func(tx *gorm.DB) error {
		var reg models.CertificationRegistration
		if err := ownedApprovedRegistration(tx, actor, &reg, registrationID, "certification registration"); err != nil {
			return err
		}
		return createSubmission(tx, &task)
	})
	if err != nil {
		return nil, err
	}
	logCreated(models.KindCertificationTask, &task)
	return &task, nil
}

func createSubmission(tx *gorm.DB, rec models.Reviewable) error {
	err := tx.Create(rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Conflict("submission already exists")
	}
	return err
}

func logCreated(kind models.SubmissionKind, rec models.Reviewable) {
	slog.Info("submission created", "kind", kind, "id", rec.GetID(), "registration_id", rec.GetRegistrationID())
}

// NewReviewable returns an empty model for kind.
func NewReviewable(kind models.SubmissionKind) (models.Reviewable, error) {
	switch kind {
	case models.KindWeeklyReport:
		return &models.WeeklyReport{}, nil
	case models.KindInternshipDocument:
		return &models.InternshipDocument{}, nil
	case models.KindCertificationTask:
		return &models.CertificationTask{}, nil
	}
	return nil, apperrors.Validation("unknown submission kind %q", kind)
}

// ReviewSubmission records a reviewer decision. Decided submissions may be
// reviewed again; the previous outcome is overwritten.
func ReviewSubmission(db *gorm.DB, actor Actor, kind models.SubmissionKind, id uuid.UUID, outcome models.SubmissionStatus, feedback string) (models.Reviewable, error) {
	if !actor.CanAssess() {
		return nil, apperrors.Authorization("only admins and assessors can review submissions")
	}
	rec, err := NewReviewable(kind)
	if err != nil {
		return nil, err
	}
	if !outcome.Decided() {
		return nil, apperrors.Validation("outcome must be %s or %s", models.SubmissionApproved, models.SubmissionRejected)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := lockByID(tx, rec, id, "submission"); err != nil {
			return err
		}
		rec.GetSubmission().Review(outcome, actor.ID, strings.TrimSpace(feedback), now())
		return tx.Save(rec).Error
	})
	if err != nil {
		return nil, err
	}

	sub := rec.GetSubmission()
	slog.Info("submission reviewed", "kind", kind, "id", id, "status", sub.Status, "reviewer_id", actor.ID)

	candidateID, err := submissionOwner(db, kind, rec.GetRegistrationID())
	if err != nil {
		slog.Warn("submission owner not found, notification skipped", "kind", kind, "id", id, "error", err)
		return rec, nil
	}
	ev := websocket.Event{Type: "submission.status", Entity: string(kind), EntityID: id, Status: string(sub.Status)}
	fb := ""
	if sub.Feedback != nil {
		fb = *sub.Feedback
	}
	notifyCandidate(db, candidateID, ev, func(fullName string) (string, string) {
		return notifications.SubmissionReviewedEmail(fullName, sub.Title, string(sub.Status), fb)
	})
	return rec, nil
}

func submissionOwner(db *gorm.DB, kind models.SubmissionKind, registrationID uuid.UUID) (uuid.UUID, error) {
	var ids []uuid.UUID
	var err error
	if kind.Program() == models.ProgramSertifikasi {
		err = db.Model(&models.CertificationRegistration{}).Unscoped().
			Where("id = ?", registrationID).Pluck("candidate_id", &ids).Error
	} else {
		err = db.Model(&models.InternshipRegistration{}).
			Where("id = ?", registrationID).Pluck("candidate_id", &ids).Error
	}
	if err != nil {
		return uuid.Nil, err
	}
	if len(ids) == 0 {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	return ids[0], nil
}
