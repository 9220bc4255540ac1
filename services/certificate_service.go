package services

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/anjiri1684/pkl_sertifikasi/apperrors"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/anjiri1684/pkl_sertifikasi/notifications"
	"github.com/anjiri1684/pkl_sertifikasi/storage"
	"github.com/anjiri1684/pkl_sertifikasi/utils"
	"github.com/anjiri1684/pkl_sertifikasi/websocket"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed templates/certificate.html
var templateFS embed.FS

var certificateTemplate = template.Must(template.ParseFS(templateFS, "templates/certificate.html"))

const renderTimeout = 30 * time.Second

var renderPDF = generatePDFFromHTML

type CertificateInput struct {
	IssueDate time.Time
	Link      string
	Note      string
}

// CertificateSubject is what gets printed on a certificate.
type CertificateSubject struct {
	RegistrationID    uuid.UUID
	CandidateID       uuid.UUID
	CandidateName     string
	ProgramType       models.ProgramType
	ProgramName       string
	ApplicationNumber string
}

// CertificateEligibility runs the issuance checks without writing anything.
func CertificateEligibility(db *gorm.DB, program models.ProgramType, registrationID uuid.UUID) (*CertificateSubject, error) {
	return checkEligibility(db, program, registrationID, false)
}

func checkEligibility(tx *gorm.DB, program models.ProgramType, registrationID uuid.UUID, lock bool) (*CertificateSubject, error) {
	q := tx
	if lock {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	subject := &CertificateSubject{RegistrationID: registrationID, ProgramType: program}

	switch program {
	case models.ProgramPKL:
		var reg models.InternshipRegistration
		if err := findByID(q.Preload("Position").Preload("Candidate"), &reg, registrationID, "internship registration"); err != nil {
			return nil, err
		}
		var assessment models.InternshipAssessment
		err := tx.Where("registration_id = ?", reg.ID).Take(&assessment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Precondition("registration %s has not been assessed", reg.ApplicationNumber)
		}
		if err != nil {
			return nil, err
		}
		if !assessment.Status.Accepted() {
			return nil, apperrors.Precondition("assessment is %s, a certificate needs %s", assessment.Status, models.InternshipDiterima)
		}
		subject.CandidateID, subject.ApplicationNumber = reg.CandidateID, reg.ApplicationNumber
		if reg.Position != nil {
			subject.ProgramName = reg.Position.Name
		}
		if reg.Candidate != nil {
			subject.CandidateName = reg.Candidate.FullName
		}
	case models.ProgramSertifikasi:
		var reg models.CertificationRegistration
		if err := findByID(q.Preload("Program").Preload("Batch").Preload("Candidate"), &reg, registrationID, "certification registration"); err != nil {
			return nil, err
		}
		var assessment models.CertificationAssessment
		err := tx.Where("registration_id = ?", reg.ID).Take(&assessment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Precondition("registration %s has not been assessed", reg.ApplicationNumber)
		}
		if err != nil {
			return nil, err
		}
		if !assessment.Status.Accepted() {
			return nil, apperrors.Precondition("assessment is %s, a certificate needs %s", assessment.Status, models.CertificationLulus)
		}
		subject.CandidateID, subject.ApplicationNumber = reg.CandidateID, reg.ApplicationNumber
		if reg.Program != nil {
			subject.ProgramName = reg.Program.Name
			if reg.Batch != nil {
				subject.ProgramName += " - " + reg.Batch.Name
			}
		}
		if reg.Candidate != nil {
			subject.CandidateName = reg.Candidate.FullName
		}
	default:
		return nil, apperrors.Validation("unknown program type %q", program)
	}

	var issued int64
	if err := certificatesFor(tx, program, registrationID).Count(&issued).Error; err != nil {
		return nil, err
	}
	if issued > 0 {
		return nil, apperrors.Conflict("a certificate was already issued for registration %s", subject.ApplicationNumber)
	}
	return subject, nil
}

func certificatesFor(tx *gorm.DB, program models.ProgramType, registrationID uuid.UUID) *gorm.DB {
	q := tx.Model(&models.Certificate{})
	if program == models.ProgramPKL {
		return q.Where("internship_registration_id = ?", registrationID)
	}
	return q.Where("certification_registration_id = ?", registrationID)
}

// IssueCertificate writes the certificate row. Issued certificates are never
// updated.
func IssueCertificate(db *gorm.DB, actor Actor, program models.ProgramType, registrationID uuid.UUID, in CertificateInput) (*models.Certificate, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Authorization("only admins can issue certificates")
	}
	link := strings.TrimSpace(in.Link)
	if link == "" {
		return nil, apperrors.Validation("certificate_link is required")
	}
	if err := utils.Validate.Var(link, "url"); err != nil {
		return nil, apperrors.Validation("certificate_link must be a valid URL")
	}
	issueDate := in.IssueDate
	if issueDate.IsZero() {
		issueDate = now()
	}

	var cert models.Certificate
	err := db.Transaction(func(tx *gorm.DB) error {
		subject, err := checkEligibility(tx, program, registrationID, true)
		if err != nil {
			return err
		}

		cert = models.Certificate{
			CandidateID:     subject.CandidateID,
			ProgramType:     program,
			ProgramName:     subject.ProgramName,
			IssueDate:       issueDate,
			CertificateLink: link,
			IssuerID:        actor.ID,
			Note:            optional(strings.TrimSpace(in.Note)),
		}
		regID := registrationID
		if program == models.ProgramPKL {
			cert.InternshipRegistrationID = &regID
		} else {
			cert.CertificationRegistrationID = &regID
		}

		err = tx.Create(&cert).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("a certificate was already issued for registration %s", subject.ApplicationNumber)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("✅ certificate issued", "certificate_id", cert.ID, "registration_id", registrationID, "program", program)
	ev := websocket.Event{Type: "certificate.issued", Entity: "certificate", EntityID: cert.ID, Status: "issued"}
	notifyCandidate(db, cert.CandidateID, ev, func(fullName string) (string, string) {
		return notifications.CertificateIssuedEmail(fullName, cert.ProgramName, cert.CertificateLink)
	})
	return &cert, nil
}

func generateCertificateHTML(subject *CertificateSubject, issueDate time.Time) (string, error) {
	label := "Praktik Kerja Lapangan"
	if subject.ProgramType == models.ProgramSertifikasi {
		label = "Sertifikasi Kompetensi"
	}
	data := struct {
		CandidateName     string
		ProgramLabel      string
		ProgramName       string
		ApplicationNumber string
		IssueDate         string
	}{
		CandidateName:     subject.CandidateName,
		ProgramLabel:      label,
		ProgramName:       subject.ProgramName,
		ApplicationNumber: subject.ApplicationNumber,
		IssueDate:         issueDate.Format("2 January 2006"),
	}

	var renderedHTML bytes.Buffer
	if err := certificateTemplate.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(ctx context.Context, htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, renderTimeout)
	defer cancelTimeout()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).WithLandscape(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

// PublishCertificatePDF renders the certificate and stores it.
func PublishCertificatePDF(ctx context.Context, store storage.BlobStorage, subject *CertificateSubject, issueDate time.Time) (storage.StoredFile, error) {
	if store == nil {
		return storage.StoredFile{}, apperrors.Validation("certificate_link is required when certificate storage is not configured")
	}
	htmlData, err := generateCertificateHTML(subject, issueDate)
	if err != nil {
		return storage.StoredFile{}, fmt.Errorf("render certificate html: %w", err)
	}
	pdfBytes, err := renderPDF(ctx, htmlData)
	if err != nil {
		return storage.StoredFile{}, fmt.Errorf("render certificate pdf: %w", err)
	}
	name := fmt.Sprintf("%s_%s.pdf", subject.ApplicationNumber, subject.CandidateID)
	stored, err := store.StoreBytes(ctx, bytes.NewReader(pdfBytes), name, storage.FolderCertificates)
	if err != nil {
		return storage.StoredFile{}, fmt.Errorf("upload certificate: %w", err)
	}
	return stored, nil
}

// IssueCertificateWithPDF issues a certificate whose link is a freshly
// rendered PDF. The upload is removed again when issuance fails.
func IssueCertificateWithPDF(ctx context.Context, db *gorm.DB, store storage.BlobStorage, actor Actor, program models.ProgramType, registrationID uuid.UUID, in CertificateInput) (*models.Certificate, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.Authorization("only admins can issue certificates")
	}
	if in.IssueDate.IsZero() {
		in.IssueDate = now()
	}
	subject, err := CertificateEligibility(db, program, registrationID)
	if err != nil {
		return nil, err
	}
	stored, err := PublishCertificatePDF(ctx, store, subject, in.IssueDate)
	if err != nil {
		return nil, err
	}

	in.Link = stored.URL
	cert, err := IssueCertificate(db, actor, program, registrationID, in)
	if err != nil {
		if derr := store.Delete(context.WithoutCancel(ctx), stored.Path); derr != nil {
			slog.Warn("failed to delete orphaned certificate pdf", "path", stored.Path, "error", derr)
		}
		return nil, err
	}
	return cert, nil
}
