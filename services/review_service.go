package services

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/anjiri1684/pkl_sertifikasi/apperrors"
	"github.com/anjiri1684/pkl_sertifikasi/metrics"
	"github.com/anjiri1684/pkl_sertifikasi/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	minRating = 1
	maxRating = 5
)

// SubmitReview stores a candidate's rating of a PKL position or a
// certification program. The candidate needs at least one approved
// submission under it and may review it once.
func SubmitReview(db *gorm.DB, actor Actor, program models.ProgramType, programID uuid.UUID, rating int, text string) (*models.ProgramReview, error) {
	if rating < minRating || rating > maxRating {
		return nil, apperrors.Validation("rating must be between %d and %d", minRating, maxRating)
	}
	if !program.Valid() {
		return nil, apperrors.Validation("unknown program type %q", program)
	}

	review := models.ProgramReview{
		CandidateID: actor.ID,
		ProgramType: program,
		ProgramID:   programID,
		Rating:      rating,
		Text:        strings.TrimSpace(text),
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if program == models.ProgramPKL {
			if err := findByID(tx, &models.InternshipPosition{}, programID, "position"); err != nil {
				return err
			}
		} else {
			if err := findByID(tx, &models.CertificationProgram{}, programID, "program"); err != nil {
				return err
			}
		}

		approved, err := approvedSubmissionCount(tx, actor.ID, program, programID)
		if err != nil {
			return err
		}
		if approved == 0 {
			return apperrors.Precondition("reviews open once at least one of your submissions has been approved")
		}

		var existing int64
		err = tx.Model(&models.ProgramReview{}).
			Where("candidate_id = ? AND program_type = ? AND program_id = ?", actor.ID, program, programID).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return apperrors.Conflict("you have already reviewed this program")
		}

		err = tx.Create(&review).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("you have already reviewed this program")
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("program review submitted", "review_id", review.ID, "program", program, "program_id", programID, "rating", rating)
	metrics.RecordTransition("program_review", "created")
	return &review, nil
}

func approvedSubmissionCount(tx *gorm.DB, candidateID uuid.UUID, program models.ProgramType, programID uuid.UUID) (int64, error) {
	approved := string(models.SubmissionApproved)

	if program == models.ProgramSertifikasi {
		var n int64
		err := tx.Model(&models.CertificationTask{}).
			Joins("JOIN certification_registrations r ON r.id = certification_tasks.registration_id AND r.deleted_at IS NULL").
			Where("r.candidate_id = ? AND r.program_id = ? AND certification_tasks.status = ?", candidateID, programID, approved).
			Count(&n).Error
		return n, err
	}

	var reports, documents int64
	err := tx.Model(&models.WeeklyReport{}).
		Joins("JOIN internship_registrations r ON r.id = weekly_reports.registration_id").
		Where("r.candidate_id = ? AND r.position_id = ? AND weekly_reports.status = ?", candidateID, programID, approved).
		Count(&reports).Error
	if err != nil {
		return 0, err
	}
	err = tx.Model(&models.InternshipDocument{}).
		Joins("JOIN internship_registrations r ON r.id = internship_documents.registration_id").
		Where("r.candidate_id = ? AND r.position_id = ? AND internship_documents.status = ?", candidateID, programID, approved).
		Count(&documents).Error
	return reports + documents, err
}
