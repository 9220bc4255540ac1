package models

import (
	"database/sql/driver"
	"fmt"
)

type RegistrationStatus string

const (
	RegistrationPengajuan  RegistrationStatus = "Pengajuan"
	RegistrationDisetujui  RegistrationStatus = "Disetujui"
	RegistrationDitolak    RegistrationStatus = "Ditolak"
	RegistrationDibatalkan RegistrationStatus = "Dibatalkan"
)

var RegistrationStatuses = []RegistrationStatus{
	RegistrationPengajuan, RegistrationDisetujui, RegistrationDitolak, RegistrationDibatalkan,
}

var registrationTransitions = map[RegistrationStatus][]RegistrationStatus{
	RegistrationPengajuan: {RegistrationDisetujui, RegistrationDitolak, RegistrationDibatalkan},
}

func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationPengajuan, RegistrationDisetujui, RegistrationDitolak, RegistrationDibatalkan:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s RegistrationStatus) Terminal() bool {
	return len(registrationTransitions[s]) == 0
}

// Active reports whether the registration still occupies the candidate's slot
// for its program.
func (s RegistrationStatus) Active() bool {
	return s == RegistrationPengajuan || s == RegistrationDisetujui
}

// ActiveRegistrationStatuses lists the statuses that block a second
// registration for the same position or program.
func ActiveRegistrationStatuses() []string {
	var out []string
	for _, s := range RegistrationStatuses {
		if s.Active() {
			out = append(out, string(s))
		}
	}
	return out
}

func (s RegistrationStatus) CanTransitionTo(next RegistrationStatus) bool {
	for _, allowed := range registrationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s RegistrationStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid registration status %q", string(s))
	}
	return string(s), nil
}

func (s *RegistrationStatus) Scan(value any) error {
	raw, err := scanString(value)
	if err != nil {
		return err
	}
	v := RegistrationStatus(raw)
	if !v.Valid() {
		return fmt.Errorf("invalid registration status %q in database", raw)
	}
	*s = v
	return nil
}

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

func (s SubmissionStatus) Valid() bool {
	return s == SubmissionPending || s == SubmissionApproved || s == SubmissionRejected
}

// Decided reports whether s is a reviewer outcome.
func (s SubmissionStatus) Decided() bool {
	return s == SubmissionApproved || s == SubmissionRejected
}

func (s SubmissionStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid submission status %q", string(s))
	}
	return string(s), nil
}

func (s *SubmissionStatus) Scan(value any) error {
	raw, err := scanString(value)
	if err != nil {
		return err
	}
	v := SubmissionStatus(raw)
	if !v.Valid() {
		return fmt.Errorf("invalid submission status %q in database", raw)
	}
	*s = v
	return nil
}

const AssessmentNotAssessed = "Belum Dinilai"

// InternshipAssessmentStatus uses the PKL vocabulary (Diterima / Ditolak).
type InternshipAssessmentStatus string

const (
	InternshipNotAssessed InternshipAssessmentStatus = AssessmentNotAssessed
	InternshipDiterima    InternshipAssessmentStatus = "Diterima"
	InternshipDitolak     InternshipAssessmentStatus = "Ditolak"
)

func (s InternshipAssessmentStatus) Valid() bool {
	return s == InternshipNotAssessed || s == InternshipDiterima || s == InternshipDitolak
}

func (s InternshipAssessmentStatus) Decided() bool {
	return s == InternshipDiterima || s == InternshipDitolak
}

func (s InternshipAssessmentStatus) Accepted() bool {
	return s == InternshipDiterima
}

func (s InternshipAssessmentStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid internship assessment status %q", string(s))
	}
	return string(s), nil
}

func (s *InternshipAssessmentStatus) Scan(value any) error {
	raw, err := scanString(value)
	if err != nil {
		return err
	}
	v := InternshipAssessmentStatus(raw)
	if !v.Valid() {
		return fmt.Errorf("invalid internship assessment status %q in database", raw)
	}
	*s = v
	return nil
}

// CertificationAssessmentStatus keeps the legacy Sertifikasi vocabulary
// (Lulus / Tidak Lulus).
type CertificationAssessmentStatus string

const (
	CertificationNotAssessed CertificationAssessmentStatus = AssessmentNotAssessed
	CertificationLulus       CertificationAssessmentStatus = "Lulus"
	CertificationTidakLulus  CertificationAssessmentStatus = "Tidak Lulus"
)

func (s CertificationAssessmentStatus) Valid() bool {
	return s == CertificationNotAssessed || s == CertificationLulus || s == CertificationTidakLulus
}

func (s CertificationAssessmentStatus) Decided() bool {
	return s == CertificationLulus || s == CertificationTidakLulus
}

func (s CertificationAssessmentStatus) Accepted() bool {
	return s == CertificationLulus
}

func (s CertificationAssessmentStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid certification assessment status %q", string(s))
	}
	return string(s), nil
}

func (s *CertificationAssessmentStatus) Scan(value any) error {
	raw, err := scanString(value)
	if err != nil {
		return err
	}
	v := CertificationAssessmentStatus(raw)
	if !v.Valid() {
		return fmt.Errorf("invalid certification assessment status %q in database", raw)
	}
	*s = v
	return nil
}

type ProgramType string

const (
	ProgramPKL         ProgramType = "pkl"
	ProgramSertifikasi ProgramType = "sertifikasi"
)

func (p ProgramType) Valid() bool {
	return p == ProgramPKL || p == ProgramSertifikasi
}

func scanString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", fmt.Errorf("unexpected NULL status")
	default:
		return "", fmt.Errorf("unsupported status type %T", value)
	}
}
