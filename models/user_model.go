package models

import "time"

const (
	RoleCandidate = "candidate"
	RoleAdmin     = "admin"
	RoleAssessor  = "asesor"
)

type User struct {
	Base
	FullName string  `gorm:"size:255;not null" json:"full_name"`
	Email    string  `gorm:"size:255;not null;unique" json:"email"`
	Password string  `gorm:"not null" json:"-"`
	Role     string  `gorm:"size:20;not null;default:'candidate'" json:"role"`
	Phone    *string `gorm:"size:30" json:"phone"`

	ProfilePictureURL *string    `gorm:"size:255" json:"profile_picture_url"`
	IsActive          bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`

	ResetPasswordToken          *string    `gorm:"size:64;index" json:"-"`
	ResetPasswordTokenExpiresAt *time.Time `json:"-"`
}
