package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// FileRef points at an object held by the blob storage; the file content
// itself never passes through the database.
type FileRef struct {
	Path string `gorm:"size:255" json:"path,omitempty"`
	Name string `gorm:"size:255" json:"name,omitempty"`
	URL  string `gorm:"type:text" json:"url,omitempty"`
}

func (f FileRef) Empty() bool {
	return f.Path == "" && f.URL == ""
}
