package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OtpToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `gorm:"not null;index"`
	Phone     string    `gorm:"size:20;not null"`
	Code      string    `gorm:"size:6;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`

	CreatedAt time.Time
}

func (t *OtpToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
