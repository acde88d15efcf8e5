package entity

import (
	"time"

	"github.com/google/uuid"
)

type WeddingPage struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Slug        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Title       string    `gorm:"type:varchar(255)"`
	IsLive      bool      `gorm:"not null;default:false;index"`
	WeddingDate *time.Time

	UserID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	User       User       `gorm:"constraint:OnDelete:CASCADE"`
	TemplateID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
