package entity

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email    string    `gorm:"type:varchar(255);not null;index"`
	Whatsapp string    `gorm:"type:varchar(32)"`

	PlanID uuid.UUID `gorm:"type:uuid;not null"`
	Plan   Plan      `gorm:"constraint:OnDelete:RESTRICT"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	Token             string `gorm:"type:text;not null"`
	ExpiresAt         time.Time
	Amount            int64  `gorm:"not null"` // minor units, as reported by the provider
	PaystackReference string `gorm:"type:varchar(128);uniqueIndex;not null"`

	CreatedAt time.Time
}
