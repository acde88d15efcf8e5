package entity

import (
	"time"

	"github.com/google/uuid"
)

type Plan struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Price        int64     `gorm:"not null"` // minor units
	DurationDays int       `gorm:"not null"`
	MaxPhotos    int       `gorm:"not null;default:0"`
	MaxVideos    int       `gorm:"not null;default:0"`
	MaxTabs      int       `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Plan) Duration() time.Duration {
	return time.Duration(p.DurationDays) * 24 * time.Hour
}
