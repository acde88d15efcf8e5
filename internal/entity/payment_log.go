package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PaymentAction string

const (
	PaymentInitialized PaymentAction = "initialized"
	PaymentVerified    PaymentAction = "verified"
	PaymentRejected    PaymentAction = "rejected"
)

// PaymentLog records each call that reached the payment provider.
type PaymentLog struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	Reference string        `gorm:"type:varchar(128);index"`
	Email     string        `gorm:"type:varchar(255)"`
	Action    PaymentAction `gorm:"type:varchar(32);not null"`

	Response datatypes.JSON

	CreatedAt time.Time
}
