package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser  UserRole = "USER"
	UserRoleAdmin UserRole = "ADMIN"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Whatsapp     *string    `gorm:"type:varchar(32);uniqueIndex:idx_users_whatsapp"`
	PasswordHash *string    `gorm:"type:text"`
	Role         UserRole   `gorm:"type:varchar(16);default:'USER';not null"`
	Status       UserStatus `gorm:"type:varchar(16);default:'PENDING';not null"`

	Name         string  `gorm:"type:varchar(255)"`
	PartnerName  string  `gorm:"type:varchar(255)"`
	ProfileImage *string `gorm:"type:text"`
	WeddingDate  *time.Time

	PlanID            *uuid.UUID `gorm:"type:uuid;index"`
	Plan              *Plan      `gorm:"constraint:OnDelete:SET NULL"`
	SubscriptionStart *time.Time
	SubscriptionEnd   *time.Time

	// Hashes of the outstanding verification pair; both are cleared on redemption.
	VerificationTokenHash *string `gorm:"type:text;uniqueIndex:idx_users_verification_token_hash"`
	VerificationCodeHash  *string `gorm:"type:text;uniqueIndex:idx_users_verification_code_hash"`
	VerificationExpiresAt *time.Time
	EmailVerifiedAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Subscriptions []Subscription
	WeddingPages  []WeddingPage
}

func (u *User) HasPendingVerification() bool {
	return u.VerificationCodeHash != nil || u.VerificationTokenHash != nil
}
