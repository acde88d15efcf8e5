package service

import (
	"io"
	"time"

	"github.com/google/uuid"
)

type InitiatePaymentInput struct {
	Email  string
	Phone  string
	PlanID string
	Amount string
}

type InitiatePaymentResult struct {
	AuthorizationURL string
	Reference        string
}

type VerifyPaymentInput struct {
	Reference string
	PlanID    string
	Phone     string

	// Email and Amount are what the client claims; the provider's values are
	// the ones persisted.
	Email  string
	Amount string
}

type VerifyPaymentResult struct {
	SubscriptionID uuid.UUID
	Token          string
	PlanName       string
	Email          string
	ExpiresAt      time.Time
	Replayed       bool
}

type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type RegisterInput struct {
	Email       string
	Name        string
	PartnerName string
	Phone       string
	Password    string
	WeddingDate *time.Time
	Image       *ImageUpload
}

type RedeemInput struct {
	Code  string
	Token string
	Email string
}

type RedeemResult struct {
	Activated bool
	Email     string
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	AccessToken string
	ExpiresIn   int64
}

type PlanInput struct {
	Name         string
	Price        int64
	DurationDays int
	MaxPhotos    int
	MaxVideos    int
	MaxTabs      int
}
