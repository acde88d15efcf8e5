package dto

import "time"

type InitiatePaymentRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Phone  string `json:"phone" validate:"required"`
	PlanID string `json:"planId" validate:"required"`
	Amount string `json:"amount" validate:"required"`
}

type InitiatePaymentResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

// VerifyPaymentRequest mirrors the callback query parameters. Email and
// amount are accepted for diagnostics only.
type VerifyPaymentRequest struct {
	Reference string `json:"reference" validate:"required"`
	PlanID    string `json:"planId" validate:"required"`
	Phone     string `json:"phone" validate:"omitempty"`
	Email     string `json:"email" validate:"omitempty"`
	Amount    string `json:"amount" validate:"omitempty"`
}

type VerifyPaymentResponse struct {
	SubscriptionID string    `json:"subscription_id"`
	Token          string    `json:"token"`
	PlanName       string    `json:"plan_name"`
	Email          string    `json:"email"`
	ExpiresAt      time.Time `json:"expires_at"`
	Replayed       bool      `json:"replayed"`
}
