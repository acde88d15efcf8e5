package service

import (
	"errors"
	"fmt"

	"weddingplanner/internal/entity"
)

var (
	ErrMissingFields           = errors.New("missing required fields")
	ErrInvalidInput            = errors.New("invalid input")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrPaymentNotFound         = errors.New("payment not found")
	ErrPaymentNotSuccessful    = errors.New("payment not successful")
	ErrInvalidPlan             = errors.New("invalid plan")
	ErrPlanNameTaken           = errors.New("plan name already exists")
	ErrUpstream                = errors.New("payment verification failed, try again")
	ErrNoActiveSubscription    = errors.New("no active subscription for this email")
	ErrAccountAlreadyActive    = fmt.Errorf("%w: account already activated", ErrNoActiveSubscription)
	ErrPhoneAlreadyUsed        = errors.New("phone number already used by another account")
	ErrInvalidCode             = errors.New("invalid verification code")
	ErrVerificationExpired     = errors.New("verification code expired")
	ErrInvalidStatusTransition = entity.ErrInvalidStatusTransition
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrAccountNotActive        = errors.New("account not activated")
	ErrUserNotFound            = errors.New("user not found")
	ErrEmailDelivery           = errors.New("could not deliver email")
	ErrEmailNotConfigured      = errors.New("email sender not configured")
)

// ProviderError carries a message from the payment provider that is safe to
// show to the caller.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return ErrUpstream.Error()
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return ErrUpstream
}

func missingFields(fields ...string) error {
	return fmt.Errorf("%w: %v", ErrMissingFields, fields)
}
