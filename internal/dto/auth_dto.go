package dto

import (
	"time"

	"weddingplanner/internal/entity"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type PlanSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UserResponse struct {
	ID                  string       `json:"id"`
	Email               string       `json:"email"`
	Whatsapp            *string      `json:"whatsapp,omitempty"`
	Role                string       `json:"role"`
	Status              string       `json:"status"`
	Name                string       `json:"name,omitempty"`
	PartnerName         string       `json:"partner_name,omitempty"`
	ProfileImage        *string      `json:"profile_image,omitempty"`
	WeddingDate         *time.Time   `json:"wedding_date,omitempty"`
	Plan                *PlanSummary `json:"plan,omitempty"`
	SubscriptionStart   *time.Time   `json:"subscription_start,omitempty"`
	SubscriptionEnd     *time.Time   `json:"subscription_end,omitempty"`
	EmailVerifiedAt     *time.Time   `json:"email_verified_at,omitempty"`
	VerificationPending bool         `json:"verification_pending"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

func UserResponseFromEntity(user *entity.User) UserResponse {
	response := UserResponse{
		ID:                  user.ID.String(),
		Email:               user.Email,
		Whatsapp:            user.Whatsapp,
		Role:                string(user.Role),
		Status:              string(user.Status),
		Name:                user.Name,
		PartnerName:         user.PartnerName,
		ProfileImage:        user.ProfileImage,
		WeddingDate:         user.WeddingDate,
		SubscriptionStart:   user.SubscriptionStart,
		SubscriptionEnd:     user.SubscriptionEnd,
		EmailVerifiedAt:     user.EmailVerifiedAt,
		VerificationPending: user.HasPendingVerification(),
		CreatedAt:           user.CreatedAt,
		UpdatedAt:           user.UpdatedAt,
	}
	if user.Plan != nil {
		response.Plan = &PlanSummary{ID: user.Plan.ID.String(), Name: user.Plan.Name}
	}
	return response
}

func UserResponsesFromEntities(users []entity.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, UserResponseFromEntity(&users[i]))
	}
	return responses
}
