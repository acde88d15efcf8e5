package dto

// RegisterRequest binds from JSON or multipart form fields. The profile image
// travels as the multipart file "image".
type RegisterRequest struct {
	Email       string `json:"email" form:"email" validate:"required,email"`
	Name        string `json:"name" form:"name" validate:"required"`
	PartnerName string `json:"partner_name" form:"partner_name" validate:"omitempty"`
	Phone       string `json:"phone" form:"phone" validate:"omitempty"`
	Password    string `json:"password" form:"password" validate:"required,min=8"`
	WeddingDate string `json:"wedding_date" form:"wedding_date" validate:"omitempty,datetime=2006-01-02"`
}

type RedeemVerificationRequest struct {
	Code  string `json:"code" validate:"omitempty,numeric"`
	Token string `json:"token" validate:"required_without=Code"`
	Email string `json:"email" validate:"omitempty,email"`
}

type RedeemVerificationResponse struct {
	Activated bool   `json:"activated"`
	Email     string `json:"email"`
}
