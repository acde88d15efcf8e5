package handler

import (
	"net/http"

	"weddingplanner/internal/dto"
	"weddingplanner/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	Service  *service.PaymentService
	Validate *validator.Validate
}

func NewPaymentHandler(svc *service.PaymentService, validate *validator.Validate) *PaymentHandler {
	return &PaymentHandler{Service: svc, Validate: validate}
}

func (h *PaymentHandler) Initialize(c echo.Context) error {
	var req dto.InitiatePaymentRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return writeValidationError(c, err)
	}
	result, err := h.Service.InitiatePayment(c.Request().Context(), service.InitiatePaymentInput{
		Email:  req.Email,
		Phone:  req.Phone,
		PlanID: req.PlanID,
		Amount: req.Amount,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.InitiatePaymentResponse{
		AuthorizationURL: result.AuthorizationURL,
		Reference:        result.Reference,
	})
}

func (h *PaymentHandler) Verify(c echo.Context) error {
	var req dto.VerifyPaymentRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return writeValidationError(c, err)
	}
	result, err := h.Service.VerifyPayment(c.Request().Context(), service.VerifyPaymentInput{
		Reference: req.Reference,
		PlanID:    req.PlanID,
		Phone:     req.Phone,
		Email:     req.Email,
		Amount:    req.Amount,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	return c.JSON(status, dto.VerifyPaymentResponse{
		SubscriptionID: result.SubscriptionID.String(),
		Token:          result.Token,
		PlanName:       result.PlanName,
		Email:          result.Email,
		ExpiresAt:      result.ExpiresAt,
		Replayed:       result.Replayed,
	})
}
