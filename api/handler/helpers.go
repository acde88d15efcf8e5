package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"weddingplanner/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const genericErrorMessage = "something went wrong, try again"

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

func validate(v *validator.Validate, payload any) error {
	if v == nil {
		return nil
	}
	return v.Struct(payload)
}

func writeError(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"message": err.Error()})
}

func writeValidationError(c echo.Context, err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(map[string]string, len(validationErrors))
		for _, fieldErr := range validationErrors {
			fields[fieldErr.Field()] = fieldErr.Tag()
		}
		return c.JSON(http.StatusBadRequest, map[string]any{
			"message": service.ErrInvalidInput.Error(),
			"fields":  fields,
		})
	}
	return writeError(c, http.StatusBadRequest, err)
}

// writeServiceError maps service errors to responses. Upstream and
// persistence failures are logged by the request logger and answered with a
// generic message.
func writeServiceError(c echo.Context, err error) error {
	c.Set(contextErrorKey, err)

	var providerErr *service.ProviderError
	switch {
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidAmount):
		return writeError(c, http.StatusBadRequest, err)
	case errors.Is(err, service.ErrPaymentNotFound),
		errors.Is(err, service.ErrInvalidPlan),
		errors.Is(err, service.ErrInvalidCode),
		errors.Is(err, service.ErrUserNotFound):
		return writeError(c, http.StatusNotFound, err)
	case errors.Is(err, service.ErrPaymentNotSuccessful):
		return writeError(c, http.StatusPaymentRequired, err)
	case errors.Is(err, service.ErrNoActiveSubscription),
		errors.Is(err, service.ErrAccountNotActive):
		return writeError(c, http.StatusForbidden, err)
	case errors.Is(err, service.ErrPhoneAlreadyUsed),
		errors.Is(err, service.ErrInvalidStatusTransition),
		errors.Is(err, service.ErrPlanNameTaken):
		return writeError(c, http.StatusConflict, err)
	case errors.Is(err, service.ErrVerificationExpired):
		return writeError(c, http.StatusGone, err)
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, http.StatusUnauthorized, err)
	case errors.As(err, &providerErr):
		return writeError(c, http.StatusBadGateway, providerErr)
	case errors.Is(err, service.ErrUpstream):
		return writeError(c, http.StatusBadGateway, service.ErrUpstream)
	case errors.Is(err, service.ErrEmailDelivery):
		return writeError(c, http.StatusBadGateway, service.ErrEmailDelivery)
	}
	return writeError(c, http.StatusInternalServerError, errors.New(genericErrorMessage))
}

// contextErrorKey exposes the unmapped service error to the request logger.
const contextErrorKey = "service_error"

func ServiceErrorFromContext(c echo.Context) error {
	err, _ := c.Get(contextErrorKey).(error)
	return err
}

func parseLimitOffset(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}
