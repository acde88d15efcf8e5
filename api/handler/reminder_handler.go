package handler

import (
	"net/http"

	"weddingplanner/internal/dto"
	"weddingplanner/internal/service"

	"github.com/labstack/echo/v4"
)

type ReminderHandler struct {
	Service *service.ReminderService
}

func NewReminderHandler(svc *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{Service: svc}
}

// Run triggers one sweep. Per-page failures are reported in the body; only a
// failed page load turns into an error status.
func (h *ReminderHandler) Run(c echo.Context) error {
	report, err := h.Service.RunReminderSweep(c.Request().Context())
	if err != nil {
		c.Set(contextErrorKey, err)
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"message": genericErrorMessage,
			"report":  SweepResponse(report),
		})
	}
	return c.JSON(http.StatusOK, SweepResponse(report))
}

func SweepResponse(report *service.SweepReport) dto.ReminderSweepResponse {
	response := dto.ReminderSweepResponse{Failures: []dto.ReminderFailure{}}
	if report == nil {
		return response
	}
	response.Day = report.Day
	response.Scanned = report.Scanned
	response.UserReminders = report.UserReminders
	response.AdminNotices = report.AdminNotices
	response.Duplicates = report.Duplicates
	for _, failure := range report.Failures {
		response.Failures = append(response.Failures, dto.ReminderFailure{
			PageID: failure.PageID.String(),
			Slug:   failure.Slug,
			Kind:   string(failure.Kind),
			Error:  failure.Err.Error(),
		})
	}
	return response
}
