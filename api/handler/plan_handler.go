package handler

import (
	"errors"
	"net/http"

	"weddingplanner/internal/dto"
	"weddingplanner/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type PlanHandler struct {
	Service  *service.PlanService
	Validate *validator.Validate
}

func NewPlanHandler(svc *service.PlanService, validate *validator.Validate) *PlanHandler {
	return &PlanHandler{Service: svc, Validate: validate}
}

func (h *PlanHandler) List(c echo.Context) error {
	plans, err := h.Service.ListPlans(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.PlanResponsesFromEntities(plans))
}

func (h *PlanHandler) Create(c echo.Context) error {
	input, err := h.bind(c)
	if err != nil {
		return err
	}
	if input == nil {
		return nil
	}
	plan, err := h.Service.CreatePlan(c.Request().Context(), *input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.PlanResponseFromEntity(plan))
}

func (h *PlanHandler) Update(c echo.Context) error {
	planID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid plan id"))
	}
	input, err := h.bind(c)
	if err != nil {
		return err
	}
	if input == nil {
		return nil
	}
	plan, err := h.Service.UpdatePlan(c.Request().Context(), planID, *input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.PlanResponseFromEntity(plan))
}

// bind writes the error response itself and returns a nil input when the
// request was rejected.
func (h *PlanHandler) bind(c echo.Context) (*service.PlanInput, error) {
	var req dto.PlanRequest
	if err := decodeJSON(c, &req); err != nil {
		return nil, writeError(c, http.StatusBadRequest, err)
	}
	if err := validate(h.Validate, req); err != nil {
		return nil, writeValidationError(c, err)
	}
	return &service.PlanInput{
		Name:         req.Name,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		MaxPhotos:    req.MaxPhotos,
		MaxVideos:    req.MaxVideos,
		MaxTabs:      req.MaxTabs,
	}, nil
}
