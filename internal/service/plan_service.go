package service

import (
	"context"
	"errors"
	"strings"

	"weddingplanner/internal/entity"
	"weddingplanner/internal/repository"

	"github.com/google/uuid"
)

type PlanService struct {
	plans repository.PlanRepository
}

func NewPlanService(plans repository.PlanRepository) *PlanService {
	return &PlanService{plans: plans}
}

func (s *PlanService) ListPlans(ctx context.Context) ([]entity.Plan, error) {
	return s.plans.List(ctx)
}

func (s *PlanService) CreatePlan(ctx context.Context, input PlanInput) (*entity.Plan, error) {
	if err := validatePlan(input); err != nil {
		return nil, err
	}
	plan := &entity.Plan{}
	applyPlan(plan, input)
	if err := s.plans.Create(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrPlanNameTaken
		}
		return nil, err
	}
	return plan, nil
}

func (s *PlanService) UpdatePlan(ctx context.Context, id uuid.UUID, input PlanInput) (*entity.Plan, error) {
	if err := validatePlan(input); err != nil {
		return nil, err
	}
	plan, err := s.plans.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrInvalidPlan
	}
	applyPlan(plan, input)
	if err := s.plans.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrPlanNameTaken
		}
		return nil, err
	}
	return plan, nil
}

func validatePlan(input PlanInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return missingFields("name")
	}
	if input.Price < 0 || input.DurationDays <= 0 || input.MaxPhotos < 0 || input.MaxVideos < 0 || input.MaxTabs < 0 {
		return ErrInvalidInput
	}
	return nil
}

func applyPlan(plan *entity.Plan, input PlanInput) {
	plan.Name = strings.TrimSpace(input.Name)
	plan.Price = input.Price
	plan.DurationDays = input.DurationDays
	plan.MaxPhotos = input.MaxPhotos
	plan.MaxVideos = input.MaxVideos
	plan.MaxTabs = input.MaxTabs
}
