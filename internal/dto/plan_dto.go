package dto

import (
	"time"

	"weddingplanner/internal/entity"
)

type PlanRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Price        int64  `json:"price" validate:"gte=0"`
	DurationDays int    `json:"duration_days" validate:"required,gt=0"`
	MaxPhotos    int    `json:"max_photos" validate:"gte=0"`
	MaxVideos    int    `json:"max_videos" validate:"gte=0"`
	MaxTabs      int    `json:"max_tabs" validate:"gte=0"`
}

type PlanResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Price        int64     `json:"price"`
	DurationDays int       `json:"duration_days"`
	MaxPhotos    int       `json:"max_photos"`
	MaxVideos    int       `json:"max_videos"`
	MaxTabs      int       `json:"max_tabs"`
	CreatedAt    time.Time `json:"created_at"`
}

func PlanResponseFromEntity(plan *entity.Plan) PlanResponse {
	return PlanResponse{
		ID:           plan.ID.String(),
		Name:         plan.Name,
		Price:        plan.Price,
		DurationDays: plan.DurationDays,
		MaxPhotos:    plan.MaxPhotos,
		MaxVideos:    plan.MaxVideos,
		MaxTabs:      plan.MaxTabs,
		CreatedAt:    plan.CreatedAt,
	}
}

func PlanResponsesFromEntities(plans []entity.Plan) []PlanResponse {
	responses := make([]PlanResponse, 0, len(plans))
	for i := range plans {
		responses = append(responses, PlanResponseFromEntity(&plans[i]))
	}
	return responses
}
