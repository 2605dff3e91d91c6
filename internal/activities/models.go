package activities

import (
	"time"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
)

// KindWalk is the only kind that counts towards walk streaks and distance.
const KindWalk = "walk"

type ActivityDTO struct {
	ID              uuid.UUID `json:"id"`
	ProfileID       uuid.UUID `json:"profile_id"`
	Date            string    `json:"date"`
	Kind            string    `json:"kind"`
	DurationMinutes float64   `json:"duration_minutes"`
	DistanceKm      *float64  `json:"distance_km,omitempty"`
	CaloriesKcal    float64   `json:"calories_kcal"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type ActivitiesResponse struct {
	Activities []ActivityDTO `json:"activities"`
}

type CreateActivityRequest struct {
	ProfileID       uuid.UUID `json:"profile_id" validate:"required"`
	Date            string    `json:"date" validate:"required,datetime=2006-01-02"`
	Kind            string    `json:"kind" validate:"required,oneof=walk run cycling swimming strength other"`
	DurationMinutes float64   `json:"duration_minutes" validate:"gte=1,lte=1440"`
	DistanceKm      *float64  `json:"distance_km,omitempty" validate:"omitempty,gte=0,lte=200"`
	CaloriesKcal    *float64  `json:"calories_kcal,omitempty" validate:"omitempty,gte=0,lte=10000"`
	Notes           *string   `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toDTO(a storage.Activity) ActivityDTO {
	return ActivityDTO{
		ID:              a.ID,
		ProfileID:       a.ProfileID,
		Date:            a.Date,
		Kind:            a.Kind,
		DurationMinutes: a.DurationMinutes,
		DistanceKm:      a.DistanceKm,
		CaloriesKcal:    a.CaloriesKcal,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
	}
}
