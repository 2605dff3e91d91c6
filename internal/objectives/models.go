package objectives

import (
	"time"

	"github.com/fdg312/nafld-hub/internal/scoring"
	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
)

// ObjectiveDTO is an objective as returned by the API. IsDefault marks targets
// computed from the profile because nothing was saved yet.
type ObjectiveDTO struct {
	ID           *uuid.UUID `json:"id,omitempty"`
	ProfileID    uuid.UUID  `json:"profile_id"`
	IsDefault    bool       `json:"is_default"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	SupersededAt *time.Time `json:"superseded_at,omitempty"`

	scoring.Objective
}

type HistoryResponse struct {
	Objectives []ObjectiveDTO `json:"objectives"`
}

// CreateObjectiveRequest is the body of POST /v1/objectives. Omitted targets
// take the computed default for the profile.
type CreateObjectiveRequest struct {
	ProfileID       uuid.UUID `json:"profile_id" validate:"required"`
	CaloriesKcal    *float64  `json:"calories_kcal,omitempty" validate:"omitempty,gte=800,lte=6000"`
	ProteinMinG     *float64  `json:"protein_min_g,omitempty" validate:"omitempty,gte=0,lte=400"`
	FiberMinG       *float64  `json:"fiber_min_g,omitempty" validate:"omitempty,gte=0,lte=100"`
	CarbsG          *float64  `json:"carbs_g,omitempty" validate:"omitempty,gte=0,lte=1000"`
	FatG            *float64  `json:"fat_g,omitempty" validate:"omitempty,gte=0,lte=500"`
	SugarMaxG       *float64  `json:"sugar_max_g,omitempty" validate:"omitempty,gte=0,lte=300"`
	SatFatMaxG      *float64  `json:"saturated_fat_max_g,omitempty" validate:"omitempty,gte=0,lte=200"`
	CapMargin       *float64  `json:"cap_margin,omitempty" validate:"omitempty,gte=1,lte=3"`
	ActivityMinutes *float64  `json:"activity_minutes,omitempty" validate:"omitempty,gte=0,lte=600"`
	ActivityKcal    *float64  `json:"activity_kcal,omitempty" validate:"omitempty,gte=0,lte=5000"`
	TargetWeightKg  *float64  `json:"target_weight_kg,omitempty" validate:"omitempty,gte=10,lte=400"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToScoring converts a stored objective into the scoring representation.
func ToScoring(o storage.Objective) scoring.Objective {
	obj := scoring.Objective{
		CaloriesKcal:    o.CaloriesKcal,
		ProteinMinG:     o.ProteinMinG,
		FiberMinG:       o.FiberMinG,
		CarbsG:          o.CarbsG,
		FatG:            o.FatG,
		SugarMaxG:       o.SugarMaxG,
		SatFatMaxG:      o.SatFatMaxG,
		CapMargin:       o.CapMargin,
		ActivityMinutes: o.ActivityMinutes,
		ActivityKcal:    o.ActivityKcal,
	}
	if o.TargetWeightKg != nil {
		obj.TargetWeightKg = *o.TargetWeightKg
	}
	return obj.WithDefaults()
}

func toDTO(o storage.Objective) ObjectiveDTO {
	id := o.ID
	created := o.CreatedAt
	return ObjectiveDTO{
		ID:           &id,
		ProfileID:    o.ProfileID,
		CreatedAt:    &created,
		SupersededAt: o.SupersededAt,
		Objective:    ToScoring(o),
	}
}
