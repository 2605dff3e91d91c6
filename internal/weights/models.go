package weights

import (
	"time"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
)

type WeightDTO struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`
	Date      string    `json:"date"`
	WeightKg  float64   `json:"weight_kg"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type WeightsResponse struct {
	Weights []WeightDTO `json:"weights"`
}

// BMIResponse describes the body mass index on a given day. BMI and Category
// are empty when height or weight is unknown.
type BMIResponse struct {
	Date         string   `json:"date"`
	WeightKg     *float64 `json:"weight_kg,omitempty"`
	HeightCm     *float64 `json:"height_cm,omitempty"`
	BMI          *float64 `json:"bmi,omitempty"`
	Category     string   `json:"category"`
	WeightLostKg float64  `json:"weight_lost_kg"`
}

type CreateWeightRequest struct {
	ProfileID uuid.UUID `json:"profile_id" validate:"required"`
	Date      string    `json:"date" validate:"required,datetime=2006-01-02"`
	WeightKg  float64   `json:"weight_kg" validate:"gte=10,lte=400"`
	Notes     *string   `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toDTO(w storage.WeightEntry) WeightDTO {
	return WeightDTO{
		ID:        w.ID,
		ProfileID: w.ProfileID,
		Date:      w.Date,
		WeightKg:  w.WeightKg,
		Notes:     w.Notes,
		CreatedAt: w.CreatedAt,
	}
}
