package symptoms

import (
	"time"

	"github.com/google/uuid"
)

type SymptomDTO struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profile_id"`
	Date      string    `json:"date"`
	Kind      string    `json:"kind"`
	Severity  int       `json:"severity"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SymptomsResponse struct {
	Symptoms []SymptomDTO `json:"symptoms"`
}

type UpsertSymptomRequest struct {
	ProfileID uuid.UUID `json:"profile_id" validate:"required"`
	Date      string    `json:"date" validate:"required,datetime=2006-01-02"`
	Kind      string    `json:"kind" validate:"required,oneof=fatigue abdominal_pain bloating nausea itching jaundice other"`
	Severity  int       `json:"severity" validate:"required,min=1,max=5"`
	Notes     *string   `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
