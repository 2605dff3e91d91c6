package medications

import (
	"time"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
)

// Intake statuses.
const (
	StatusTaken   = "taken"
	StatusSkipped = "skipped"
	StatusNone    = "none"
)

type MedicationDTO struct {
	ID            uuid.UUID  `json:"id"`
	ProfileID     uuid.UUID  `json:"profile_id"`
	Name          string     `json:"name"`
	Dosage        *string    `json:"dosage,omitempty"`
	Active        bool       `json:"active"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type MedicationsResponse struct {
	Medications []MedicationDTO `json:"medications"`
}

type CreateMedicationRequest struct {
	ProfileID uuid.UUID `json:"profile_id" validate:"required"`
	Name      string    `json:"name" validate:"required,max=120"`
	Dosage    *string   `json:"dosage,omitempty" validate:"omitempty,max=120"`
	Active    *bool     `json:"active,omitempty"`
	Notes     *string   `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type UpdateMedicationRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Dosage *string `json:"dosage,omitempty" validate:"omitempty,max=120"`
	Active *bool   `json:"active,omitempty"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type UpsertIntakeRequest struct {
	ProfileID    uuid.UUID `json:"profile_id" validate:"required"`
	MedicationID uuid.UUID `json:"medication_id" validate:"required"`
	Date         string    `json:"date" validate:"required,datetime=2006-01-02"`
	Status       string    `json:"status" validate:"required,oneof=taken skipped"`
}

// DailyStatus is one medication's state on a day.
type DailyStatus struct {
	MedicationID uuid.UUID `json:"medication_id"`
	Name         string    `json:"name"`
	Dosage       *string   `json:"dosage,omitempty"`
	Status       string    `json:"status"`
}

// DailyResponse is returned by GET /v1/medications/intakes/daily.
type DailyResponse struct {
	Date      string        `json:"date"`
	Scheduled int           `json:"scheduled"`
	Taken     int           `json:"taken"`
	Items     []DailyStatus `json:"items"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toDTO(m storage.Medication) MedicationDTO {
	return MedicationDTO{
		ID:            m.ID,
		ProfileID:     m.ProfileID,
		Name:          m.Name,
		Dosage:        m.Dosage,
		Active:        m.Active,
		DeactivatedAt: m.DeactivatedAt,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
