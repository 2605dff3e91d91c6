package medications

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fdg312/nafld-hub/internal/daterange"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleList handles GET /v1/medications?profile_id=
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.URL.Query().Get("profile_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_profile_id", "profile_id is required")
		return
	}

	meds, err := h.service.List(r.Context(), profileID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MedicationsResponse{Medications: meds})
}

// HandleCreate handles POST /v1/medications
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateMedicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON body")
		return
	}

	med, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, med)
}

// HandleUpdate handles PATCH /v1/medications/{id}
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid medication id")
		return
	}

	var req UpdateMedicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON body")
		return
	}

	med, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, med)
}

// HandleDelete handles DELETE /v1/medications/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid medication id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleUpsertIntake handles POST /v1/medications/intakes
func (h *Handlers) HandleUpsertIntake(w http.ResponseWriter, r *http.Request) {
	var req UpsertIntakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON body")
		return
	}

	if err := h.service.UpsertIntake(r.Context(), req); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDaily handles GET /v1/medications/intakes/daily?profile_id=&date=
func (h *Handlers) HandleDaily(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.URL.Query().Get("profile_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_profile_id", "profile_id is required")
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "missing_params", "date is required")
		return
	}

	resp, err := h.service.Daily(r.Context(), profileID, date)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeServiceError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile_not_found", err.Error())
	case errors.Is(err, ErrMedicationNotFound):
		writeError(w, http.StatusNotFound, "medication_not_found", err.Error())
	case errors.Is(err, ErrMaxMedications):
		writeError(w, http.StatusBadRequest, "max_medications_reached", err.Error())
	case errors.Is(err, daterange.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
