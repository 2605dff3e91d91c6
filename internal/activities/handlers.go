package activities

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fdg312/nafld-hub/internal/daterange"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// HandleList handles GET /v1/activities?profile_id=&from=&to=
func HandleList(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		profileIDStr, from, to := q.Get("profile_id"), q.Get("from"), q.Get("to")
		if profileIDStr == "" || from == "" || to == "" {
			writeError(w, http.StatusBadRequest, "missing_params", "profile_id, from, and to are required")
			return
		}
		profileID, err := uuid.Parse(profileIDStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_profile_id", "invalid profile_id format")
			return
		}

		list, err := service.List(r.Context(), profileID, from, to)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, ActivitiesResponse{Activities: list})
	}
}

// HandleCreate handles POST /v1/activities
func HandleCreate(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateActivityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
			return
		}

		a, err := service.Create(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, a)
	}
}

// HandleDelete handles DELETE /v1/activities/{id}
func HandleDelete(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "invalid activity id format")
			return
		}

		if err := service.Delete(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, ErrDistanceNotAllowed):
		writeError(w, http.StatusBadRequest, "distance_not_allowed", err.Error())
	case errors.Is(err, ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile_not_found", err.Error())
	case errors.Is(err, ErrActivityNotFound):
		writeError(w, http.StatusNotFound, "activity_not_found", err.Error())
	case errors.Is(err, daterange.ErrInvalidDate), errors.Is(err, daterange.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
	case errors.Is(err, daterange.ErrRangeTooLong):
		writeError(w, http.StatusBadRequest, "range_too_long", err.Error())
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
