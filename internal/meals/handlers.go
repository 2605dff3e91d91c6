package meals

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fdg312/nafld-hub/internal/daterange"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// HandleList handles GET /v1/meals?profile_id=&from=&to=
func HandleList(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, from, to, ok := parseRangeQuery(w, r)
		if !ok {
			return
		}

		list, err := service.List(r.Context(), profileID, from, to)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, MealsResponse{Meals: list})
	}
}

// HandleDaily handles GET /v1/meals/daily?profile_id=&from=&to=
func HandleDaily(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, from, to, ok := parseRangeQuery(w, r)
		if !ok {
			return
		}

		days, err := service.Daily(r.Context(), profileID, from, to)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, DailyResponse{Days: days})
	}
}

// HandleCreate handles POST /v1/meals
func HandleCreate(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateMealRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
			return
		}

		meal, err := service.Create(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, meal)
	}
}

// HandleUpdate handles PATCH /v1/meals/{id}
func HandleUpdate(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "invalid meal id format")
			return
		}

		var req UpdateMealRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
			return
		}

		meal, err := service.Update(r.Context(), id, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, meal)
	}
}

// HandleDelete handles DELETE /v1/meals/{id}
func HandleDelete(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_id", "invalid meal id format")
			return
		}

		if err := service.Delete(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func parseRangeQuery(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, string, bool) {
	q := r.URL.Query()
	profileIDStr, from, to := q.Get("profile_id"), q.Get("from"), q.Get("to")
	if profileIDStr == "" || from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "missing_params", "profile_id, from, and to are required")
		return uuid.Nil, "", "", false
	}
	profileID, err := uuid.Parse(profileIDStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_profile_id", "invalid profile_id format")
		return uuid.Nil, "", "", false
	}
	return profileID, from, to, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile_not_found", err.Error())
	case errors.Is(err, ErrMealNotFound):
		writeError(w, http.StatusNotFound, "meal_not_found", err.Error())
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
