package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fdg312/nafld-hub/internal/daterange"
	"github.com/google/uuid"
)

// HandleGet handles GET /v1/dashboard?profile_id=&date=
func HandleGet(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := parseProfileID(w, r)
		if !ok {
			return
		}

		resp, err := service.GetDashboard(r.Context(), profileID, r.URL.Query().Get("date"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleHistory handles GET /v1/dashboard/history?profile_id=&from=&to=
func HandleHistory(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		from, to := q.Get("from"), q.Get("to")
		if from == "" || to == "" {
			writeError(w, http.StatusBadRequest, "missing_params", "profile_id, from, and to are required")
			return
		}
		profileID, ok := parseProfileID(w, r)
		if !ok {
			return
		}

		resp, err := service.GetHistory(r.Context(), profileID, from, to)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func parseProfileID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.URL.Query().Get("profile_id")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing_params", "profile_id is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_profile_id", "invalid profile_id format")
		return uuid.Nil, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile_not_found", err.Error())
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
