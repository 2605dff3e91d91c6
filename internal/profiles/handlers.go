package profiles

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleList handles GET /v1/profiles
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.ListProfiles(r.Context())
	if err != nil {
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Failed to list profiles")
		return
	}

	h.sendJSON(w, http.StatusOK, ProfilesResponse{Profiles: profiles})
}

// HandleGet handles GET /v1/profiles/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := h.extractID(r)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_id", "Invalid profile ID")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}

	h.sendJSON(w, http.StatusOK, profile)
}

// HandleCreate handles POST /v1/profiles
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	profile, err := h.service.CreateProfile(r.Context(), req)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}

	h.sendJSON(w, http.StatusCreated, profile)
}

// HandleUpdate handles PATCH /v1/profiles/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := h.extractID(r)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_id", "Invalid profile ID")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), id, req)
	if err != nil {
		h.sendServiceError(w, err)
		return
	}

	h.sendJSON(w, http.StatusOK, profile)
}

// HandleDelete handles DELETE /v1/profiles/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := h.extractID(r)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_id", "Invalid profile ID")
		return
	}

	if err := h.service.DeleteProfile(r.Context(), id); err != nil {
		h.sendServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) sendServiceError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		h.sendError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, ErrEmptyName):
		h.sendError(w, http.StatusBadRequest, "empty_name", "Name cannot be empty")
	case errors.Is(err, ErrInvalidType):
		h.sendError(w, http.StatusBadRequest, "invalid_type", "Only 'guest' type is allowed")
	case errors.Is(err, ErrBirthDateFuture):
		h.sendError(w, http.StatusBadRequest, "invalid_birth_date", err.Error())
	case errors.Is(err, ErrNotFound):
		h.sendError(w, http.StatusNotFound, "not_found", "Profile not found")
	case errors.Is(err, ErrCannotDeleteOwner):
		h.sendError(w, http.StatusConflict, "cannot_delete_owner", "Cannot delete owner profile")
	default:
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Profile operation failed")
	}
}

// extractID reads {id} from the route, falling back to the last path segment
// of /v1/profiles/{id}.
func (h *Handler) extractID(r *http.Request) (uuid.UUID, error) {
	if id := r.PathValue("id"); id != "" {
		return uuid.Parse(id)
	}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 3 {
		return uuid.Nil, errors.New("invalid path")
	}
	return uuid.Parse(parts[2])
}

func (h *Handler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) sendError(w http.ResponseWriter, status int, code, message string) {
	h.sendJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
