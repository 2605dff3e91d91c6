package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fdg312/nafld-hub/internal/daterange"
	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleCreate handles POST /v1/reports
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	meta, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.toDTO(r, meta))
}

// HandleList handles GET /v1/reports?profile_id=&limit=&offset=
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	profileIDStr := r.URL.Query().Get("profile_id")
	if profileIDStr == "" {
		writeError(w, http.StatusBadRequest, "missing_params", "profile_id is required")
		return
	}
	profileID, err := uuid.Parse(profileIDStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_profile_id", "invalid profile_id format")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := h.service.List(r.Context(), profileID, limit, offset)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	dtos := make([]ReportDTO, len(list))
	for i := range list {
		dtos[i] = h.toDTO(r, &list[i])
	}
	writeJSON(w, http.StatusOK, ReportsResponse{Reports: dtos})
}

// HandleDownload handles GET /v1/reports/{id}/download. Stores that hand out
// URLs get a redirect, otherwise the bytes are streamed.
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid report id")
		return
	}

	meta, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if meta.Status != StatusReady {
		h.writeServiceError(w, ErrReportNotReady)
		return
	}

	url, err := h.service.ExternalURL(r.Context(), meta)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if url != "" {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	data, err := h.service.Data(r.Context(), meta)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("report_%s_%s.%s", meta.FromDate, meta.ToDate, meta.Format)
	w.Header().Set("Content-Type", contentType(meta.Format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// HandleDelete handles DELETE /v1/reports/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid report id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) toDTO(r *http.Request, meta *storage.ReportMeta) ReportDTO {
	dto := ReportDTO{
		ID:        meta.ID,
		ProfileID: meta.ProfileID,
		Format:    meta.Format,
		From:      meta.FromDate,
		To:        meta.ToDate,
		SizeBytes: meta.SizeBytes,
		Status:    meta.Status,
		Error:     meta.Error,
		CreatedAt: meta.CreatedAt,
	}
	if meta.Status != StatusReady {
		return dto
	}

	url, err := h.service.ExternalURL(r.Context(), meta)
	if err != nil || url == "" {
		url = fmt.Sprintf("%s/v1/reports/%s/download", baseURL(r), meta.ID)
	}
	dto.DownloadURL = url
	return dto
}

func (h *Handlers) writeServiceError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile_not_found", err.Error())
	case errors.Is(err, ErrReportNotFound):
		writeError(w, http.StatusNotFound, "report_not_found", err.Error())
	case errors.Is(err, ErrReportNotReady):
		writeError(w, http.StatusConflict, "report_not_ready", err.Error())
	case errors.Is(err, daterange.ErrInvalidDate), errors.Is(err, daterange.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
	case errors.Is(err, daterange.ErrRangeTooLong):
		writeError(w, http.StatusBadRequest, "range_too_long",
			fmt.Sprintf("date range exceeds maximum of %d days", h.service.opts.MaxRangeDays))
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

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}
