package reports

import (
	"time"

	"github.com/google/uuid"
)

const (
	FormatPDF = "pdf"
	FormatCSV = "csv"

	StatusReady  = "ready"
	StatusFailed = "failed"
)

// CreateReportRequest is the body of POST /v1/reports
type CreateReportRequest struct {
	ProfileID uuid.UUID `json:"profile_id" validate:"required"`
	From      string    `json:"from" validate:"required,datetime=2006-01-02"`
	To        string    `json:"to" validate:"required,datetime=2006-01-02"`
	Format    string    `json:"format" validate:"required,oneof=pdf csv"`
}

type ReportDTO struct {
	ID          uuid.UUID `json:"id"`
	ProfileID   uuid.UUID `json:"profile_id"`
	Format      string    `json:"format"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	DownloadURL string    `json:"download_url,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	Status      string    `json:"status"`
	Error       *string   `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type ReportsResponse struct {
	Reports []ReportDTO `json:"reports"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func contentType(format string) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/pdf"
}
