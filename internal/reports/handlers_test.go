package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fdg312/nafld-hub/internal/blob"
	"github.com/fdg312/nafld-hub/internal/dashboard"
	"github.com/fdg312/nafld-hub/internal/objectives"
	"github.com/fdg312/nafld-hub/internal/scoring"
	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/fdg312/nafld-hub/internal/storage/memory"
	"github.com/google/uuid"
)

type discardLogger struct{ lines []string }

func (l *discardLogger) Printf(format string, v ...any) { l.lines = append(l.lines, format) }

// presignStore hands out fake presigned URLs on top of the memory store.
type presignStore struct {
	*blob.MemoryStore
}

func (p presignStore) PresignGet(ctx context.Context, key string, ttlSeconds int) (string, error) {
	return "https://s3.example.com/" + key + "?sig=1", nil
}

// brokenStore fails every upload.
type brokenStore struct {
	*blob.MemoryStore
}

func (brokenStore) PutObject(ctx context.Context, key string, data []byte, contentType string) (int64, error) {
	return 0, errors.New("bucket unavailable")
}

func setupWith(t *testing.T, blobs blob.Store, opts Options) (*Handlers, *memory.MemoryStorage, uuid.UUID) {
	t.Helper()
	store := memory.New()
	profiles, _ := store.ListProfiles(context.Background())
	profileID := profiles[0].ID

	objSvc := objectives.NewService(store.GetObjectivesStorage(), store.GetWeightsStorage(), store, scoring.ObjectiveParams{})
	agg := dashboard.NewAggregator(store.GetMealsStorage(), store.GetActivitiesStorage(), store.GetMedicationsStorage())
	history := dashboard.NewService(store, objSvc, store.GetWeightsStorage(), agg, 7)

	_ = store.GetMealsStorage().CreateMeal(context.Background(), &storage.Meal{
		ProfileID: profileID, Date: "2026-02-10", MealType: "dinner", Title: "Salmon", CaloriesKcal: 650, ProteinG: 40,
	})

	service := NewService(store.GetReportsStorage(), store, history, blobs, opts, &discardLogger{})
	return NewHandlers(service), store, profileID
}

func setup(t *testing.T) (*Handlers, *memory.MemoryStorage, uuid.UUID) {
	return setupWith(t, blob.NewMemoryStore(), Options{MaxRangeDays: 90})
}

func create(h *Handlers, profileID uuid.UUID, from, to, format string) *httptest.ResponseRecorder {
	body := `{"profile_id":"` + profileID.String() + `","from":"` + from + `","to":"` + to + `","format":"` + format + `"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/reports", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	h.HandleCreate(w, req)
	return w
}

func decodeReport(t *testing.T, w *httptest.ResponseRecorder) ReportDTO {
	t.Helper()
	var dto ReportDTO
	if err := json.NewDecoder(w.Body).Decode(&dto); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return dto
}

func download(h *Handlers, id uuid.UUID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/reports/"+id.String()+"/download", nil)
	req.SetPathValue("id", id.String())
	w := httptest.NewRecorder()
	h.HandleDownload(w, req)
	return w
}

func TestHandleCreate_CSV(t *testing.T) {
	h, _, profileID := setup(t)

	w := create(h, profileID, "2026-02-09", "2026-02-11", FormatCSV)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	dto := decodeReport(t, w)
	if dto.Status != StatusReady || dto.SizeBytes == 0 {
		t.Errorf("unexpected report %+v", dto)
	}
	if !strings.HasSuffix(dto.DownloadURL, "/v1/reports/"+dto.ID.String()+"/download") {
		t.Errorf("download url = %s", dto.DownloadURL)
	}

	dl := download(h, dto.ID)
	if dl.Code != http.StatusOK || dl.Header().Get("Content-Type") != "text/csv" {
		t.Fatalf("download: %d %s", dl.Code, dl.Header().Get("Content-Type"))
	}
	rows, err := csv.NewReader(dl.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 days, got %d rows", len(rows))
	}
	if rows[0][0] != "date" || rows[2][0] != "2026-02-10" || rows[2][7] != "1" || rows[2][8] != "650" {
		t.Errorf("unexpected rows %v", rows[:3])
	}
	// no objective saved, every day scores zero
	if rows[2][1] != "0" || !strings.Contains(rows[2][len(rows[2])-1], scoring.FlagNoObjective) {
		t.Errorf("score columns = %v", rows[2])
	}
}

func TestHandleCreate_PDF(t *testing.T) {
	h, _, profileID := setup(t)

	w := create(h, profileID, "2026-02-01", "2026-02-28", FormatPDF)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	dto := decodeReport(t, w)

	dl := download(h, dto.ID)
	if dl.Code != http.StatusOK || dl.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("download: %d", dl.Code)
	}
	if !bytes.HasPrefix(dl.Body.Bytes(), []byte("%PDF")) {
		t.Error("body is not a PDF")
	}
	if !strings.Contains(dl.Header().Get("Content-Disposition"), "report_2026-02-01_2026-02-28.pdf") {
		t.Errorf("content disposition = %s", dl.Header().Get("Content-Disposition"))
	}
}

func TestHandleCreate_Errors(t *testing.T) {
	h, _, profileID := setup(t)

	tests := []struct {
		name     string
		profile  uuid.UUID
		from, to string
		format   string
		status   int
		code     string
	}{
		{"bad format", profileID, "2026-02-01", "2026-02-02", "xlsx", http.StatusBadRequest, "validation_error"},
		{"bad date", profileID, "2026-02-31x", "2026-02-02", FormatCSV, http.StatusBadRequest, "validation_error"},
		{"reversed", profileID, "2026-02-10", "2026-02-01", FormatCSV, http.StatusBadRequest, "invalid_date"},
		{"too long", profileID, "2025-01-01", "2026-01-01", FormatCSV, http.StatusBadRequest, "range_too_long"},
		{"unknown profile", uuid.New(), "2026-02-01", "2026-02-02", FormatCSV, http.StatusNotFound, "profile_not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := create(h, tt.profile, tt.from, tt.to, tt.format)
			var resp ErrorResponse
			_ = json.NewDecoder(w.Body).Decode(&resp)
			if w.Code != tt.status || resp.Error.Code != tt.code {
				t.Errorf("got %d %s, want %d %s", w.Code, resp.Error.Code, tt.status, tt.code)
			}
		})
	}
}

func TestHandleList(t *testing.T) {
	h, _, profileID := setup(t)
	create(h, profileID, "2026-02-01", "2026-02-02", FormatCSV)
	create(h, profileID, "2026-02-03", "2026-02-04", FormatCSV)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports?profile_id="+profileID.String()+"&limit=1", nil)
	w := httptest.NewRecorder()
	h.HandleList(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp ReportsResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Reports) != 1 || resp.Reports[0].From != "2026-02-03" {
		t.Errorf("expected newest report only, got %+v", resp.Reports)
	}
}

func TestHandleDownload_RedirectsToPresignedURL(t *testing.T) {
	h, _, profileID := setupWith(t, presignStore{blob.NewMemoryStore()}, Options{})
	dto := decodeReport(t, create(h, profileID, "2026-02-01", "2026-02-02", FormatCSV))
	if !strings.HasPrefix(dto.DownloadURL, "https://s3.example.com/reports/"+profileID.String()+"/") {
		t.Errorf("download url = %s", dto.DownloadURL)
	}

	w := download(h, dto.ID)
	if w.Code != http.StatusFound || !strings.Contains(w.Header().Get("Location"), "sig=1") {
		t.Errorf("expected redirect to presigned url, got %d %s", w.Code, w.Header().Get("Location"))
	}
}

func TestHandleDownload_PrefersPublicURL(t *testing.T) {
	h, _, profileID := setupWith(t, presignStore{blob.NewMemoryStore()}, Options{
		PublicBaseURL: "https://cdn.example.com/", PreferPublicURL: true,
	})
	dto := decodeReport(t, create(h, profileID, "2026-02-01", "2026-02-02", FormatPDF))

	w := download(h, dto.ID)
	loc := w.Header().Get("Location")
	if w.Code != http.StatusFound || !strings.HasPrefix(loc, "https://cdn.example.com/reports/") || strings.Contains(loc, "sig=") {
		t.Errorf("expected public url redirect, got %d %s", w.Code, loc)
	}
}

func TestHandleCreate_UploadFailureRecorded(t *testing.T) {
	h, store, profileID := setupWith(t, brokenStore{blob.NewMemoryStore()}, Options{})

	w := create(h, profileID, "2026-02-01", "2026-02-02", FormatCSV)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	list, _ := store.GetReportsStorage().ListReports(context.Background(), profileID, 10, 0)
	if len(list) != 1 || list[0].Status != StatusFailed || list[0].Error == nil {
		t.Fatalf("expected one failed report, got %+v", list)
	}
	if dl := download(h, list[0].ID); dl.Code != http.StatusConflict {
		t.Errorf("download of failed report: expected 409, got %d", dl.Code)
	}
}

func TestHandleDelete(t *testing.T) {
	blobs := blob.NewMemoryStore()
	h, _, profileID := setupWith(t, blobs, Options{})
	dto := decodeReport(t, create(h, profileID, "2026-02-01", "2026-02-02", FormatCSV))
	if blobs.Len() != 1 {
		t.Fatalf("expected 1 stored object, got %d", blobs.Len())
	}

	req := httptest.NewRequest(http.MethodDelete, "/v1/reports/"+dto.ID.String(), nil)
	req.SetPathValue("id", dto.ID.String())
	w := httptest.NewRecorder()
	h.HandleDelete(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if blobs.Len() != 0 {
		t.Error("blob was not deleted")
	}

	w = httptest.NewRecorder()
	h.HandleDelete(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", w.Code)
	}
}

func TestSummarize(t *testing.T) {
	days := []dashboard.DayScore{
		{Record: scoring.DailyRecord{MealsLogged: 2, CaloriesKcal: 1800, WalkKm: 3, MedicationsScheduled: 2, MedicationsTaken: 1}, Score: scoring.ScoreResult{Total: 60}},
		{Record: scoring.DailyRecord{MealsLogged: 0, ActivityMinutes: 40, MedicationsScheduled: 2, MedicationsTaken: 2}, Score: scoring.ScoreResult{Total: 80}},
	}
	sum := summarize(days)
	if sum.AvgScore != 70 || sum.BestScore != 80 || sum.AvgCalories != 1800 || sum.DaysWithMeals != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Adherence() != 0.75 {
		t.Errorf("adherence = %v, want 0.75", sum.Adherence())
	}
	if (Summary{}).Adherence() != -1 {
		t.Error("empty summary should report no adherence data")
	}
}
