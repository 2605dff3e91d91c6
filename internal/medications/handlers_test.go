package medications

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/nafld-hub/internal/storage/memory"
	"github.com/fdg312/nafld-hub/internal/userctx"
	"github.com/google/uuid"
)

func setup(t *testing.T, max int) (*Handlers, uuid.UUID) {
	t.Helper()
	store := memory.New()
	profiles, _ := store.ListProfiles(context.Background())
	service := NewService(store.GetMedicationsStorage(), store, max)
	return NewHandlers(service), profiles[0].ID
}

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}

func createMedication(t *testing.T, h *Handlers, profileID uuid.UUID, name string) MedicationDTO {
	t.Helper()
	body := `{"profile_id":"` + profileID.String() + `","name":"` + name + `","dosage":"500 mg"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/medications", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	h.HandleCreate(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create %s: expected 201, got %d: %s", name, w.Code, w.Body.String())
	}
	var med MedicationDTO
	_ = json.NewDecoder(w.Body).Decode(&med)
	return med
}

func upsertIntake(h *Handlers, profileID, medID uuid.UUID, date, status string) *httptest.ResponseRecorder {
	body := `{"profile_id":"` + profileID.String() + `","medication_id":"` + medID.String() + `","date":"` + date + `","status":"` + status + `"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/medications/intakes", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	h.HandleUpsertIntake(w, req)
	return w
}

func daily(t *testing.T, h *Handlers, profileID uuid.UUID, date string) DailyResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/v1/medications/intakes/daily?profile_id="+profileID.String()+"&date="+date, nil)
	w := httptest.NewRecorder()
	h.HandleDaily(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("daily: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp DailyResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	return resp
}

func TestHandleCreateAndList(t *testing.T) {
	h, profileID := setup(t, 0)
	med := createMedication(t, h, profileID, "Metformin")
	if !med.Active || med.Dosage == nil || *med.Dosage != "500 mg" {
		t.Errorf("unexpected medication %+v", med)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/medications?profile_id="+profileID.String(), nil)
	w := httptest.NewRecorder()
	h.HandleList(w, req)

	var resp MedicationsResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Medications) != 1 || resp.Medications[0].Name != "Metformin" {
		t.Errorf("unexpected list %+v", resp.Medications)
	}
}

func TestHandleCreate_MaxReached(t *testing.T) {
	h, profileID := setup(t, 2)
	createMedication(t, h, profileID, "A")
	createMedication(t, h, profileID, "B")

	body := `{"profile_id":"` + profileID.String() + `","name":"C"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/medications", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	h.HandleCreate(w, req)

	var resp ErrorResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if w.Code != http.StatusBadRequest || resp.Error.Code != "max_medications_reached" {
		t.Errorf("got %d %s, want 400 max_medications_reached", w.Code, resp.Error.Code)
	}
}

func TestHandleUpdate_Deactivate(t *testing.T) {
	h, profileID := setup(t, 0)
	med := createMedication(t, h, profileID, "Vitamin E")

	req := httptest.NewRequest(http.MethodPatch, "/v1/medications/"+med.ID.String(), bytes.NewBufferString(`{"active":false}`))
	req.SetPathValue("id", med.ID.String())
	w := httptest.NewRecorder()
	h.HandleUpdate(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated MedicationDTO
	_ = json.NewDecoder(w.Body).Decode(&updated)
	if updated.Active || updated.DeactivatedAt == nil {
		t.Errorf("expected deactivated medication with timestamp, got %+v", updated)
	}

	if resp := daily(t, h, profileID, today()); resp.Scheduled != 0 || len(resp.Items) != 0 {
		t.Errorf("inactive medication still scheduled: %+v", resp)
	}
}

func TestDaily_StatusesAndCounts(t *testing.T) {
	h, profileID := setup(t, 0)
	a := createMedication(t, h, profileID, "A")
	b := createMedication(t, h, profileID, "B")
	createMedication(t, h, profileID, "C")

	if w := upsertIntake(h, profileID, a.ID, today(), StatusTaken); w.Code != http.StatusNoContent {
		t.Fatalf("upsert: expected 204, got %d: %s", w.Code, w.Body.String())
	}
	upsertIntake(h, profileID, b.ID, today(), StatusTaken)
	// second write for the same day replaces the first
	upsertIntake(h, profileID, b.ID, today(), StatusSkipped)

	resp := daily(t, h, profileID, today())
	if resp.Scheduled != 3 || resp.Taken != 1 {
		t.Errorf("scheduled/taken = %d/%d, want 3/1", resp.Scheduled, resp.Taken)
	}
	want := map[string]string{"A": StatusTaken, "B": StatusSkipped, "C": StatusNone}
	for _, item := range resp.Items {
		if want[item.Name] != item.Status {
			t.Errorf("%s status = %s, want %s", item.Name, item.Status, want[item.Name])
		}
	}
}

func TestDaily_BeforeCreationNotScheduled(t *testing.T) {
	h, profileID := setup(t, 0)
	createMedication(t, h, profileID, "A")

	resp := daily(t, h, profileID, "2000-01-01")
	if resp.Scheduled != 0 || len(resp.Items) != 0 {
		t.Errorf("expected nothing scheduled before creation, got %+v", resp)
	}
}

func TestUpsertIntake_Errors(t *testing.T) {
	h, profileID := setup(t, 0)
	med := createMedication(t, h, profileID, "A")

	tests := []struct {
		name   string
		medID  uuid.UUID
		status string
		code   int
		err    string
	}{
		{"bad status", med.ID, "maybe", http.StatusBadRequest, "validation_error"},
		{"unknown medication", uuid.New(), StatusTaken, http.StatusNotFound, "medication_not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := upsertIntake(h, profileID, tt.medID, today(), tt.status)
			var resp ErrorResponse
			_ = json.NewDecoder(w.Body).Decode(&resp)
			if w.Code != tt.code || resp.Error.Code != tt.err {
				t.Errorf("got %d %s, want %d %s", w.Code, resp.Error.Code, tt.code, tt.err)
			}
		})
	}
}

func TestHandleDelete_ForeignUser(t *testing.T) {
	h, profileID := setup(t, 0)
	med := createMedication(t, h, profileID, "A")

	req := httptest.NewRequest(http.MethodDelete, "/v1/medications/"+med.ID.String(), nil)
	req = req.WithContext(userctx.WithUserID(req.Context(), "someone-else"))
	req.SetPathValue("id", med.ID.String())
	w := httptest.NewRecorder()
	h.HandleDelete(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
