package weights

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/fdg312/nafld-hub/internal/storage/memory"
	"github.com/google/uuid"
)

func setup(t *testing.T) (*Service, *memory.MemoryStorage, storage.Profile) {
	t.Helper()
	store := memory.New()
	profiles, _ := store.ListProfiles(context.Background())
	service := NewService(store.GetWeightsStorage(), store)
	service.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	return service, store, profiles[0]
}

func postWeight(service *Service, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/weights", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	HandleCreate(service)(w, req)
	return w
}

func TestHandleCreate_Validation(t *testing.T) {
	service, _, profile := setup(t)

	w := postWeight(service, `{"profile_id":"`+profile.ID.String()+`","date":"2026-03-14","weight_kg":5}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for 5 kg, got %d", w.Code)
	}

	w = postWeight(service, `{"profile_id":"`+profile.ID.String()+`","date":"2026-03-14","weight_kg":92.5}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestHandleBMI(t *testing.T) {
	service, store, profile := setup(t)
	ctx := context.Background()
	pid := profile.ID.String()

	// No weight yet: category unknown.
	req := httptest.NewRequest(http.MethodGet, "/v1/weights/bmi?profile_id="+pid, nil)
	w := httptest.NewRecorder()
	HandleBMI(service)(w, req)
	var resp BMIResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if w.Code != http.StatusOK || resp.BMI != nil || resp.Category != "unknown" || resp.Date != "2026-03-14" {
		t.Fatalf("unexpected empty response %d %+v", w.Code, resp)
	}

	height := 180.0
	profile.HeightCm = &height
	_ = store.UpdateProfile(ctx, &profile)
	postWeight(service, `{"profile_id":"`+pid+`","date":"2026-01-01","weight_kg":100}`)
	postWeight(service, `{"profile_id":"`+pid+`","date":"2026-03-10","weight_kg":94.5}`)

	w = httptest.NewRecorder()
	HandleBMI(service)(w, req)
	resp = BMIResponse{}
	_ = json.NewDecoder(w.Body).Decode(&resp)

	if resp.BMI == nil || *resp.BMI != 29.2 || resp.Category != "overweight" {
		t.Errorf("unexpected BMI %+v", resp)
	}
	if resp.WeightLostKg != 5.5 {
		t.Errorf("expected 5.5 kg lost, got %v", resp.WeightLostKg)
	}

	// Asking for an earlier day uses the weigh-in valid then.
	req = httptest.NewRequest(http.MethodGet, "/v1/weights/bmi?profile_id="+pid+"&date=2026-02-01", nil)
	w = httptest.NewRecorder()
	HandleBMI(service)(w, req)
	resp = BMIResponse{}
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if resp.WeightKg == nil || *resp.WeightKg != 100 {
		t.Errorf("expected 100 kg on 2026-02-01, got %+v", resp)
	}
}

func TestHandleListAndDelete(t *testing.T) {
	service, _, profile := setup(t)
	pid := profile.ID.String()

	w := postWeight(service, `{"profile_id":"`+pid+`","date":"2026-03-01","weight_kg":90}`)
	var created WeightDTO
	_ = json.NewDecoder(w.Body).Decode(&created)

	req := httptest.NewRequest(http.MethodGet, "/v1/weights?profile_id="+pid+"&from=2026-03-01&to=2026-03-31", nil)
	w = httptest.NewRecorder()
	HandleList(service)(w, req)
	var list WeightsResponse
	_ = json.NewDecoder(w.Body).Decode(&list)
	if len(list.Weights) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(list.Weights))
	}

	req = httptest.NewRequest(http.MethodDelete, "/v1/weights/"+created.ID.String(), nil)
	req.SetPathValue("id", created.ID.String())
	w = httptest.NewRecorder()
	HandleDelete(service)(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/v1/weights/x", nil)
	req.SetPathValue("id", "x")
	w = httptest.NewRecorder()
	HandleDelete(service)(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad id, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/weights?profile_id="+uuid.NewString()+"&from=2026-03-01&to=2026-03-31", nil)
	w = httptest.NewRecorder()
	HandleList(service)(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown profile, got %d", w.Code)
	}
}
