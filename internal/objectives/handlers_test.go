package objectives

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/nafld-hub/internal/scoring"
	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/fdg312/nafld-hub/internal/storage/memory"
	"github.com/fdg312/nafld-hub/internal/userctx"
	"github.com/google/uuid"
)

type fixture struct {
	store   *memory.MemoryStorage
	service *Service
	profile storage.Profile
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.New()
	profiles, _ := store.ListProfiles(context.Background())
	service := NewService(store.GetObjectivesStorage(), store.GetWeightsStorage(), store, scoring.ObjectiveParams{})
	service.now = func() time.Time { return time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC) }
	return fixture{store: store, service: service, profile: profiles[0]}
}

func TestHandleGetActive_DefaultsWhenNothingSaved(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/objectives/active?profile_id="+f.profile.ID.String(), nil)
	w := httptest.NewRecorder()
	HandleGetActive(f.service)(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp ObjectiveDTO
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.IsDefault || resp.ID != nil {
		t.Errorf("expected computed default, got %+v", resp)
	}
	if resp.CaloriesKcal != 2000 || resp.CapMargin != scoring.DefaultCapMargin {
		t.Errorf("unexpected defaults %+v", resp.Objective)
	}
}

func TestHandleGetActive_UsesBodyData(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	height := 178.0
	birth := "1981-01-01"
	f.profile.HeightCm = &height
	f.profile.BirthDate = &birth
	f.profile.Sex = "male"
	f.profile.ActivityLevel = scoring.ActivityLight
	_ = f.store.UpdateProfile(ctx, &f.profile)
	_ = f.store.GetWeightsStorage().CreateWeight(ctx, &storage.WeightEntry{ProfileID: f.profile.ID, Date: "2026-03-01", WeightKg: 95})

	dto, err := f.service.GetActive(ctx, f.profile.ID)
	if err != nil {
		t.Fatalf("GetActive: %v", err)
	}
	want := scoring.DefaultObjective(scoring.Body{WeightKg: 95, HeightCm: 178, Age: 45, Sex: "male", ActivityLevel: scoring.ActivityLight}, scoring.ObjectiveParams{})
	if dto.CaloriesKcal != want.CaloriesKcal || dto.ProteinMinG != 114 {
		t.Errorf("got %+v, want %+v", dto.Objective, want)
	}
}

func TestHandleCreate_SupersedesPrevious(t *testing.T) {
	f := newFixture(t)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/objectives", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		HandleCreate(f.service)(w, req)
		return w
	}

	w := post(`{"profile_id":"` + f.profile.ID.String() + `","calories_kcal":1900}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	w = post(`{"profile_id":"` + f.profile.ID.String() + `","calories_kcal":1700,"sugar_max_g":20}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}

	active, _ := f.service.GetActive(context.Background(), f.profile.ID)
	if active.IsDefault || active.CaloriesKcal != 1700 || active.SugarMaxG != 20 {
		t.Errorf("active = %+v", active)
	}
	if active.FiberMinG != 30 {
		t.Errorf("omitted fiber should default to 30, got %v", active.FiberMinG)
	}

	history, _ := f.service.History(context.Background(), f.profile.ID, 0)
	if len(history) != 2 || history[1].SupersededAt == nil {
		t.Errorf("history = %+v", history)
	}
}

func TestHandleCreate_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		body     string
		status   int
		wantCode string
	}{
		{"missing profile", `{"calories_kcal":1800}`, http.StatusBadRequest, "validation_error"},
		{"calories too low", `{"profile_id":"` + f.profile.ID.String() + `","calories_kcal":100}`, http.StatusBadRequest, "validation_error"},
		{"margin too high", `{"profile_id":"` + f.profile.ID.String() + `","cap_margin":5}`, http.StatusBadRequest, "validation_error"},
		{"unknown profile", `{"profile_id":"` + uuid.NewString() + `"}`, http.StatusNotFound, "profile_not_found"},
		{"bad json", `{`, http.StatusBadRequest, "invalid_json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/objectives", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			HandleCreate(f.service)(w, req)

			if w.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, w.Code)
			}
			var resp ErrorResponse
			_ = json.NewDecoder(w.Body).Decode(&resp)
			if resp.Error.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, resp.Error.Code)
			}
		})
	}
}

func TestHandleGetActive_ForeignProfile(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/objectives/active?profile_id="+f.profile.ID.String(), nil)
	req = req.WithContext(userctx.WithUserID(req.Context(), "other-user"))
	w := httptest.NewRecorder()
	HandleGetActive(f.service)(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestHandleGetActive_MissingProfileID(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/objectives/active", nil)
	w := httptest.NewRecorder()
	HandleGetActive(f.service)(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
