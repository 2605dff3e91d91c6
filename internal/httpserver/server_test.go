package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/nafld-hub/internal/config"
)

func TestHealthz(t *testing.T) {
	cfg := &config.Config{Port: 8080}
	srv := New(cfg)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", resp["status"])
	}
}

func TestHealthzMethodNotAllowed(t *testing.T) {
	cfg := &config.Config{Port: 8080}
	srv := New(cfg)

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestPasswordAuthFlow(t *testing.T) {
	cfg := &config.Config{
		AuthMode:          config.AuthModePassword,
		AuthRequired:      true,
		JWTSecret:         "test-secret",
		JWTIssuer:         "nafld-hub-test",
		JWTTTLMinutes:     60,
		PasswordMinLength: 8,
		Scoring:           config.ScoringConfig{WindowDays: 7, CapMargin: 1.2, ActivityTargetMinutes: 30, ActivityTargetKcal: 200},
	}
	h := New(cfg).Handler()

	if w := do(t, h, http.MethodGet, "/v1/profiles", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	w := do(t, h, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": "dana@example.com", "password": "liver-friendly",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var auth struct {
		AccessToken    string `json:"access_token"`
		OwnerProfileID string `json:"owner_profile_id"`
	}
	json.NewDecoder(w.Body).Decode(&auth)

	today := time.Now().UTC().Format("2006-01-02")
	w = do(t, h, http.MethodPost, "/v1/meals", auth.AccessToken, map[string]any{
		"profile_id": auth.OwnerProfileID, "date": today, "meal_type": "lunch",
		"title": "Lentil soup", "calories_kcal": 450, "protein_g": 25, "fiber_g": 12,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create meal: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodGet, "/v1/dashboard?profile_id="+auth.OwnerProfileID, auth.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var dash struct {
		Date string `json:"date"`
		Day  struct {
			MealsLogged int `json:"meals_logged"`
		} `json:"day"`
		Window []json.RawMessage `json:"window"`
	}
	json.NewDecoder(w.Body).Decode(&dash)
	if dash.Date != today || dash.Day.MealsLogged != 1 {
		t.Errorf("unexpected dashboard day: %+v", dash)
	}
	if len(dash.Window) != 7 {
		t.Errorf("expected 7 window days, got %d", len(dash.Window))
	}

	t.Run("OtherUserCannotReadProfile", func(t *testing.T) {
		w := do(t, h, http.MethodPost, "/v1/auth/register", "", map[string]string{
			"email": "eve@example.com", "password": "curious-eve",
		})
		var other struct {
			AccessToken string `json:"access_token"`
		}
		json.NewDecoder(w.Body).Decode(&other)

		w = do(t, h, http.MethodGet, "/v1/dashboard?profile_id="+auth.OwnerProfileID, other.AccessToken, nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for foreign profile, got %d", w.Code)
		}
	})
}

func TestRoutesRegistered(t *testing.T) {
	h := New(&config.Config{}).Handler()

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/v1/profiles"},
		{http.MethodGet, "/v1/objectives/active"},
		{http.MethodGet, "/v1/meals/daily"},
		{http.MethodGet, "/v1/activities"},
		{http.MethodGet, "/v1/weights/bmi"},
		{http.MethodGet, "/v1/medications"},
		{http.MethodGet, "/v1/medications/intakes/daily"},
		{http.MethodGet, "/v1/symptoms"},
		{http.MethodGet, "/v1/dashboard"},
		{http.MethodGet, "/v1/dashboard/history"},
		{http.MethodGet, "/v1/reports"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := do(t, h, rt.method, rt.path, "", nil)
			if w.Code == http.StatusNotFound || w.Code == http.StatusMethodNotAllowed {
				body := w.Body.String()
				// Handlers answer 404 with a JSON envelope; the mux answers plain text.
				if len(body) == 0 || body[0] != '{' {
					t.Fatalf("route not registered: %d %s", w.Code, body)
				}
			}
		})
	}
}
