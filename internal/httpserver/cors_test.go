package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/nafld-hub/internal/config"
)

func corsRequest(method, origin string) *http.Request {
	req := httptest.NewRequest(method, "/v1/dashboard", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	return req
}

func TestCORS_Preflight(t *testing.T) {
	cfg := &config.Config{CORSAllowedOrigins: []string{"https://app.example.com"}}
	handler := CORSMiddleware(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called for preflight")
	}))

	tests := []struct {
		name        string
		origin      string
		wantOrigin  string
		wantMethods bool
	}{
		{"AllowedOrigin", "https://app.example.com", "https://app.example.com", true},
		{"DisallowedOrigin", "https://evil.com", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, corsRequest(http.MethodOptions, tt.origin))

			if rr.Code != http.StatusNoContent {
				t.Errorf("expected 204, got %d", rr.Code)
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("expected Allow-Origin=%q, got %q", tt.wantOrigin, got)
			}
			if got := rr.Header().Get("Access-Control-Allow-Methods") != ""; got != tt.wantMethods {
				t.Errorf("Allow-Methods present=%v, want %v", got, tt.wantMethods)
			}
		})
	}
}

func TestCORS_NormalRequests(t *testing.T) {
	cfg := &config.Config{
		CORSAllowedOrigins:   []string{"https://app.example.com"},
		CORSAllowCredentials: true,
	}

	var called int
	handler := CORSMiddleware(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called++
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("AllowedOrigin", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, corsRequest(http.MethodGet, "https://app.example.com"))

		if rr.Header().Get("Access-Control-Allow-Origin") != "https://app.example.com" {
			t.Error("expected Allow-Origin header")
		}
		if rr.Header().Get("Access-Control-Allow-Credentials") != "true" {
			t.Error("expected Allow-Credentials=true")
		}
		if rr.Header().Get("Access-Control-Expose-Headers") != "Content-Disposition" {
			t.Error("expected Content-Disposition to be exposed for report downloads")
		}
	})

	t.Run("DisallowedOrigin", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, corsRequest(http.MethodGet, "https://evil.com"))

		if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("expected no Allow-Origin header, got %q", got)
		}
	})

	t.Run("NoOrigin", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, corsRequest(http.MethodGet, ""))

		if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("expected no Allow-Origin header, got %q", got)
		}
	})

	if called != 3 {
		t.Errorf("expected inner handler called 3 times, got %d", called)
	}
}

func TestCORS_WildcardWithoutCredentials(t *testing.T) {
	cfg := &config.Config{
		CORSAllowedOrigins:   []string{"*"},
		CORSAllowCredentials: true,
	}
	handler := CORSMiddleware(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, corsRequest(http.MethodGet, "https://anywhere.example"))

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://anywhere.example" {
		t.Errorf("expected origin echoed, got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Errorf("expected no credentials for wildcard origin, got %q", got)
	}
}
