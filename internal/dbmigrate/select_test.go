package dbmigrate

import (
	"errors"
	"testing"

	"github.com/fdg312/nafld-hub/internal/config"
)

func TestSelectTarget(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.Config
		directOnly  bool
		wantSource  string
		wantWarning bool
		wantErr     error
	}{
		{
			name:       "direct wins",
			cfg:        config.Config{DatabaseURLDirect: "postgres://direct", DatabaseURLRaw: "postgres://url", DatabaseURLPooled: "postgres://pooled"},
			wantSource: "DATABASE_URL_DIRECT",
		},
		{
			name:       "database url before pooled",
			cfg:        config.Config{DatabaseURLRaw: "postgres://url", DatabaseURLPooled: "postgres://pooled"},
			wantSource: "DATABASE_URL",
		},
		{
			name:        "pooled warns",
			cfg:         config.Config{DatabaseURLPooled: "postgres://pooled"},
			wantSource:  "DATABASE_URL_POOLED",
			wantWarning: true,
		},
		{
			name:    "nothing configured",
			wantErr: ErrNoDatabaseURL,
		},
		{
			name:       "direct only without direct",
			cfg:        config.Config{DatabaseURLRaw: "postgres://url", DatabaseURLPooled: "postgres://pooled"},
			directOnly: true,
			wantErr:    ErrDirectURLRequired,
		},
		{
			name:       "direct only with direct",
			cfg:        config.Config{DatabaseURLDirect: "postgres://direct"},
			directOnly: true,
			wantSource: "DATABASE_URL_DIRECT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := SelectTarget(&tt.cfg, tt.directOnly)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if target.Source != tt.wantSource || target.URL == "" {
				t.Errorf("got %+v, want source %s", target, tt.wantSource)
			}
			if (target.Warning != "") != tt.wantWarning {
				t.Errorf("warning = %q, want warning %v", target.Warning, tt.wantWarning)
			}
		})
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	files, err := Embedded()
	if err != nil {
		t.Fatalf("Embedded: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("expected embedded migrations")
	}
}

func TestIsCommand(t *testing.T) {
	for _, c := range []string{"up", "down", "status"} {
		if !IsCommand(c) {
			t.Errorf("expected %s to be supported", c)
		}
	}
	if IsCommand("drop") {
		t.Error("drop must not be supported")
	}
}
