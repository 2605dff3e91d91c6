package dbmigrate

import (
	"errors"

	"github.com/fdg312/nafld-hub/internal/config"
)

const DefaultMigrationsDir = "migrations"

var (
	ErrNoDatabaseURL     = errors.New("no database URL configured (set DATABASE_URL_DIRECT or DATABASE_URL)")
	ErrDirectURLRequired = errors.New("DATABASE_URL_DIRECT is required for startup migrations")
)

// Target is the connection a migration run uses. Source names the env var it
// came from.
type Target struct {
	URL     string
	Source  string
	Warning string
}

// SelectTarget picks the DDL connection: DATABASE_URL_DIRECT, then
// DATABASE_URL, then DATABASE_URL_POOLED with a warning. With directOnly set
// only the direct URL qualifies.
func SelectTarget(cfg *config.Config, directOnly bool) (Target, error) {
	candidates := []Target{{URL: cfg.DatabaseURLDirect, Source: "DATABASE_URL_DIRECT"}}
	if !directOnly {
		candidates = append(candidates,
			Target{URL: cfg.DatabaseURLRaw, Source: "DATABASE_URL"},
			Target{
				URL:     cfg.DatabaseURLPooled,
				Source:  "DATABASE_URL_POOLED",
				Warning: "pooled connections can drop goose session locks; set DATABASE_URL_DIRECT",
			},
		)
	}

	for _, c := range candidates {
		if c.URL != "" {
			return c, nil
		}
	}
	if directOnly {
		return Target{}, ErrDirectURLRequired
	}
	return Target{}, ErrNoDatabaseURL
}
