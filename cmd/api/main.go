package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/nafld-hub/internal/config"
	"github.com/fdg312/nafld-hub/internal/dbmigrate"
	"github.com/fdg312/nafld-hub/internal/httpserver"
)

func main() {
	cfg := config.Load()

	printStartupBanner(cfg)

	if cfg.RunMigrationsOnStartup {
		target, err := dbmigrate.SelectTarget(cfg, true)
		if err != nil {
			log.Fatalf("FATAL startup migrations: %v", err)
		}

		log.Printf("INFO startup migrations: command=up using=%s", target.Source)
		if err := dbmigrate.Run(context.Background(), "up", target.URL, ""); err != nil {
			log.Fatalf("FATAL startup migrations failed: %v", err)
		}
		log.Printf("INFO startup migrations: completed")
	}

	validateProductionConfig(cfg)

	server := httpserver.New(cfg)
	defer server.Close()

	log.Fatal(server.Start())
}

// printStartupBanner logs the resolved configuration once. Secrets are only
// reported as set or not set.
func printStartupBanner(cfg *config.Config) {
	log.Println("========== NAFLD Hub API ==========")
	log.Printf("  env              = %s", cfg.Env)
	log.Printf("  port             = %d", cfg.Port)
	log.Printf("  log_level        = %s", cfg.LogLevel)

	log.Println("---- database ----")
	log.Printf("  runtime_url      = %s", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled))
	log.Printf("  pooled           = %s", setOrNot(cfg.DatabaseURLPooled))
	log.Printf("  direct           = %s", setOrNot(cfg.DatabaseURLDirect))
	log.Printf("  migrations_on_startup = %t", cfg.RunMigrationsOnStartup)

	log.Println("---- auth ----")
	log.Printf("  auth_mode        = %s", cfg.AuthMode)
	log.Printf("  auth_required    = %t", cfg.AuthRequired)
	log.Printf("  jwt_secret       = %s", secretStatus(cfg.JWTSecret, "change_me"))
	log.Printf("  jwt_ttl_minutes  = %d", cfg.JWTTTLMinutes)
	if cfg.AuthMode == config.AuthModePassword {
		log.Printf("  password_min_len = %d", cfg.PasswordMinLength)
	}

	log.Println("---- scoring ----")
	log.Printf("  window_days      = %d", cfg.Scoring.WindowDays)
	log.Printf("  cap_margin       = %.2f", cfg.Scoring.CapMargin)
	log.Printf("  activity_target  = %.0f min / %.0f kcal", cfg.Scoring.ActivityTargetMinutes, cfg.Scoring.ActivityTargetKcal)
	log.Printf("  max_medications  = %d", cfg.MedicationsMaxPerProfile)

	log.Println("---- reports ----")
	log.Printf("  reports_mode     = %s (effective=%s)", displayReportsMode(cfg), cfg.Blob.EffectiveReportsMode())
	log.Printf("  max_range_days   = %d", cfg.ReportsMaxRangeDays)
	if cfg.Blob.EffectiveReportsMode() != config.BlobModeLocal {
		log.Printf("  s3: %s", cfg.Blob.S3.DiagnosticsSummary())
	}

	log.Println("---- http ----")
	log.Printf("  cors_origins     = %s", nonEmptyOrDash(strings.Join(cfg.CORSAllowedOrigins, ",")))
	if cfg.RateLimitRPS > 0 {
		log.Printf("  rate_limit       = %d rps (burst %d)", cfg.RateLimitRPS, cfg.RateLimitBurst)
	} else {
		log.Printf("  rate_limit       = off")
	}

	log.Println("===================================")
}

// validateProductionConfig stops startup on settings that are unsafe or
// incomplete outside local development.
func validateProductionConfig(cfg *config.Config) {
	isProd := cfg.Env == "production" || cfg.Env == "prod" || cfg.Env == "staging"

	if cfg.Blob.EffectiveReportsMode() == config.BlobModeS3 {
		if missing := cfg.Blob.S3.MissingRequired(); len(missing) > 0 {
			log.Fatalf("FATAL blob: reports mode is 's3' but S3 config is incomplete, missing: %s", strings.Join(missing, ", "))
		}
	}

	if isProd && cfg.AuthMode == config.AuthModeDev {
		log.Fatalf("FATAL auth: AUTH_MODE=dev is not allowed in %s", cfg.Env)
	}

	if isProd && cfg.AuthRequired && cfg.JWTSecret == "change_me" {
		log.Fatalf("FATAL auth: JWT_SECRET must not be 'change_me' in %s with AUTH_REQUIRED=1", cfg.Env)
	}

	if isProd && cfg.DatabaseURL == "" {
		log.Fatalf("FATAL db: no DATABASE_URL configured in %s", cfg.Env)
	}
}

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func nonEmptyOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func secretStatus(v, insecureDefault string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "not set"
	}
	if v == insecureDefault {
		return fmt.Sprintf("set (default, insecure '%s')", insecureDefault)
	}
	return "set (custom)"
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set (will use in-memory storage)"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}

func displayReportsMode(cfg *config.Config) string {
	if cfg.Blob.ReportsModeSet {
		return cfg.Blob.ReportsMode
	}
	return fmt.Sprintf("(inherits BLOB_MODE=%s)", cfg.Blob.Mode)
}
