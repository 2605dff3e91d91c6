package blob

import (
	"context"
	"fmt"
	"strings"

	appcfg "github.com/fdg312/nafld-hub/internal/config"
)

type Logger interface {
	Printf(format string, v ...any)
}

// NewBlobStore resolves mode local|s3|auto into a Store. Local and auto
// without S3 credentials return an in-memory store; the returned string is
// the effective mode.
func NewBlobStore(ctx context.Context, mode string, s3cfg appcfg.S3Config, logger Logger) (Store, string, error) {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		mode = appcfg.BlobModeLocal
	}

	switch mode {
	case appcfg.BlobModeLocal:
		logf(logger, "INFO blob: mode=local (forced)")
		return NewMemoryStore(), appcfg.BlobModeLocal, nil

	case appcfg.BlobModeAuto:
		if !s3cfg.IsConfigured() {
			level, code, msg := s3cfg.Diagnostics()
			logf(logger, "%s blob.s3: code=%s %s", level, code, msg)
			logf(logger, "INFO blob.s3: %s", s3cfg.DiagnosticsSummary())
			logf(logger, "INFO blob: mode=local (auto, S3 not configured)")
			return NewMemoryStore(), appcfg.BlobModeLocal, nil
		}

		store, err := newS3FromConfig(ctx, s3cfg)
		if err != nil {
			logf(logger, "WARN blob.s3: init_failed=%q, fallback=local", err.Error())
			return NewMemoryStore(), appcfg.BlobModeLocal, nil
		}
		logf(logger, "INFO blob.s3: code=s3_ready %s", s3cfg.DiagnosticsSummary())
		logf(logger, "INFO blob: mode=s3 (auto, configured)")
		return store, appcfg.BlobModeS3, nil

	case appcfg.BlobModeS3:
		if !s3cfg.IsConfigured() {
			missing := s3cfg.MissingRequired()
			logf(logger, "FATAL blob.s3: code=s3_config_incomplete missing=%v", missing)
			logf(logger, "FATAL blob.s3: %s", s3cfg.DiagnosticsSummary())
			return nil, "", fmt.Errorf("mode=s3 requested but missing required config: %s", strings.Join(missing, ", "))
		}

		store, err := newS3FromConfig(ctx, s3cfg)
		if err != nil {
			logf(logger, "FATAL blob.s3: init_failed=%v", err)
			return nil, "", fmt.Errorf("mode=s3 init failed: %w", err)
		}
		logf(logger, "INFO blob.s3: code=s3_ready %s", s3cfg.DiagnosticsSummary())
		logf(logger, "INFO blob: mode=s3 (forced)")
		return store, appcfg.BlobModeS3, nil

	default:
		return nil, "", fmt.Errorf("unsupported blob mode: %s", mode)
	}
}

func newS3FromConfig(ctx context.Context, c appcfg.S3Config) (*S3Store, error) {
	return NewS3Store(ctx, c.Endpoint, c.Region, c.Bucket, c.AccessKeyID, c.SecretAccessKey, c.PublicBaseURL)
}

func logf(logger Logger, format string, v ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, v...)
}
