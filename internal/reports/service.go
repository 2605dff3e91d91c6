package reports

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/fdg312/nafld-hub/internal/access"
	"github.com/fdg312/nafld-hub/internal/blob"
	"github.com/fdg312/nafld-hub/internal/dashboard"
	"github.com/fdg312/nafld-hub/internal/daterange"
	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrReportNotReady  = errors.New("report is not ready")
	ErrProfileNotFound = access.ErrProfileNotFound
)

var validate = validator.New()

// HistorySource returns scored records for an authorized profile.
type HistorySource interface {
	Scores(ctx context.Context, profile *storage.Profile, from, to string) ([]dashboard.DayScore, error)
}

type Logger interface {
	Printf(format string, v ...any)
}

// Options configures where download links point.
type Options struct {
	MaxRangeDays    int
	PresignTTL      int
	PublicBaseURL   string
	PreferPublicURL bool
}

type Service struct {
	store    storage.ReportsStorage
	profiles access.ProfileGetter
	history  HistorySource
	blobs    blob.Store
	opts     Options
	logger   Logger
}

func NewService(store storage.ReportsStorage, profiles access.ProfileGetter, history HistorySource, blobs blob.Store, opts Options, logger Logger) *Service {
	if opts.MaxRangeDays <= 0 {
		opts.MaxRangeDays = 90
	}
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = 900
	}
	opts.PublicBaseURL = strings.TrimRight(opts.PublicBaseURL, "/")
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		store:    store,
		profiles: profiles,
		history:  history,
		blobs:    blobs,
		opts:     opts,
		logger:   logger,
	}
}

// Create renders the report and uploads it. A failed upload is still recorded
// with status "failed".
func (s *Service) Create(ctx context.Context, req CreateReportRequest) (*storage.ReportMeta, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	profile, err := access.Profile(ctx, s.profiles, req.ProfileID)
	if err != nil {
		return nil, err
	}
	if err := daterange.Validate(req.From, req.To, s.opts.MaxRangeDays); err != nil {
		return nil, err
	}

	days, err := s.history.Scores(ctx, profile, req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	var data []byte
	switch req.Format {
	case FormatCSV:
		data, err = generateCSV(days)
	default:
		data, err = generatePDF(profile.Name, req.From, req.To, days)
	}
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	key := fmt.Sprintf("reports/%s/%s_%s_%s.%s", req.ProfileID, req.From, req.To, uuid.New(), req.Format)
	meta := &storage.ReportMeta{
		ProfileID: req.ProfileID,
		Format:    req.Format,
		FromDate:  req.From,
		ToDate:    req.To,
		Status:    StatusReady,
	}

	size, putErr := s.blobs.PutObject(ctx, key, data, contentType(req.Format))
	if putErr != nil {
		s.logger.Printf("WARN reports: upload failed key=%s err=%v", key, putErr)
		msg := putErr.Error()
		meta.Status = StatusFailed
		meta.Error = &msg
	} else {
		meta.ObjectKey = &key
		meta.SizeBytes = size
	}

	if err := s.store.CreateReport(ctx, meta); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	if putErr != nil {
		return meta, fmt.Errorf("upload report: %w", putErr)
	}
	return meta, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	meta, err := s.store.GetReport(ctx, id)
	if err != nil {
		return nil, ErrReportNotFound
	}
	if _, err := access.Profile(ctx, s.profiles, meta.ProfileID); err != nil {
		return nil, ErrReportNotFound
	}
	return meta, nil
}

func (s *Service) List(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]storage.ReportMeta, error) {
	if _, err := access.Profile(ctx, s.profiles, profileID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	list, err := s.store.ListReports(ctx, profileID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return list, nil
}

// Delete removes the metadata. A blob that cannot be deleted is only logged.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	meta, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if meta.ObjectKey != nil {
		if err := s.blobs.DeleteObject(ctx, *meta.ObjectKey); err != nil {
			s.logger.Printf("WARN reports: delete object key=%s err=%v", *meta.ObjectKey, err)
		}
	}

	if err := s.store.DeleteReport(ctx, id); err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	return nil
}

// ExternalURL returns a URL outside the API where the file can be fetched:
// the public URL when preferred and configured, else a presigned URL. It
// returns "" when the store can only be read through the API.
func (s *Service) ExternalURL(ctx context.Context, meta *storage.ReportMeta) (string, error) {
	if meta.ObjectKey == nil {
		return "", ErrReportNotReady
	}
	if s.opts.PreferPublicURL && s.opts.PublicBaseURL != "" {
		return s.opts.PublicBaseURL + "/" + strings.TrimLeft(*meta.ObjectKey, "/"), nil
	}

	url, err := s.blobs.PresignGet(ctx, *meta.ObjectKey, s.opts.PresignTTL)
	if errors.Is(err, blob.ErrPresignUnsupported) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("presign: %w", err)
	}
	return url, nil
}

// Data reads the report bytes from the blob store.
func (s *Service) Data(ctx context.Context, meta *storage.ReportMeta) ([]byte, error) {
	if meta.Status != StatusReady || meta.ObjectKey == nil {
		return nil, ErrReportNotReady
	}
	data, err := s.blobs.GetObject(ctx, *meta.ObjectKey)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return data, nil
}
