package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresReportsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresReportsStorage(pool *pgxpool.Pool) *PostgresReportsStorage {
	return &PostgresReportsStorage{pool: pool}
}

const reportColumns = `id, profile_id, format, to_char(from_date, 'YYYY-MM-DD'), to_char(to_date, 'YYYY-MM-DD'),
		object_key, size_bytes, status, error, created_at, updated_at`

func scanReport(row pgx.Row, r *storage.ReportMeta) error {
	return row.Scan(
		&r.ID,
		&r.ProfileID,
		&r.Format,
		&r.FromDate,
		&r.ToDate,
		&r.ObjectKey,
		&r.SizeBytes,
		&r.Status,
		&r.Error,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
}

func (s *PostgresReportsStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}

	query := `
		INSERT INTO reports (id, profile_id, format, from_date, to_date, object_key, size_bytes, status, error, created_at, updated_at)
		VALUES ($1, $2, $3, $4::date, $5::date, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := s.pool.QueryRow(ctx, query,
		report.ID,
		report.ProfileID,
		report.Format,
		report.FromDate,
		report.ToDate,
		report.ObjectKey,
		report.SizeBytes,
		report.Status,
		report.Error,
	).Scan(&report.CreatedAt, &report.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

func (s *PostgresReportsStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`

	var report storage.ReportMeta
	err := scanReport(s.pool.QueryRow(ctx, query, id), &report)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return &report, nil
}

func (s *PostgresReportsStorage) ListReports(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]storage.ReportMeta, error) {
	query := `SELECT ` + reportColumns + `
		FROM reports
		WHERE profile_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.pool.Query(ctx, query, profileID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []storage.ReportMeta{}
	for rows.Next() {
		var r storage.ReportMeta
		if err := scanReport(rows, &r); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, r)
	}

	return reports, rows.Err()
}

func (s *PostgresReportsStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, s.pool, `DELETE FROM reports WHERE id = $1`, id)
}
