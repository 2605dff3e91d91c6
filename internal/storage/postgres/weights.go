package postgres

import (
	"context"
	"errors"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresWeightsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresWeightsStorage(pool *pgxpool.Pool) *PostgresWeightsStorage {
	return &PostgresWeightsStorage{pool: pool}
}

const weightColumns = `id, profile_id, to_char(date, 'YYYY-MM-DD'), weight_kg, notes, created_at`

func scanWeight(row pgx.Row, w *storage.WeightEntry) error {
	return row.Scan(&w.ID, &w.ProfileID, &w.Date, &w.WeightKg, &w.Notes, &w.CreatedAt)
}

func (s *PostgresWeightsStorage) CreateWeight(ctx context.Context, w *storage.WeightEntry) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}

	query := `
		INSERT INTO weights (id, profile_id, date, weight_kg, notes, created_at)
		VALUES ($1, $2, $3::date, $4, $5, NOW())
		RETURNING created_at
	`
	return s.pool.QueryRow(ctx, query, w.ID, w.ProfileID, w.Date, w.WeightKg, w.Notes).Scan(&w.CreatedAt)
}

func (s *PostgresWeightsStorage) GetWeight(ctx context.Context, id uuid.UUID) (*storage.WeightEntry, error) {
	query := `SELECT ` + weightColumns + ` FROM weights WHERE id = $1`
	return s.queryOne(ctx, query, storage.ErrNotFound, id)
}

func (s *PostgresWeightsStorage) DeleteWeight(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, s.pool, `DELETE FROM weights WHERE id = $1`, id)
}

func (s *PostgresWeightsStorage) ListWeights(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.WeightEntry, error) {
	from, to = dateBounds(from, to)
	query := `SELECT ` + weightColumns + `
		FROM weights
		WHERE profile_id = $1 AND date >= $2::date AND date <= $3::date
		ORDER BY date, created_at`

	rows, err := s.pool.Query(ctx, query, profileID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []storage.WeightEntry{}
	for rows.Next() {
		var w storage.WeightEntry
		if err := scanWeight(rows, &w); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *PostgresWeightsStorage) LatestWeight(ctx context.Context, profileID uuid.UUID, date string) (*storage.WeightEntry, error) {
	query := `SELECT ` + weightColumns + `
		FROM weights
		WHERE profile_id = $1 AND date <= $2::date
		ORDER BY date DESC, created_at DESC
		LIMIT 1`
	return s.queryOne(ctx, query, nil, profileID, date)
}

func (s *PostgresWeightsStorage) FirstWeight(ctx context.Context, profileID uuid.UUID) (*storage.WeightEntry, error) {
	query := `SELECT ` + weightColumns + `
		FROM weights
		WHERE profile_id = $1
		ORDER BY date ASC, created_at ASC
		LIMIT 1`
	return s.queryOne(ctx, query, nil, profileID)
}

// queryOne scans a single row; a missing row yields (nil, missing).
func (s *PostgresWeightsStorage) queryOne(ctx context.Context, query string, missing error, args ...any) (*storage.WeightEntry, error) {
	var w storage.WeightEntry
	err := scanWeight(s.pool.QueryRow(ctx, query, args...), &w)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, missing
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}
