package postgres

import (
	"context"
	"errors"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresActivitiesStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresActivitiesStorage(pool *pgxpool.Pool) *PostgresActivitiesStorage {
	return &PostgresActivitiesStorage{pool: pool}
}

const activityColumns = `id, profile_id, to_char(date, 'YYYY-MM-DD'), kind, duration_minutes,
		distance_km, calories_kcal, notes, created_at`

func scanActivity(row pgx.Row, a *storage.Activity) error {
	return row.Scan(
		&a.ID,
		&a.ProfileID,
		&a.Date,
		&a.Kind,
		&a.DurationMinutes,
		&a.DistanceKm,
		&a.CaloriesKcal,
		&a.Notes,
		&a.CreatedAt,
	)
}

func (s *PostgresActivitiesStorage) CreateActivity(ctx context.Context, a *storage.Activity) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	query := `
		INSERT INTO activities (id, profile_id, date, kind, duration_minutes, distance_km, calories_kcal, notes, created_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, NOW())
		RETURNING created_at
	`

	return s.pool.QueryRow(ctx, query,
		a.ID,
		a.ProfileID,
		a.Date,
		a.Kind,
		a.DurationMinutes,
		a.DistanceKm,
		a.CaloriesKcal,
		a.Notes,
	).Scan(&a.CreatedAt)
}

func (s *PostgresActivitiesStorage) GetActivity(ctx context.Context, id uuid.UUID) (*storage.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`

	var a storage.Activity
	err := scanActivity(s.pool.QueryRow(ctx, query, id), &a)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PostgresActivitiesStorage) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, s.pool, `DELETE FROM activities WHERE id = $1`, id)
}

func (s *PostgresActivitiesStorage) ListActivities(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.Activity, error) {
	from, to = dateBounds(from, to)
	query := `SELECT ` + activityColumns + `
		FROM activities
		WHERE profile_id = $1 AND date >= $2::date AND date <= $3::date
		ORDER BY date, created_at`

	rows, err := s.pool.Query(ctx, query, profileID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []storage.Activity{}
	for rows.Next() {
		var a storage.Activity
		if err := scanActivity(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresActivitiesStorage) ActivityDailyTotals(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.ActivityDayTotals, error) {
	from, to = dateBounds(from, to)
	query := `
		SELECT to_char(date, 'YYYY-MM-DD'), COUNT(*),
			SUM(duration_minutes), SUM(calories_kcal),
			COUNT(*) FILTER (WHERE kind = 'walk'),
			COALESCE(SUM(distance_km) FILTER (WHERE kind = 'walk'), 0)
		FROM activities
		WHERE profile_id = $1 AND date >= $2::date AND date <= $3::date
		GROUP BY date
		ORDER BY date
	`

	rows, err := s.pool.Query(ctx, query, profileID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []storage.ActivityDayTotals
	for rows.Next() {
		var t storage.ActivityDayTotals
		if err := rows.Scan(&t.Date, &t.Sessions, &t.Minutes, &t.CaloriesKcal, &t.Walks, &t.WalkKm); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
