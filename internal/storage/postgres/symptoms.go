package postgres

import (
	"context"
	"errors"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresSymptomsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresSymptomsStorage(pool *pgxpool.Pool) *PostgresSymptomsStorage {
	return &PostgresSymptomsStorage{pool: pool}
}

const symptomColumns = `id, profile_id, to_char(date, 'YYYY-MM-DD'), kind, severity, notes, created_at, updated_at`

func scanSymptom(row pgx.Row, s *storage.Symptom) error {
	return row.Scan(&s.ID, &s.ProfileID, &s.Date, &s.Kind, &s.Severity, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
}

// UpsertSymptom creates or replaces the entry for (profile_id, date, kind).
func (s *PostgresSymptomsStorage) UpsertSymptom(ctx context.Context, sym *storage.Symptom) error {
	if sym.ID == uuid.Nil {
		sym.ID = uuid.New()
	}

	query := `
		INSERT INTO symptoms (id, profile_id, date, kind, severity, notes, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (profile_id, date, kind)
		DO UPDATE SET
			severity = EXCLUDED.severity,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	return s.pool.QueryRow(ctx, query,
		sym.ID,
		sym.ProfileID,
		sym.Date,
		sym.Kind,
		sym.Severity,
		sym.Notes,
	).Scan(&sym.ID, &sym.CreatedAt, &sym.UpdatedAt)
}

func (s *PostgresSymptomsStorage) GetSymptom(ctx context.Context, id uuid.UUID) (*storage.Symptom, error) {
	query := `SELECT ` + symptomColumns + ` FROM symptoms WHERE id = $1`

	var sym storage.Symptom
	err := scanSymptom(s.pool.QueryRow(ctx, query, id), &sym)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sym, nil
}

func (s *PostgresSymptomsStorage) ListSymptoms(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.Symptom, error) {
	from, to = dateBounds(from, to)
	query := `SELECT ` + symptomColumns + `
		FROM symptoms
		WHERE profile_id = $1 AND date >= $2::date AND date <= $3::date
		ORDER BY date, kind`

	rows, err := s.pool.Query(ctx, query, profileID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []storage.Symptom{}
	for rows.Next() {
		var sym storage.Symptom
		if err := scanSymptom(rows, &sym); err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

func (s *PostgresSymptomsStorage) DeleteSymptom(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, s.pool, `DELETE FROM symptoms WHERE id = $1`, id)
}
