package postgres

import (
	"context"
	"errors"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresMedicationsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresMedicationsStorage(pool *pgxpool.Pool) *PostgresMedicationsStorage {
	return &PostgresMedicationsStorage{pool: pool}
}

const medicationColumns = `id, profile_id, name, dosage, active, deactivated_at, notes, created_at, updated_at`

func scanMedication(row pgx.Row, m *storage.Medication) error {
	return row.Scan(&m.ID, &m.ProfileID, &m.Name, &m.Dosage, &m.Active, &m.DeactivatedAt, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
}

func (s *PostgresMedicationsStorage) CreateMedication(ctx context.Context, m *storage.Medication) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	query := `
		INSERT INTO medications (id, profile_id, name, dosage, active, deactivated_at, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return s.pool.QueryRow(ctx, query, m.ID, m.ProfileID, m.Name, m.Dosage, m.Active, m.DeactivatedAt, m.Notes).
		Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (s *PostgresMedicationsStorage) GetMedication(ctx context.Context, id uuid.UUID) (*storage.Medication, error) {
	query := `SELECT ` + medicationColumns + ` FROM medications WHERE id = $1`

	var m storage.Medication
	err := scanMedication(s.pool.QueryRow(ctx, query, id), &m)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *PostgresMedicationsStorage) ListMedications(ctx context.Context, profileID uuid.UUID) ([]storage.Medication, error) {
	query := `SELECT ` + medicationColumns + ` FROM medications WHERE profile_id = $1 ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []storage.Medication{}
	for rows.Next() {
		var m storage.Medication
		if err := scanMedication(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresMedicationsStorage) UpdateMedication(ctx context.Context, m *storage.Medication) error {
	query := `
		UPDATE medications
		SET name = $2, dosage = $3, active = $4, deactivated_at = $5, notes = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := s.pool.QueryRow(ctx, query, m.ID, m.Name, m.Dosage, m.Active, m.DeactivatedAt, m.Notes).Scan(&m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

// DeleteMedication relies on ON DELETE CASCADE for intakes.
func (s *PostgresMedicationsStorage) DeleteMedication(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, s.pool, `DELETE FROM medications WHERE id = $1`, id)
}

func (s *PostgresMedicationsStorage) UpsertIntake(ctx context.Context, intake *storage.MedicationIntake) error {
	if intake.ID == uuid.Nil {
		intake.ID = uuid.New()
	}

	query := `
		INSERT INTO medication_intakes (id, profile_id, medication_id, date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4::date, $5, NOW(), NOW())
		ON CONFLICT (medication_id, date)
		DO UPDATE SET
			status = EXCLUDED.status,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	return s.pool.QueryRow(ctx, query,
		intake.ID,
		intake.ProfileID,
		intake.MedicationID,
		intake.Date,
		intake.Status,
	).Scan(&intake.ID, &intake.CreatedAt, &intake.UpdatedAt)
}

func (s *PostgresMedicationsStorage) ListIntakes(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.MedicationIntake, error) {
	from, to = dateBounds(from, to)
	query := `
		SELECT id, profile_id, medication_id, to_char(date, 'YYYY-MM-DD'), status, created_at, updated_at
		FROM medication_intakes
		WHERE profile_id = $1 AND date >= $2::date AND date <= $3::date
		ORDER BY date, medication_id
	`

	rows, err := s.pool.Query(ctx, query, profileID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []storage.MedicationIntake{}
	for rows.Next() {
		var in storage.MedicationIntake
		if err := rows.Scan(
			&in.ID,
			&in.ProfileID,
			&in.MedicationID,
			&in.Date,
			&in.Status,
			&in.CreatedAt,
			&in.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}
