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

type PostgresObjectivesStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresObjectivesStorage(pool *pgxpool.Pool) *PostgresObjectivesStorage {
	return &PostgresObjectivesStorage{pool: pool}
}

const objectiveColumns = `id, profile_id, calories_kcal, protein_min_g, fiber_min_g, carbs_g, fat_g,
		sugar_max_g, sat_fat_max_g, cap_margin, activity_minutes, activity_kcal, target_weight_kg,
		created_at, superseded_at`

func scanObjective(row pgx.Row, o *storage.Objective) error {
	return row.Scan(
		&o.ID,
		&o.ProfileID,
		&o.CaloriesKcal,
		&o.ProteinMinG,
		&o.FiberMinG,
		&o.CarbsG,
		&o.FatG,
		&o.SugarMaxG,
		&o.SatFatMaxG,
		&o.CapMargin,
		&o.ActivityMinutes,
		&o.ActivityKcal,
		&o.TargetWeightKg,
		&o.CreatedAt,
		&o.SupersededAt,
	)
}

func (s *PostgresObjectivesStorage) GetActive(ctx context.Context, profileID uuid.UUID) (*storage.Objective, error) {
	query := `SELECT ` + objectiveColumns + ` FROM objectives WHERE profile_id = $1 AND superseded_at IS NULL`

	var o storage.Objective
	err := scanObjective(s.pool.QueryRow(ctx, query, profileID), &o)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateObjective supersedes the active row and inserts obj in one transaction.
func (s *PostgresObjectivesStorage) CreateObjective(ctx context.Context, obj *storage.Objective) error {
	if obj.ID == uuid.Nil {
		obj.ID = uuid.New()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		UPDATE objectives SET superseded_at = NOW()
		WHERE profile_id = $1 AND superseded_at IS NULL
	`, obj.ProfileID); err != nil {
		return fmt.Errorf("supersede objective: %w", err)
	}

	query := `
		INSERT INTO objectives (id, profile_id, calories_kcal, protein_min_g, fiber_min_g, carbs_g, fat_g,
			sugar_max_g, sat_fat_max_g, cap_margin, activity_minutes, activity_kcal, target_weight_kg, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		RETURNING created_at
	`
	err = tx.QueryRow(ctx, query,
		obj.ID,
		obj.ProfileID,
		obj.CaloriesKcal,
		obj.ProteinMinG,
		obj.FiberMinG,
		obj.CarbsG,
		obj.FatG,
		obj.SugarMaxG,
		obj.SatFatMaxG,
		obj.CapMargin,
		obj.ActivityMinutes,
		obj.ActivityKcal,
		obj.TargetWeightKg,
	).Scan(&obj.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert objective: %w", err)
	}
	obj.SupersededAt = nil

	return tx.Commit(ctx)
}

func (s *PostgresObjectivesStorage) ListObjectives(ctx context.Context, profileID uuid.UUID, limit int) ([]storage.Objective, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + objectiveColumns + `
		FROM objectives
		WHERE profile_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.pool.Query(ctx, query, profileID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []storage.Objective{}
	for rows.Next() {
		var o storage.Objective
		if err := scanObjective(rows, &o); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
