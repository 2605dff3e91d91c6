package postgres

import (
	"context"
	"errors"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresMealsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresMealsStorage(pool *pgxpool.Pool) *PostgresMealsStorage {
	return &PostgresMealsStorage{pool: pool}
}

const mealColumns = `id, profile_id, to_char(date, 'YYYY-MM-DD'), meal_type, title, calories_kcal,
		protein_g, carbs_g, fat_g, sugar_g, fiber_g, saturated_fat_g, notes, created_at, updated_at`

func scanMeal(row pgx.Row, m *storage.Meal) error {
	return row.Scan(
		&m.ID,
		&m.ProfileID,
		&m.Date,
		&m.MealType,
		&m.Title,
		&m.CaloriesKcal,
		&m.ProteinG,
		&m.CarbsG,
		&m.FatG,
		&m.SugarG,
		&m.FiberG,
		&m.SaturatedFatG,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
}

func (s *PostgresMealsStorage) CreateMeal(ctx context.Context, meal *storage.Meal) error {
	if meal.ID == uuid.Nil {
		meal.ID = uuid.New()
	}

	query := `
		INSERT INTO meals (id, profile_id, date, meal_type, title, calories_kcal, protein_g, carbs_g,
			fat_g, sugar_g, fiber_g, saturated_fat_g, notes, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	return s.pool.QueryRow(ctx, query,
		meal.ID,
		meal.ProfileID,
		meal.Date,
		meal.MealType,
		meal.Title,
		meal.CaloriesKcal,
		meal.ProteinG,
		meal.CarbsG,
		meal.FatG,
		meal.SugarG,
		meal.FiberG,
		meal.SaturatedFatG,
		meal.Notes,
	).Scan(&meal.CreatedAt, &meal.UpdatedAt)
}

func (s *PostgresMealsStorage) GetMeal(ctx context.Context, id uuid.UUID) (*storage.Meal, error) {
	query := `SELECT ` + mealColumns + ` FROM meals WHERE id = $1`

	var m storage.Meal
	err := scanMeal(s.pool.QueryRow(ctx, query, id), &m)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *PostgresMealsStorage) UpdateMeal(ctx context.Context, meal *storage.Meal) error {
	query := `
		UPDATE meals
		SET date = $2::date, meal_type = $3, title = $4, calories_kcal = $5, protein_g = $6, carbs_g = $7,
			fat_g = $8, sugar_g = $9, fiber_g = $10, saturated_fat_g = $11, notes = $12, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := s.pool.QueryRow(ctx, query,
		meal.ID,
		meal.Date,
		meal.MealType,
		meal.Title,
		meal.CaloriesKcal,
		meal.ProteinG,
		meal.CarbsG,
		meal.FatG,
		meal.SugarG,
		meal.FiberG,
		meal.SaturatedFatG,
		meal.Notes,
	).Scan(&meal.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

func (s *PostgresMealsStorage) DeleteMeal(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, s.pool, `DELETE FROM meals WHERE id = $1`, id)
}

func (s *PostgresMealsStorage) ListMeals(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.Meal, error) {
	from, to = dateBounds(from, to)
	query := `SELECT ` + mealColumns + `
		FROM meals
		WHERE profile_id = $1 AND date >= $2::date AND date <= $3::date
		ORDER BY date, created_at`

	rows, err := s.pool.Query(ctx, query, profileID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []storage.Meal{}
	for rows.Next() {
		var m storage.Meal
		if err := scanMeal(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresMealsStorage) MealDailyTotals(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.MealDayTotals, error) {
	from, to = dateBounds(from, to)
	query := `
		SELECT to_char(date, 'YYYY-MM-DD'), COUNT(*),
			SUM(calories_kcal), SUM(protein_g), SUM(carbs_g), SUM(fat_g),
			SUM(sugar_g), SUM(fiber_g), SUM(saturated_fat_g)
		FROM meals
		WHERE profile_id = $1 AND date >= $2::date AND date <= $3::date
		GROUP BY date
		ORDER BY date
	`

	rows, err := s.pool.Query(ctx, query, profileID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []storage.MealDayTotals
	for rows.Next() {
		var t storage.MealDayTotals
		if err := rows.Scan(
			&t.Date,
			&t.Meals,
			&t.CaloriesKcal,
			&t.ProteinG,
			&t.CarbsG,
			&t.FatG,
			&t.SugarG,
			&t.FiberG,
			&t.SaturatedFatG,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
