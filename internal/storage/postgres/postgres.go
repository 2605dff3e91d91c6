package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage implements storage.Storage on a pgx pool and hands out the
// per-domain stores that share it.
type PostgresStorage struct {
	pool        *pgxpool.Pool
	users       *PostgresUsersStorage
	objectives  *PostgresObjectivesStorage
	meals       *PostgresMealsStorage
	activities  *PostgresActivitiesStorage
	weights     *PostgresWeightsStorage
	medications *PostgresMedicationsStorage
	symptoms    *PostgresSymptomsStorage
	reports     *PostgresReportsStorage
}

// New connects, pings and makes sure the default owner profile exists.
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	ps := &PostgresStorage{
		pool:        pool,
		users:       NewPostgresUsersStorage(pool),
		objectives:  NewPostgresObjectivesStorage(pool),
		meals:       NewPostgresMealsStorage(pool),
		activities:  NewPostgresActivitiesStorage(pool),
		weights:     NewPostgresWeightsStorage(pool),
		medications: NewPostgresMedicationsStorage(pool),
		symptoms:    NewPostgresSymptomsStorage(pool),
		reports:     NewPostgresReportsStorage(pool),
	}

	if err := ps.ensureOwnerProfile(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure owner profile: %w", err)
	}

	return ps, nil
}

func (p *PostgresStorage) ensureOwnerProfile(ctx context.Context) error {
	query := `
		INSERT INTO profiles (id, owner_user_id, type, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT DO NOTHING
	`

	now := time.Now()
	_, err := p.pool.Exec(ctx, query, uuid.New(), "default", "owner", "Me", now, now)
	return err
}

const profileColumns = `id, owner_user_id, type, name, height_cm, to_char(birth_date, 'YYYY-MM-DD'),
		sex, activity_level, created_at, updated_at`

func scanProfile(row pgx.Row, prof *storage.Profile) error {
	return row.Scan(
		&prof.ID,
		&prof.OwnerUserID,
		&prof.Type,
		&prof.Name,
		&prof.HeightCm,
		&prof.BirthDate,
		&prof.Sex,
		&prof.ActivityLevel,
		&prof.CreatedAt,
		&prof.UpdatedAt,
	)
}

func (p *PostgresStorage) ListProfiles(ctx context.Context) ([]storage.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at ASC`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []storage.Profile{}
	for rows.Next() {
		var prof storage.Profile
		if err := scanProfile(rows, &prof); err != nil {
			return nil, err
		}
		profiles = append(profiles, prof)
	}

	return profiles, rows.Err()
}

func (p *PostgresStorage) GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	var prof storage.Profile
	err := scanProfile(p.pool.QueryRow(ctx, query, id), &prof)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &prof, nil
}

func (p *PostgresStorage) CreateProfile(ctx context.Context, profile *storage.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	query := `
		INSERT INTO profiles (id, owner_user_id, type, name, height_cm, birth_date, sex, activity_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7, $8, $9, $10)
	`

	_, err := p.pool.Exec(ctx, query,
		profile.ID,
		profile.OwnerUserID,
		profile.Type,
		profile.Name,
		profile.HeightCm,
		profile.BirthDate,
		profile.Sex,
		profile.ActivityLevel,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	return err
}

func (p *PostgresStorage) UpdateProfile(ctx context.Context, profile *storage.Profile) error {
	profile.UpdatedAt = time.Now()

	query := `
		UPDATE profiles
		SET name = $2, height_cm = $3, birth_date = $4::date, sex = $5, activity_level = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := p.pool.Exec(ctx, query,
		profile.ID,
		profile.Name,
		profile.HeightCm,
		profile.BirthDate,
		profile.Sex,
		profile.ActivityLevel,
		profile.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (p *PostgresStorage) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	result, err := p.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

func (p *PostgresStorage) GetUsersStorage() *PostgresUsersStorage             { return p.users }
func (p *PostgresStorage) GetObjectivesStorage() *PostgresObjectivesStorage   { return p.objectives }
func (p *PostgresStorage) GetMealsStorage() *PostgresMealsStorage             { return p.meals }
func (p *PostgresStorage) GetActivitiesStorage() *PostgresActivitiesStorage   { return p.activities }
func (p *PostgresStorage) GetWeightsStorage() *PostgresWeightsStorage         { return p.weights }
func (p *PostgresStorage) GetMedicationsStorage() *PostgresMedicationsStorage { return p.medications }
func (p *PostgresStorage) GetSymptomsStorage() *PostgresSymptomsStorage       { return p.symptoms }
func (p *PostgresStorage) GetReportsStorage() *PostgresReportsStorage         { return p.reports }

// dateBounds turns open range ends into sentinel dates so queries can always
// compare with $n::date.
func dateBounds(from, to string) (string, string) {
	if from == "" {
		from = "0001-01-01"
	}
	if to == "" {
		to = "9999-12-31"
	}
	return from, to
}

// execOne runs a statement that must touch exactly one row.
func execOne(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) error {
	result, err := pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
