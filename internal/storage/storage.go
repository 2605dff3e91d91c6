package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Profile is a person whose health is tracked. Each user has one owner
// profile and may add guest profiles.
type Profile struct {
	ID            uuid.UUID
	OwnerUserID   string // "default" when auth is disabled
	Type          string // "owner" or "guest"
	Name          string
	HeightCm      *float64
	BirthDate     *string // YYYY-MM-DD
	Sex           string  // "male", "female" or ""
	ActivityLevel string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Storage covers profiles and the connection lifecycle.
type Storage interface {
	ListProfiles(ctx context.Context) ([]Profile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)
	CreateProfile(ctx context.Context, profile *Profile) error
	UpdateProfile(ctx context.Context, profile *Profile) error
	DeleteProfile(ctx context.Context, id uuid.UUID) error
	Close() error
}

// User is a password account.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type UsersStorage interface {
	// CreateUser fails with ErrEmailTaken on a duplicate email.
	CreateUser(ctx context.Context, user *User) error

	// GetUserByEmail returns nil, nil when no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// Objective is a profile's target set. At most one row per profile has a nil
// SupersededAt.
type Objective struct {
	ID              uuid.UUID
	ProfileID       uuid.UUID
	CaloriesKcal    float64
	ProteinMinG     float64
	FiberMinG       float64
	CarbsG          float64
	FatG            float64
	SugarMaxG       float64
	SatFatMaxG      float64
	CapMargin       float64
	ActivityMinutes float64
	ActivityKcal    float64
	TargetWeightKg  *float64
	CreatedAt       time.Time
	SupersededAt    *time.Time
}

type ObjectivesStorage interface {
	// GetActive returns nil, nil when the profile has no objective yet.
	GetActive(ctx context.Context, profileID uuid.UUID) (*Objective, error)

	// CreateObjective stores obj as active and supersedes the previous one.
	CreateObjective(ctx context.Context, obj *Objective) error

	// ListObjectives returns objectives newest first.
	ListObjectives(ctx context.Context, profileID uuid.UUID, limit int) ([]Objective, error)
}

// Meal is one logged meal with its nutrition breakdown.
type Meal struct {
	ID            uuid.UUID
	ProfileID     uuid.UUID
	Date          string // YYYY-MM-DD
	MealType      string // breakfast, lunch, dinner, snack
	Title         string
	CaloriesKcal  float64
	ProteinG      float64
	CarbsG        float64
	FatG          float64
	SugarG        float64
	FiberG        float64
	SaturatedFatG float64
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MealDayTotals is the per-day sum of meals.
type MealDayTotals struct {
	Date          string
	Meals         int
	CaloriesKcal  float64
	ProteinG      float64
	CarbsG        float64
	FatG          float64
	SugarG        float64
	FiberG        float64
	SaturatedFatG float64
}

type MealsStorage interface {
	CreateMeal(ctx context.Context, meal *Meal) error
	GetMeal(ctx context.Context, id uuid.UUID) (*Meal, error)
	UpdateMeal(ctx context.Context, meal *Meal) error
	DeleteMeal(ctx context.Context, id uuid.UUID) error
	ListMeals(ctx context.Context, profileID uuid.UUID, from, to string) ([]Meal, error)

	// MealDailyTotals returns one row per day that has meals, ordered by date.
	MealDailyTotals(ctx context.Context, profileID uuid.UUID, from, to string) ([]MealDayTotals, error)
}

// Activity is one exercise session.
type Activity struct {
	ID              uuid.UUID
	ProfileID       uuid.UUID
	Date            string
	Kind            string // walk, run, cycling, swimming, strength, other
	DurationMinutes float64
	DistanceKm      *float64
	CaloriesKcal    float64
	Notes           *string
	CreatedAt       time.Time
}

// ActivityDayTotals is the per-day sum of activities.
type ActivityDayTotals struct {
	Date         string
	Sessions     int
	Minutes      float64
	CaloriesKcal float64
	Walks        int
	WalkKm       float64
}

type ActivitiesStorage interface {
	CreateActivity(ctx context.Context, a *Activity) error
	GetActivity(ctx context.Context, id uuid.UUID) (*Activity, error)
	DeleteActivity(ctx context.Context, id uuid.UUID) error
	ListActivities(ctx context.Context, profileID uuid.UUID, from, to string) ([]Activity, error)
	ActivityDailyTotals(ctx context.Context, profileID uuid.UUID, from, to string) ([]ActivityDayTotals, error)
}

// WeightEntry is a weigh-in.
type WeightEntry struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	Date      string
	WeightKg  float64
	Notes     *string
	CreatedAt time.Time
}

type WeightsStorage interface {
	CreateWeight(ctx context.Context, w *WeightEntry) error
	GetWeight(ctx context.Context, id uuid.UUID) (*WeightEntry, error)
	DeleteWeight(ctx context.Context, id uuid.UUID) error
	ListWeights(ctx context.Context, profileID uuid.UUID, from, to string) ([]WeightEntry, error)

	// LatestWeight returns the newest entry dated on or before date, or nil, nil.
	LatestWeight(ctx context.Context, profileID uuid.UUID, date string) (*WeightEntry, error)

	// FirstWeight returns the oldest entry, or nil, nil.
	FirstWeight(ctx context.Context, profileID uuid.UUID) (*WeightEntry, error)
}

// Medication is a prescribed drug or supplement taken daily.
type Medication struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	Name      string
	Dosage    *string
	Active    bool
	// DeactivatedAt is set while Active is false. Days from then on are not
	// scheduled.
	DeactivatedAt *time.Time
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MedicationIntake marks a medication as taken or skipped on a day.
type MedicationIntake struct {
	ID           uuid.UUID
	ProfileID    uuid.UUID
	MedicationID uuid.UUID
	Date         string
	Status       string // "taken" or "skipped"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type MedicationsStorage interface {
	CreateMedication(ctx context.Context, m *Medication) error
	GetMedication(ctx context.Context, id uuid.UUID) (*Medication, error)
	ListMedications(ctx context.Context, profileID uuid.UUID) ([]Medication, error)
	UpdateMedication(ctx context.Context, m *Medication) error

	// DeleteMedication removes the medication and its intakes.
	DeleteMedication(ctx context.Context, id uuid.UUID) error

	// UpsertIntake replaces the status for (medication, date).
	UpsertIntake(ctx context.Context, intake *MedicationIntake) error
	ListIntakes(ctx context.Context, profileID uuid.UUID, from, to string) ([]MedicationIntake, error)
}

// Symptom is a daily self-report of one symptom kind.
type Symptom struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	Date      string
	Kind      string
	Severity  int
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SymptomsStorage interface {
	// UpsertSymptom replaces the entry for (profile, date, kind).
	UpsertSymptom(ctx context.Context, s *Symptom) error
	GetSymptom(ctx context.Context, id uuid.UUID) (*Symptom, error)
	ListSymptoms(ctx context.Context, profileID uuid.UUID, from, to string) ([]Symptom, error)
	DeleteSymptom(ctx context.Context, id uuid.UUID) error
}

// ReportMeta describes an exported file. The bytes live in the blob store
// under ObjectKey.
type ReportMeta struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	Format    string // "pdf" or "csv"
	FromDate  string
	ToDate    string
	ObjectKey *string
	SizeBytes int64
	Status    string // "ready" or "failed"
	Error     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ReportsStorage interface {
	CreateReport(ctx context.Context, report *ReportMeta) error
	GetReport(ctx context.Context, id uuid.UUID) (*ReportMeta, error)
	ListReports(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]ReportMeta, error)
	DeleteReport(ctx context.Context, id uuid.UUID) error
}
