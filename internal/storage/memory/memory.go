package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
)

// MemoryStorage keeps everything in process memory. Profiles live on the
// root; each domain has its own sub-store reachable through a getter.
type MemoryStorage struct {
	mu          sync.RWMutex
	profiles    map[uuid.UUID]storage.Profile
	users       *UsersMemoryStorage
	objectives  *ObjectivesMemoryStorage
	meals       *MealsMemoryStorage
	activities  *ActivitiesMemoryStorage
	weights     *WeightsMemoryStorage
	medications *MedicationsMemoryStorage
	symptoms    *SymptomsMemoryStorage
	reports     *ReportsMemoryStorage
}

// New creates a MemoryStorage with an owner profile for the "default" user.
func New() *MemoryStorage {
	now := time.Now()
	owner := storage.Profile{
		ID:          uuid.New(),
		OwnerUserID: "default",
		Type:        "owner",
		Name:        "Me",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return &MemoryStorage{
		profiles:    map[uuid.UUID]storage.Profile{owner.ID: owner},
		users:       NewUsersMemoryStorage(),
		objectives:  NewObjectivesMemoryStorage(),
		meals:       NewMealsMemoryStorage(),
		activities:  NewActivitiesMemoryStorage(),
		weights:     NewWeightsMemoryStorage(),
		medications: NewMedicationsMemoryStorage(),
		symptoms:    NewSymptomsMemoryStorage(),
		reports:     NewReportsMemoryStorage(),
	}
}

func (m *MemoryStorage) ListProfiles(ctx context.Context) ([]storage.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profiles := make([]storage.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
	})

	return profiles, nil
}

func (m *MemoryStorage) GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return &p, nil
}

func (m *MemoryStorage) CreateProfile(ctx context.Context, profile *storage.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	m.profiles[profile.ID] = *profile

	return nil
}

func (m *MemoryStorage) UpdateProfile(ctx context.Context, profile *storage.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[profile.ID]; !ok {
		return storage.ErrNotFound
	}

	profile.UpdatedAt = time.Now()
	m.profiles[profile.ID] = *profile

	return nil
}

func (m *MemoryStorage) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[id]; !ok {
		return storage.ErrNotFound
	}

	delete(m.profiles, id)

	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

func (m *MemoryStorage) GetUsersStorage() *UsersMemoryStorage             { return m.users }
func (m *MemoryStorage) GetObjectivesStorage() *ObjectivesMemoryStorage   { return m.objectives }
func (m *MemoryStorage) GetMealsStorage() *MealsMemoryStorage             { return m.meals }
func (m *MemoryStorage) GetActivitiesStorage() *ActivitiesMemoryStorage   { return m.activities }
func (m *MemoryStorage) GetWeightsStorage() *WeightsMemoryStorage         { return m.weights }
func (m *MemoryStorage) GetMedicationsStorage() *MedicationsMemoryStorage { return m.medications }
func (m *MemoryStorage) GetSymptomsStorage() *SymptomsMemoryStorage       { return m.symptoms }
func (m *MemoryStorage) GetReportsStorage() *ReportsMemoryStorage         { return m.reports }

// inRange compares YYYY-MM-DD strings lexically; empty bounds are open.
func inRange(date, from, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}
