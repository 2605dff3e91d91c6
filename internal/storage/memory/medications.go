package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
)

type MedicationsMemoryStorage struct {
	mu          sync.RWMutex
	medications map[uuid.UUID]storage.Medication
	intakes     map[string]storage.MedicationIntake // key: medicationID:date
}

func NewMedicationsMemoryStorage() *MedicationsMemoryStorage {
	return &MedicationsMemoryStorage{
		medications: make(map[uuid.UUID]storage.Medication),
		intakes:     make(map[string]storage.MedicationIntake),
	}
}

func (s *MedicationsMemoryStorage) CreateMedication(ctx context.Context, m *storage.Medication) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	s.medications[m.ID] = *m
	return nil
}

func (s *MedicationsMemoryStorage) GetMedication(ctx context.Context, id uuid.UUID) (*storage.Medication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.medications[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &m, nil
}

func (s *MedicationsMemoryStorage) ListMedications(ctx context.Context, profileID uuid.UUID) ([]storage.Medication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []storage.Medication{}
	for _, m := range s.medications {
		if m.ProfileID == profileID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MedicationsMemoryStorage) UpdateMedication(ctx context.Context, m *storage.Medication) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.medications[m.ID]; !ok {
		return storage.ErrNotFound
	}
	m.UpdatedAt = time.Now()
	s.medications[m.ID] = *m
	return nil
}

func (s *MedicationsMemoryStorage) DeleteMedication(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.medications[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.medications, id)
	for key, in := range s.intakes {
		if in.MedicationID == id {
			delete(s.intakes, key)
		}
	}
	return nil
}

func (s *MedicationsMemoryStorage) UpsertIntake(ctx context.Context, intake *storage.MedicationIntake) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := intake.MedicationID.String() + ":" + intake.Date
	now := time.Now()
	if existing, ok := s.intakes[key]; ok {
		intake.ID = existing.ID
		intake.CreatedAt = existing.CreatedAt
	} else {
		if intake.ID == uuid.Nil {
			intake.ID = uuid.New()
		}
		intake.CreatedAt = now
	}
	intake.UpdatedAt = now
	s.intakes[key] = *intake
	return nil
}

func (s *MedicationsMemoryStorage) ListIntakes(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.MedicationIntake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []storage.MedicationIntake{}
	for _, in := range s.intakes {
		if in.ProfileID == profileID && inRange(in.Date, from, to) {
			out = append(out, in)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].MedicationID.String() < out[j].MedicationID.String()
	})
	return out, nil
}
