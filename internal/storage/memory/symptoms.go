package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
)

type SymptomsMemoryStorage struct {
	mu       sync.RWMutex
	symptoms map[uuid.UUID]storage.Symptom
	index    map[string]uuid.UUID // profileID:date:kind -> id
}

func NewSymptomsMemoryStorage() *SymptomsMemoryStorage {
	return &SymptomsMemoryStorage{
		symptoms: make(map[uuid.UUID]storage.Symptom),
		index:    make(map[string]uuid.UUID),
	}
}

func symptomKey(profileID uuid.UUID, date, kind string) string {
	return profileID.String() + ":" + date + ":" + kind
}

func (s *SymptomsMemoryStorage) UpsertSymptom(ctx context.Context, sym *storage.Symptom) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := symptomKey(sym.ProfileID, sym.Date, sym.Kind)
	now := time.Now()
	if id, ok := s.index[key]; ok {
		existing := s.symptoms[id]
		sym.ID = existing.ID
		sym.CreatedAt = existing.CreatedAt
	} else {
		if sym.ID == uuid.Nil {
			sym.ID = uuid.New()
		}
		sym.CreatedAt = now
		s.index[key] = sym.ID
	}
	sym.UpdatedAt = now
	s.symptoms[sym.ID] = *sym
	return nil
}

func (s *SymptomsMemoryStorage) GetSymptom(ctx context.Context, id uuid.UUID) (*storage.Symptom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sym, ok := s.symptoms[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &sym, nil
}

func (s *SymptomsMemoryStorage) ListSymptoms(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.Symptom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []storage.Symptom{}
	for _, sym := range s.symptoms {
		if sym.ProfileID == profileID && inRange(sym.Date, from, to) {
			out = append(out, sym)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Kind < out[j].Kind
	})
	return out, nil
}

func (s *SymptomsMemoryStorage) DeleteSymptom(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sym, ok := s.symptoms[id]
	if !ok {
		return storage.ErrNotFound
	}
	delete(s.symptoms, id)
	delete(s.index, symptomKey(sym.ProfileID, sym.Date, sym.Kind))
	return nil
}
