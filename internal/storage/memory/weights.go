package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
)

type WeightsMemoryStorage struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]storage.WeightEntry
}

func NewWeightsMemoryStorage() *WeightsMemoryStorage {
	return &WeightsMemoryStorage{entries: make(map[uuid.UUID]storage.WeightEntry)}
}

func (s *WeightsMemoryStorage) CreateWeight(ctx context.Context, w *storage.WeightEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	w.CreatedAt = time.Now()
	s.entries[w.ID] = *w
	return nil
}

func (s *WeightsMemoryStorage) GetWeight(ctx context.Context, id uuid.UUID) (*storage.WeightEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.entries[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &w, nil
}

func (s *WeightsMemoryStorage) DeleteWeight(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *WeightsMemoryStorage) ListWeights(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.WeightEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listLocked(profileID, from, to), nil
}

func (s *WeightsMemoryStorage) LatestWeight(ctx context.Context, profileID uuid.UUID, date string) (*storage.WeightEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.listLocked(profileID, "", date)
	if len(list) == 0 {
		return nil, nil
	}
	w := list[len(list)-1]
	return &w, nil
}

func (s *WeightsMemoryStorage) FirstWeight(ctx context.Context, profileID uuid.UUID) (*storage.WeightEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.listLocked(profileID, "", "")
	if len(list) == 0 {
		return nil, nil
	}
	w := list[0]
	return &w, nil
}

// listLocked returns entries ordered by date then creation time.
func (s *WeightsMemoryStorage) listLocked(profileID uuid.UUID, from, to string) []storage.WeightEntry {
	out := []storage.WeightEntry{}
	for _, w := range s.entries {
		if w.ProfileID == profileID && inRange(w.Date, from, to) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
