package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
)

type ActivitiesMemoryStorage struct {
	mu         sync.RWMutex
	activities map[uuid.UUID]storage.Activity
}

func NewActivitiesMemoryStorage() *ActivitiesMemoryStorage {
	return &ActivitiesMemoryStorage{activities: make(map[uuid.UUID]storage.Activity)}
}

func (s *ActivitiesMemoryStorage) CreateActivity(ctx context.Context, a *storage.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	s.activities[a.ID] = *a
	return nil
}

func (s *ActivitiesMemoryStorage) GetActivity(ctx context.Context, id uuid.UUID) (*storage.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.activities[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &a, nil
}

func (s *ActivitiesMemoryStorage) DeleteActivity(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.activities[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.activities, id)
	return nil
}

func (s *ActivitiesMemoryStorage) ListActivities(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []storage.Activity{}
	for _, a := range s.activities {
		if a.ProfileID == profileID && inRange(a.Date, from, to) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *ActivitiesMemoryStorage) ActivityDailyTotals(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.ActivityDayTotals, error) {
	list, err := s.ListActivities(ctx, profileID, from, to)
	if err != nil {
		return nil, err
	}

	var out []storage.ActivityDayTotals
	for _, a := range list {
		if len(out) == 0 || out[len(out)-1].Date != a.Date {
			out = append(out, storage.ActivityDayTotals{Date: a.Date})
		}
		t := &out[len(out)-1]
		t.Sessions++
		t.Minutes += a.DurationMinutes
		t.CaloriesKcal += a.CaloriesKcal
		if a.Kind == "walk" {
			t.Walks++
			if a.DistanceKm != nil {
				t.WalkKm += *a.DistanceKm
			}
		}
	}
	return out, nil
}
