package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
)

type MealsMemoryStorage struct {
	mu    sync.RWMutex
	meals map[uuid.UUID]storage.Meal
}

func NewMealsMemoryStorage() *MealsMemoryStorage {
	return &MealsMemoryStorage{meals: make(map[uuid.UUID]storage.Meal)}
}

func (s *MealsMemoryStorage) CreateMeal(ctx context.Context, meal *storage.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if meal.ID == uuid.Nil {
		meal.ID = uuid.New()
	}
	now := time.Now()
	meal.CreatedAt = now
	meal.UpdatedAt = now
	s.meals[meal.ID] = *meal
	return nil
}

func (s *MealsMemoryStorage) GetMeal(ctx context.Context, id uuid.UUID) (*storage.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meals[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &m, nil
}

func (s *MealsMemoryStorage) UpdateMeal(ctx context.Context, meal *storage.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meals[meal.ID]; !ok {
		return storage.ErrNotFound
	}
	meal.UpdatedAt = time.Now()
	s.meals[meal.ID] = *meal
	return nil
}

func (s *MealsMemoryStorage) DeleteMeal(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meals[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.meals, id)
	return nil
}

func (s *MealsMemoryStorage) ListMeals(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []storage.Meal{}
	for _, m := range s.meals {
		if m.ProfileID == profileID && inRange(m.Date, from, to) {
			out = append(out, m)
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

func (s *MealsMemoryStorage) MealDailyTotals(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.MealDayTotals, error) {
	meals, err := s.ListMeals(ctx, profileID, from, to)
	if err != nil {
		return nil, err
	}

	var out []storage.MealDayTotals
	for _, m := range meals {
		if len(out) == 0 || out[len(out)-1].Date != m.Date {
			out = append(out, storage.MealDayTotals{Date: m.Date})
		}
		t := &out[len(out)-1]
		t.Meals++
		t.CaloriesKcal += m.CaloriesKcal
		t.ProteinG += m.ProteinG
		t.CarbsG += m.CarbsG
		t.FatG += m.FatG
		t.SugarG += m.SugarG
		t.FiberG += m.FiberG
		t.SaturatedFatG += m.SaturatedFatG
	}
	return out, nil
}
