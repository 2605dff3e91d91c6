package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
)

type ObjectivesMemoryStorage struct {
	mu    sync.RWMutex
	items map[uuid.UUID][]storage.Objective // by profile, oldest first
}

func NewObjectivesMemoryStorage() *ObjectivesMemoryStorage {
	return &ObjectivesMemoryStorage{items: make(map[uuid.UUID][]storage.Objective)}
}

func (s *ObjectivesMemoryStorage) GetActive(ctx context.Context, profileID uuid.UUID) (*storage.Objective, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.items[profileID]
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].SupersededAt == nil {
			obj := list[i]
			return &obj, nil
		}
	}
	return nil, nil
}

func (s *ObjectivesMemoryStorage) CreateObjective(ctx context.Context, obj *storage.Objective) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	list := s.items[obj.ProfileID]
	for i := range list {
		if list[i].SupersededAt == nil {
			t := now
			list[i].SupersededAt = &t
		}
	}

	if obj.ID == uuid.Nil {
		obj.ID = uuid.New()
	}
	obj.CreatedAt = now
	obj.SupersededAt = nil
	s.items[obj.ProfileID] = append(list, *obj)
	return nil
}

func (s *ObjectivesMemoryStorage) ListObjectives(ctx context.Context, profileID uuid.UUID, limit int) ([]storage.Objective, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.items[profileID]
	out := make([]storage.Objective, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i])
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
