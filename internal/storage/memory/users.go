package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/nafld-hub/internal/storage"
	"github.com/google/uuid"
)

type UsersMemoryStorage struct {
	mu      sync.RWMutex
	byEmail map[string]storage.User
}

func NewUsersMemoryStorage() *UsersMemoryStorage {
	return &UsersMemoryStorage{byEmail: make(map[string]storage.User)}
}

func (s *UsersMemoryStorage) CreateUser(ctx context.Context, user *storage.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := s.byEmail[key]; exists {
		return storage.ErrEmailTaken
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	s.byEmail[key] = *user
	return nil
}

func (s *UsersMemoryStorage) GetUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return &u, nil
}
