package storage

import (
	"context"
	"sync"

	"github.com/smart-sa/smorti/internal/domain/entity"
	"github.com/smart-sa/smorti/internal/domain/repository"
)

type memoryChatRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
}

// NewMemoryChatRepository keeps sessions in process memory. The default
// store for the CLI and for tests; Redis replaces it when REDIS_URL is set.
func NewMemoryChatRepository() repository.ChatRepository {
	return &memoryChatRepository{sessions: make(map[string]*entity.Session)}
}

func (m *memoryChatRepository) GetOrCreate(ctx context.Context, sessionID string) (*entity.Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		return s, nil
	}
	s = entity.NewSession(sessionID)
	m.sessions[sessionID] = s
	return s, nil
}

func (m *memoryChatRepository) Save(ctx context.Context, s *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memoryChatRepository) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}
