package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/letsssgooo/cbtquiz/internal/domain/models"
	"github.com/letsssgooo/cbtquiz/internal/quiz"
)

// MemoryStorage реализует Storage в памяти. Данные живут до перезапуска процесса.
type MemoryStorage struct {
	sessions map[string]*quiz.Session
	results  map[string][]*models.ResultModel // ключ - sessionID
	mu       sync.RWMutex
}

// NewMemoryStorage создаёт новый MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		sessions: make(map[string]*quiz.Session),
		results:  make(map[string][]*models.ResultModel),
	}
}

// SaveSession сохраняет копию сессии.
func (s *MemoryStorage) SaveSession(_ context.Context, id string, session *quiz.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = session.Clone()

	return nil
}

// GetSession возвращает копию сессии по ID.
func (s *MemoryStorage) GetSession(_ context.Context, id string) (*quiz.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	return session.Clone(), nil
}

// DeleteSession удаляет сессию и её результаты.
func (s *MemoryStorage) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	delete(s.results, id)

	return nil
}

// SaveResult сохраняет результат экзамена.
func (s *MemoryStorage) SaveResult(_ context.Context, result *models.ResultModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *result
	s.results[result.SessionID] = append(s.results[result.SessionID], &stored)

	return nil
}

// ListResults возвращает результаты сессии, новые первыми.
func (s *MemoryStorage) ListResults(_ context.Context, sessionID string) ([]*models.ResultModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.results[sessionID]
	results := make([]*models.ResultModel, len(stored))
	copy(results, stored)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	return results, nil
}

// Close ничего не делает.
func (s *MemoryStorage) Close() error {
	return nil
}
