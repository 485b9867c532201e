package storage

import (
	"context"
	"errors"

	"github.com/letsssgooo/cbtquiz/internal/domain/models"
	"github.com/letsssgooo/cbtquiz/internal/quiz"
)

// ErrNotFound возвращается, если записи нет в хранилище.
var ErrNotFound = errors.New("not found in storage")

// Storage определяет интерфейс для хранения экзаменационных сессий и результатов.
type Storage interface {
	// SaveSession сохраняет снимок сессии пользователя.
	SaveSession(ctx context.Context, id string, session *quiz.Session) error

	// GetSession возвращает сессию по ID или ErrNotFound.
	GetSession(ctx context.Context, id string) (*quiz.Session, error)

	// DeleteSession удаляет сессию.
	DeleteSession(ctx context.Context, id string) error

	// SaveResult сохраняет результат проверенного экзамена.
	SaveResult(ctx context.Context, result *models.ResultModel) error

	// ListResults возвращает результаты сессии, новые первыми.
	ListResults(ctx context.Context, sessionID string) ([]*models.ResultModel, error)

	// Close освобождает ресурсы хранилища.
	Close() error
}
