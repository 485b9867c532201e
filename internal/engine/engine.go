package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/letsssgooo/cbtquiz/internal/domain/models"
	"github.com/letsssgooo/cbtquiz/internal/questions"
	"github.com/letsssgooo/cbtquiz/internal/quiz"
	"github.com/letsssgooo/cbtquiz/internal/storage"
)

var _ QuizEngine = (*Engine)(nil)

// Engine реализует QuizEngine.
type Engine struct {
	library  *questions.Library
	storage  storage.Storage
	examSize int
	rng      *rand.Rand
	mu       sync.Mutex
}

// NewEngine создаёт новый Engine.
func NewEngine(library *questions.Library, st storage.Storage, examSize int) *Engine {
	if examSize <= 0 {
		examSize = quiz.DefaultExamSize
	}

	return &Engine{
		library:  library,
		storage:  st,
		examSize: examSize,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRand подменяет генератор случайных чисел (для воспроизводимых выборок).
func (e *Engine) SetRand(rng *rand.Rand) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rng = rng
}

// ExamSize возвращает максимальный размер экзаменационного блока.
func (e *Engine) ExamSize() int {
	return e.examSize
}

// Datasets возвращает имена доступных датасетов.
func (e *Engine) Datasets() ([]string, error) {
	return e.library.List()
}

// Dataset загружает датасет по имени.
func (e *Engine) Dataset(name string) (*questions.Dataset, error) {
	return e.library.Get(name)
}

// Grade проверяет ответ в режиме практики.
func (e *Engine) Grade(dataset string, number, pick int) (questions.Row, quiz.Evaluation, error) {
	if !quiz.ValidPick(pick) {
		return questions.Row{}, quiz.Evaluation{}, fmt.Errorf("%w, got %d", quiz.ErrInvalidPick, pick)
	}

	row, err := e.row(dataset, number)
	if err != nil {
		return questions.Row{}, quiz.Evaluation{}, err
	}

	return row, quiz.Evaluate(row, pick), nil
}

func (e *Engine) row(name string, number int) (questions.Row, error) {
	dataset, err := e.library.Get(name)
	if err != nil {
		return questions.Row{}, err
	}

	row, ok := dataset.Row(number)
	if !ok {
		return questions.Row{}, fmt.Errorf("%w: %s #%d", ErrQuestionNotFound, name, number)
	}

	return row, nil
}

// Session возвращает экзаменационную сессию пользователя.
func (e *Engine) Session(ctx context.Context, sessionID string) (*quiz.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.loadSession(ctx, sessionID)
}

func (e *Engine) loadSession(ctx context.Context, sessionID string) (*quiz.Session, error) {
	session, err := e.storage.GetSession(ctx, sessionID)
	if errors.Is(err, storage.ErrNotFound) {
		return quiz.NewSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	return session, nil
}

// StartExam начинает новый экзамен: новая выборка, прежние ответы сбрасываются.
func (e *Engine) StartExam(ctx context.Context, sessionID, name string) (*quiz.Session, error) {
	dataset, err := e.library.Get(name)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	session, err := e.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := session.Start(dataset, e.examSize, e.rng); err != nil {
		return nil, err
	}

	if err := e.storage.SaveSession(ctx, sessionID, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	slog.Debug("exam started", "session", sessionID, "dataset", name, "questions", session.Len())

	return session, nil
}

// AnswerExam запоминает ответ на вопрос экзамена.
func (e *Engine) AnswerExam(ctx context.Context, sessionID string, number, pick int) (*quiz.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, err := e.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := session.Answer(number, pick); err != nil {
		return nil, err
	}

	if err := e.storage.SaveSession(ctx, sessionID, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	return session, nil
}

// EndExam завершает экзамен, проверяет его и сохраняет результат.
func (e *Engine) EndExam(ctx context.Context, sessionID string) (*quiz.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, err := e.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := session.End(); err != nil {
		return nil, err
	}

	result, err := e.grade(session)
	if err != nil {
		return nil, err
	}

	if err := e.storage.SaveSession(ctx, sessionID, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	model := models.NewResultModel(uuid.NewString(), sessionID, result)
	if err := e.storage.SaveResult(ctx, model); err != nil {
		return nil, fmt.Errorf("save result: %w", err)
	}

	slog.Info("exam finished",
		"session", sessionID,
		"dataset", result.Dataset,
		"score", result.Score,
		"total", result.Total,
	)

	return result, nil
}

func (e *Engine) grade(session *quiz.Session) (*quiz.Result, error) {
	dataset, err := e.library.Get(session.Dataset)
	if err != nil {
		return nil, err
	}

	return quiz.Grade(session, dataset)
}

// Result возвращает результат завершённого экзамена в том виде, в каком он
// был сохранён при завершении. Правки CSV после экзамена на него не влияют.
func (e *Engine) Result(ctx context.Context, sessionID string) (*quiz.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, err := e.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.Completed() {
		return nil, quiz.ErrNotCompleted
	}

	stored, err := e.storage.ListResults(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	if len(stored) == 0 {
		slog.Warn("no stored result for completed exam, regrading", "session", sessionID)
		return e.grade(session)
	}

	result := stored[0].Result()
	result.Duration = session.FinishedAt.Sub(session.StartedAt)

	return result, nil
}

// Results возвращает сохранённые результаты пользователя, новые первыми.
func (e *Engine) Results(ctx context.Context, sessionID string) ([]*models.ResultModel, error) {
	return e.storage.ListResults(ctx, sessionID)
}

// ExportCSV экспортирует список ошибок экзамена в CSV.
func (e *Engine) ExportCSV(ctx context.Context, sessionID string) ([]byte, error) {
	result, err := e.Result(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return quiz.ExportCSV(result)
}

// ExportXLSX экспортирует результат экзамена в XLSX.
func (e *Engine) ExportXLSX(ctx context.Context, sessionID string) ([]byte, error) {
	result, err := e.Result(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return quiz.ExportXLSX(result)
}

// Reset удаляет сессию пользователя вместе с результатами.
func (e *Engine) Reset(ctx context.Context, sessionID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.storage.DeleteSession(ctx, sessionID)
}
