package engine

import (
	"context"
	"errors"

	"github.com/letsssgooo/cbtquiz/internal/domain/models"
	"github.com/letsssgooo/cbtquiz/internal/questions"
	"github.com/letsssgooo/cbtquiz/internal/quiz"
)

// ErrQuestionNotFound возвращается, если в датасете нет вопроса с таким номером.
var ErrQuestionNotFound = errors.New("question not found")

// QuizEngine определяет основной интерфейс для работы с датасетами и экзаменами.
type QuizEngine interface { //nolint:revive
	// Datasets возвращает имена доступных датасетов.
	Datasets() ([]string, error)

	// Dataset загружает датасет по имени.
	Dataset(name string) (*questions.Dataset, error)

	// Grade проверяет ответ в режиме практики.
	Grade(dataset string, number, pick int) (questions.Row, quiz.Evaluation, error)

	// Session возвращает экзаменационную сессию пользователя.
	// Для нового пользователя возвращается пустая сессия.
	Session(ctx context.Context, sessionID string) (*quiz.Session, error)

	// StartExam начинает новый экзамен по датасету.
	StartExam(ctx context.Context, sessionID, dataset string) (*quiz.Session, error)

	// AnswerExam запоминает ответ на вопрос экзамена.
	AnswerExam(ctx context.Context, sessionID string, number, pick int) (*quiz.Session, error)

	// EndExam завершает экзамен и сохраняет результат.
	EndExam(ctx context.Context, sessionID string) (*quiz.Result, error)

	// Result возвращает результат завершённого экзамена.
	Result(ctx context.Context, sessionID string) (*quiz.Result, error)

	// Results возвращает сохранённые результаты пользователя.
	Results(ctx context.Context, sessionID string) ([]*models.ResultModel, error)

	// ExportCSV экспортирует список ошибок экзамена в CSV.
	ExportCSV(ctx context.Context, sessionID string) ([]byte, error)

	// ExportXLSX экспортирует результат экзамена в XLSX.
	ExportXLSX(ctx context.Context, sessionID string) ([]byte, error)

	// Reset удаляет сессию пользователя.
	Reset(ctx context.Context, sessionID string) error
}
