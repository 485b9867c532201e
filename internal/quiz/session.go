package quiz

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/letsssgooo/cbtquiz/internal/questions"
)

// NewSession создаёт пустую сессию в статусе "not_started".
func NewSession() *Session {
	return &Session{
		Answers: make(map[int]int),
		Status:  StatusNotStarted,
	}
}

// Sample выбирает n номеров без повторений.
// Если номеров не больше n, возвращаются все номера в случайном порядке.
func Sample(numbers []int, n int, rng *rand.Rand) []int {
	picked := make([]int, len(numbers))
	copy(picked, numbers)

	rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})

	if n >= 0 && len(picked) > n {
		picked = picked[:n]
	}

	return picked
}

// Start начинает новый экзамен: выбирает блок вопросов и сбрасывает ответы.
// Допустим из любого статуса.
func (s *Session) Start(dataset *questions.Dataset, size int, rng *rand.Rand) error {
	if dataset == nil || dataset.Len() == 0 {
		return ErrEmptyPool
	}

	if size <= 0 {
		size = DefaultExamSize
	}

	s.Dataset = dataset.Name
	s.Numbers = Sample(dataset.Numbers(), size, rng)
	s.Answers = make(map[int]int, len(s.Numbers))
	s.Status = StatusInProgress
	s.StartedAt = time.Now()
	s.FinishedAt = time.Time{}

	return nil
}

// Answer запоминает выбор пользователя. Повторный ответ перезаписывает прежний.
func (s *Session) Answer(number, pick int) error {
	if s.Status != StatusInProgress {
		return ErrNotInProgress
	}

	if !s.contains(number) {
		return fmt.Errorf("%w: %d", ErrUnknownQuestion, number)
	}

	if !ValidPick(pick) {
		return fmt.Errorf("%w, got %d", ErrInvalidPick, pick)
	}

	if s.Answers == nil {
		s.Answers = make(map[int]int)
	}
	s.Answers[number] = pick

	return nil
}

// End завершает экзамен.
func (s *Session) End() error {
	if s.Status != StatusInProgress {
		return ErrNotInProgress
	}

	s.Status = StatusCompleted
	s.FinishedAt = time.Now()

	return nil
}

// Completed сообщает, завершён ли экзамен.
func (s *Session) Completed() bool {
	return s.Status == StatusCompleted
}

// Started сообщает, выбран ли блок вопросов.
func (s *Session) Started() bool {
	return s.Status != StatusNotStarted && s.Status != "" && len(s.Numbers) != 0
}

// Len возвращает размер экзаменационного блока.
func (s *Session) Len() int {
	return len(s.Numbers)
}

// NumberAt возвращает номер вопроса по позиции в блоке (1-based).
func (s *Session) NumberAt(position int) (int, bool) {
	if position < 1 || position > len(s.Numbers) {
		return 0, false
	}

	return s.Numbers[position-1], true
}

// Pick возвращает сохранённый выбор или 1, если ответа ещё нет.
func (s *Session) Pick(number int) int {
	if pick, ok := s.Answers[number]; ok {
		return pick
	}

	return 1
}

// Answered возвращает количество отвеченных вопросов.
func (s *Session) Answered() int {
	return len(s.Answers)
}

func (s *Session) contains(number int) bool {
	for _, n := range s.Numbers {
		if n == number {
			return true
		}
	}

	return false
}

// Grade подсчитывает результат завершённого экзамена.
// Вопросы без известного правильного ответа не учитываются как ошибки,
// вопросы без ответа пользователя считаются ошибкой.
func Grade(s *Session, dataset *questions.Dataset) (*Result, error) {
	if !s.Completed() {
		return nil, ErrNotCompleted
	}

	result := &Result{
		Dataset:  s.Dataset,
		Total:    len(s.Numbers),
		Wrong:    make([]WrongEntry, 0),
		Duration: s.FinishedAt.Sub(s.StartedAt),
	}

	for _, number := range s.Numbers {
		row, ok := dataset.Row(number)
		if !ok {
			result.Unknown++
			continue
		}

		correct, ok := row.Answer()
		if !ok {
			result.Unknown++
			continue
		}

		picked := s.Answers[number]
		if picked != correct {
			result.Wrong = append(result.Wrong, WrongEntry{
				Number:  number,
				Picked:  picked,
				Correct: correct,
			})
		}
	}

	result.Score = result.Total - len(result.Wrong)

	return result, nil
}

// Clone возвращает независимую копию сессии.
func (s *Session) Clone() *Session {
	clone := *s

	clone.Numbers = append([]int(nil), s.Numbers...)
	clone.Answers = make(map[int]int, len(s.Answers))
	for number, pick := range s.Answers {
		clone.Answers[number] = pick
	}

	return &clone
}
