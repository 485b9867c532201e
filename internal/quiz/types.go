package quiz

import (
	"errors"
	"time"
)

// DefaultExamSize — размер экзаменационного блока по умолчанию.
const DefaultExamSize = 80

// Status — статус экзаменационной сессии.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Verdict — результат проверки одного ответа.
type Verdict string

const (
	VerdictCorrect Verdict = "correct"
	VerdictWrong   Verdict = "wrong"
	VerdictUnknown Verdict = "unknown"
)

// Ошибки экзаменационной сессии
var (
	ErrNotInProgress   = errors.New("exam is not in progress")
	ErrNotCompleted    = errors.New("exam is not completed")
	ErrUnknownQuestion = errors.New("question is not part of the exam")
	ErrInvalidPick     = errors.New("pick must be between 1 and 4")
	ErrEmptyPool       = errors.New("no questions to sample from")
)

// Evaluation — результат проверки ответа в режиме практики.
type Evaluation struct {
	Verdict Verdict
	Picked  int
	Correct int // 0, если правильный ответ неизвестен
}

// Session — состояние экзамена одного пользователя.
type Session struct {
	Dataset    string      `json:"dataset"`
	Numbers    []int       `json:"numbers"`
	Answers    map[int]int `json:"answers"`
	Status     Status      `json:"status"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
}

// WrongEntry — строка списка ошибок (номер / выбор / правильный ответ).
type WrongEntry struct {
	Number  int `json:"number"`
	Picked  int `json:"picked"` // 0 — вопрос без ответа
	Correct int `json:"correct"`
}

// Result содержит итог проверки экзамена.
type Result struct {
	Dataset  string        `json:"dataset"`
	Total    int           `json:"total"`
	Score    int           `json:"score"`
	Unknown  int           `json:"unknown"`
	Wrong    []WrongEntry  `json:"wrong"`
	Duration time.Duration `json:"duration"`
}
