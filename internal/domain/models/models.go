package models

import (
	"time"

	"github.com/letsssgooo/cbtquiz/internal/quiz"
)

// Модели, которые хранилища принимают и отдают наружу.
// Движок заполняет модель результатом проверки и передаёт её в хранилище.

// ResultModel определяет модель для таблицы с результатами экзаменов
type ResultModel struct {
	ID        string
	SessionID string
	Dataset   string
	Score     int
	Total     int
	Unknown   int
	Wrong     []quiz.WrongEntry
	CreatedAt time.Time
}

// NewResultModel собирает модель из результата проверки.
func NewResultModel(id, sessionID string, result *quiz.Result) *ResultModel {
	return &ResultModel{
		ID:        id,
		SessionID: sessionID,
		Dataset:   result.Dataset,
		Score:     result.Score,
		Total:     result.Total,
		Unknown:   result.Unknown,
		Wrong:     result.Wrong,
		CreatedAt: time.Now(),
	}
}

// Result восстанавливает итог проверки из сохранённой модели.
func (m *ResultModel) Result() *quiz.Result {
	wrong := make([]quiz.WrongEntry, len(m.Wrong))
	copy(wrong, m.Wrong)

	return &quiz.Result{
		Dataset: m.Dataset,
		Total:   m.Total,
		Score:   m.Score,
		Unknown: m.Unknown,
		Wrong:   wrong,
	}
}
