package storage

import (
	"encoding/json"
	"fmt"

	"github.com/letsssgooo/cbtquiz/internal/quiz"
)

// EncodeSession сериализует сессию для SQL-хранилищ.
func EncodeSession(session *quiz.Session) ([]byte, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}

	return data, nil
}

// DecodeSession восстанавливает сессию из JSON.
func DecodeSession(data []byte) (*quiz.Session, error) {
	session := quiz.NewSession()
	if err := json.Unmarshal(data, session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	if session.Answers == nil {
		session.Answers = make(map[int]int)
	}

	return session, nil
}

// EncodeWrong сериализует список ошибок результата.
func EncodeWrong(wrong []quiz.WrongEntry) ([]byte, error) {
	if wrong == nil {
		wrong = []quiz.WrongEntry{}
	}

	data, err := json.Marshal(wrong)
	if err != nil {
		return nil, fmt.Errorf("encode wrong answers: %w", err)
	}

	return data, nil
}

// DecodeWrong восстанавливает список ошибок результата.
func DecodeWrong(data []byte) ([]quiz.WrongEntry, error) {
	var wrong []quiz.WrongEntry
	if err := json.Unmarshal(data, &wrong); err != nil {
		return nil, fmt.Errorf("decode wrong answers: %w", err)
	}

	return wrong, nil
}
