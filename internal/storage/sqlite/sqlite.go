// Package sqlite хранит сессии и результаты экзаменов в локальном файле SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/letsssgooo/cbtquiz/internal/domain/models"
	"github.com/letsssgooo/cbtquiz/internal/quiz"
	"github.com/letsssgooo/cbtquiz/internal/storage"
)

// Storage реализует storage.Storage поверх SQLite.
type Storage struct {
	db *sql.DB
}

// NewStorage открывает базу по пути path и создаёт таблицы, если их нет.
func NewStorage(path string) (*Storage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// одна запись за раз, иначе SQLite отвечает "database is locked"
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Storage{db: db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS results (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		dataset TEXT NOT NULL,
		score INTEGER NOT NULL,
		total INTEGER NOT NULL,
		unknown INTEGER NOT NULL DEFAULT 0,
		wrong TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS results_session_idx ON results (session_id);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveSession вставляет или обновляет снимок сессии.
func (s *Storage) SaveSession(ctx context.Context, id string, session *quiz.Session) error {
	data, err := storage.EncodeSession(session)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		id, string(data), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	return nil
}

// GetSession возвращает сессию по ID.
func (s *Storage) GetSession(ctx context.Context, id string) (*quiz.Session, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM sessions WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}

	return storage.DecodeSession([]byte(data))
}

// DeleteSession удаляет сессию вместе с её результатами.
func (s *Storage) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM results WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("delete results: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// SaveResult сохраняет результат экзамена.
func (s *Storage) SaveResult(ctx context.Context, result *models.ResultModel) error {
	wrong, err := storage.EncodeWrong(result.Wrong)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO results (id, session_id, dataset, score, total, unknown, wrong, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.SessionID, result.Dataset,
		result.Score, result.Total, result.Unknown,
		string(wrong), result.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}

	return nil
}

// ListResults возвращает результаты сессии, новые первыми.
func (s *Storage) ListResults(ctx context.Context, sessionID string) ([]*models.ResultModel, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, dataset, score, total, unknown, wrong, created_at
		 FROM results WHERE session_id = ? ORDER BY created_at DESC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []*models.ResultModel
	for rows.Next() {
		var (
			result models.ResultModel
			wrong  string
		)

		if err := rows.Scan(
			&result.ID,
			&result.SessionID,
			&result.Dataset,
			&result.Score,
			&result.Total,
			&result.Unknown,
			&wrong,
			&result.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}

		if result.Wrong, err = storage.DecodeWrong([]byte(wrong)); err != nil {
			return nil, err
		}

		results = append(results, &result)
	}

	return results, rows.Err()
}

// Close закрывает соединение с базой.
func (s *Storage) Close() error {
	return s.db.Close()
}
