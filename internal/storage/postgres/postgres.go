package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/letsssgooo/cbtquiz/internal/domain/models"
	"github.com/letsssgooo/cbtquiz/internal/quiz"
	"github.com/letsssgooo/cbtquiz/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS cbt_sessions (
	id         TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS cbt_results (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	dataset    TEXT NOT NULL,
	score      INTEGER NOT NULL,
	total      INTEGER NOT NULL,
	unknown    INTEGER NOT NULL DEFAULT 0,
	wrong      JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS cbt_results_session_idx ON cbt_results (session_id);
`

// Storage реализует storage.Storage поверх PostgreSQL.
type Storage struct {
	pool *pgxpool.Pool
}

// NewStorage подключается к базе по dsn и создаёт таблицы.
func NewStorage(ctx context.Context, dsn string) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if _, err = pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &Storage{pool: pool}, nil
}

func (s *Storage) SaveSession(ctx context.Context, id string, session *quiz.Session) error {
	data, err := storage.EncodeSession(session)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO cbt_sessions (id, data, updated_at) VALUES ($1, $2::jsonb, $3)
	ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`

	_, err = s.pool.Exec(ctx, query, id, string(data), time.Now())

	return err
}

func (s *Storage) GetSession(ctx context.Context, id string) (*quiz.Session, error) {
	query := `
		SELECT data FROM cbt_sessions WHERE id = $1
	`

	var data []byte
	err := s.pool.QueryRow(ctx, query, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return storage.DecodeSession(data)
}

func (s *Storage) DeleteSession(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM cbt_results WHERE session_id = $1`, id)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `DELETE FROM cbt_sessions WHERE id = $1`, id)

	return err
}

func (s *Storage) SaveResult(ctx context.Context, result *models.ResultModel) error {
	wrong, err := storage.EncodeWrong(result.Wrong)
	if err != nil {
		return err
	}

	query := `
	INSERT INTO cbt_results (id, session_id, dataset, score, total, unknown, wrong, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8)
	`

	_, err = s.pool.Exec(ctx, query,
		result.ID, result.SessionID, result.Dataset,
		result.Score, result.Total, result.Unknown,
		string(wrong), result.CreatedAt,
	)

	return err
}

func (s *Storage) ListResults(ctx context.Context, sessionID string) ([]*models.ResultModel, error) {
	query := `
		SELECT id, session_id, dataset, score, total, unknown, wrong, created_at
		FROM cbt_results WHERE session_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.ResultModel
	for rows.Next() {
		var (
			result models.ResultModel
			wrong  []byte
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
			return nil, err
		}

		if result.Wrong, err = storage.DecodeWrong(wrong); err != nil {
			return nil, err
		}

		results = append(results, &result)
	}

	return results, rows.Err()
}

func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}
