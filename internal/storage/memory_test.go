package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/cbtquiz/internal/domain/models"
	"github.com/letsssgooo/cbtquiz/internal/quiz"
)

func TestMemoryStorage_Sessions(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStorage()

	_, err := st.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	session := &quiz.Session{
		Dataset: "a.csv",
		Numbers: []int{3, 1},
		Answers: map[int]int{3: 2},
		Status:  quiz.StatusInProgress,
	}
	require.NoError(t, st.SaveSession(ctx, "s1", session))

	session.Answers[1] = 4

	stored, err := st.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, map[int]int{3: 2}, stored.Answers, "storage must keep its own copy")

	stored.Numbers[0] = 99
	again, err := st.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, again.Numbers)

	require.NoError(t, st.DeleteSession(ctx, "s1"))
	_, err = st.GetSession(ctx, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStorage_Results(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStorage()
	now := time.Now()

	older := &models.ResultModel{ID: "r1", SessionID: "s1", Score: 1, Total: 2, CreatedAt: now.Add(-time.Minute)}
	newer := &models.ResultModel{ID: "r2", SessionID: "s1", Score: 2, Total: 2, CreatedAt: now}
	other := &models.ResultModel{ID: "r3", SessionID: "s2", CreatedAt: now}

	require.NoError(t, st.SaveResult(ctx, older))
	require.NoError(t, st.SaveResult(ctx, newer))
	require.NoError(t, st.SaveResult(ctx, other))

	results, err := st.ListResults(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "r2", results[0].ID)
	assert.Equal(t, "r1", results[1].ID)

	empty, err := st.ListResults(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCodec(t *testing.T) {
	session := &quiz.Session{
		Dataset: "a.csv",
		Numbers: []int{1, 2},
		Answers: map[int]int{1: 3},
		Status:  quiz.StatusCompleted,
	}

	data, err := EncodeSession(session)
	require.NoError(t, err)

	decoded, err := DecodeSession(data)
	require.NoError(t, err)
	assert.Equal(t, session.Numbers, decoded.Numbers)
	assert.Equal(t, session.Answers, decoded.Answers)
	assert.True(t, decoded.Completed())

	_, err = DecodeSession([]byte("{"))
	assert.Error(t, err)

	wrong, err := EncodeWrong(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(wrong))
}
