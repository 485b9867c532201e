package quiz

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/cbtquiz/internal/questions"
)

// newDataset собирает датасет с ответами answers для вопросов 1..len(answers).
func newDataset(t *testing.T, answers ...string) *questions.Dataset {
	t.Helper()

	rows := make([]questions.Row, len(answers))
	for i, answer := range answers {
		rows[i] = questions.NewRow(
			i+1,
			fmt.Sprintf("Question %d?", i+1),
			[questions.ChoiceCount]string{"a", "b", "c", "d"},
			answer,
			"text",
			"",
		)
	}

	dataset, err := questions.NewDataset("test.csv", rows)
	require.NoError(t, err)

	return dataset
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}
