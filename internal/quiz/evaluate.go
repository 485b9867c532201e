package quiz

import "github.com/letsssgooo/cbtquiz/internal/questions"

// Evaluate сравнивает выбранный вариант с правильным ответом вопроса.
func Evaluate(row questions.Row, pick int) Evaluation {
	correct, ok := row.Answer()
	if !ok {
		return Evaluation{Verdict: VerdictUnknown, Picked: pick}
	}

	verdict := VerdictWrong
	if pick == correct {
		verdict = VerdictCorrect
	}

	return Evaluation{Verdict: verdict, Picked: pick, Correct: correct}
}

// ValidPick проверяет, что номер варианта лежит в диапазоне 1..4.
func ValidPick(pick int) bool {
	return pick >= 1 && pick <= questions.ChoiceCount
}
