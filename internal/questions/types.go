package questions

import (
	"errors"
	"strconv"
	"strings"
)

// Type — тип вопроса.
type Type string

const (
	TypeText  Type = "text"
	TypeImage Type = "image"
)

// ChoiceCount — количество вариантов ответа у каждого вопроса.
const ChoiceCount = 4

// Канонические имена обязательных колонок.
const (
	ColumnNumber  = "number"
	ColumnPrompt  = "prompt"
	ColumnChoice1 = "choice1"
	ColumnChoice2 = "choice2"
	ColumnChoice3 = "choice3"
	ColumnChoice4 = "choice4"
	ColumnAnswer  = "correctAnswer"
	ColumnType    = "type"
	ColumnImage   = "imageRef"
)

// RequiredColumns — колонки, без которых датасет не загружается.
var RequiredColumns = []string{
	ColumnNumber,
	ColumnPrompt,
	ColumnChoice1,
	ColumnChoice2,
	ColumnChoice3,
	ColumnChoice4,
	ColumnAnswer,
	ColumnType,
	ColumnImage,
}

// columnAliases сопоставляет заголовки исходных CBT-выгрузок каноническим именам.
var columnAliases = map[string]string{
	"번호":  ColumnNumber,
	"문제":  ColumnPrompt,
	"보기1": ColumnChoice1,
	"보기2": ColumnChoice2,
	"보기3": ColumnChoice3,
	"보기4": ColumnChoice4,
	"정답":  ColumnAnswer,
	"타입":  ColumnType,
	"이미지": ColumnImage,
}

// Ошибки загрузки датасетов
var (
	ErrValidation   = errors.New("validation error")
	ErrEmptyDataset = errors.New("dataset has no questions")
	ErrNoDatasets   = errors.New("no dataset files found")
	ErrNotFound     = errors.New("not found")
)

// Row — одна строка датасета (один вопрос).
type Row struct {
	Number    int
	Prompt    string
	Choices   [ChoiceCount]string
	RawAnswer string
	Type      Type
	ImageRef  string

	answer int // 0, если правильный ответ неизвестен
}

// Answer возвращает номер правильного варианта (1..4).
// ok == false, если значение в датасете не разобрано.
func (r Row) Answer() (int, bool) {
	return r.answer, r.answer != 0
}

// IsImage сообщает, нужно ли показывать вопрос картинкой.
func (r Row) IsImage() bool {
	return r.Type == TypeImage && r.ImageRef != ""
}

// Choice возвращает текст варианта по номеру 1..4.
func (r Row) Choice(n int) string {
	if n < 1 || n > ChoiceCount {
		return ""
	}

	return r.Choices[n-1]
}

// NewRow собирает строку из уже разобранных значений.
// Используется в тестах и при импорте не из CSV.
func NewRow(number int, prompt string, choices [ChoiceCount]string, answer string, typ string, imageRef string) Row {
	return Row{
		Number:    number,
		Prompt:    prompt,
		Choices:   choices,
		RawAnswer: answer,
		Type:      parseType(typ),
		ImageRef:  strings.TrimSpace(imageRef),
		answer:    parseAnswer(answer),
	}
}

func parseType(value string) Type {
	if strings.ToLower(strings.TrimSpace(value)) == string(TypeImage) {
		return TypeImage
	}

	return TypeText
}

// parseAnswer принимает "2", " 2 " и "2.0". Всё остальное — неизвестный ответ.
func parseAnswer(value string) int {
	n, ok := parseInt(value)
	if !ok || n < 1 || n > ChoiceCount {
		return 0
	}

	return n
}

func parseInt(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if n, err := strconv.Atoi(value); err == nil {
		return n, true
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}

	return int(f), true
}
