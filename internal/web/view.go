package web

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/letsssgooo/cbtquiz/internal/domain/models"
	"github.com/letsssgooo/cbtquiz/internal/images"
	"github.com/letsssgooo/cbtquiz/internal/questions"
	"github.com/letsssgooo/cbtquiz/internal/quiz"
)

const (
	msgMissingImage = "This is an image question, but the image file is missing from the image directory."
	msgEmptyChoice  = "(empty choice)"
	msgNoAnswerInfo = "No answer information for this question."
	msgStartExam    = "Pick a dataset and press \"Start exam\" to draw a random block of questions."
)

type choiceView struct {
	N    int
	Text string
}

type questionView struct {
	Heading     string
	Number      int
	ImageURL    string
	Warning     string
	Prompt      string
	ShowChoices bool
	Choices     []choiceView
	Correct     int // 0 — ответ неизвестен
}

// navView описывает слайдер выбора вопроса.
type navView struct {
	Param   string // имя параметра запроса: "q" или "i"
	Label   string
	Min     int
	Max     int
	Value   int
	Options []int
}

type examView struct {
	Position  int
	Len       int
	Number    int
	Answered  int
	Completed bool
}

type pageData struct {
	Title      string
	Mode       string
	Datasets   []string
	Dataset    string
	Slider     string
	Error      string // фатальная ошибка: страница показывает только её
	Alert      string
	Info       string
	Question   *questionView
	Nav        *navView
	Pick       int
	ShowAnswer bool
	Evaluation *quiz.Evaluation
	Exam       *examView
	Result     *quiz.Result
	History    []*models.ResultModel
	Picks      []int
}

var picks = []int{1, 2, 3, 4}

// renderQuestion строит представление вопроса: картинку или текст с вариантами.
func renderQuestion(dataset string, row questions.Row, resolver *images.Resolver) *questionView {
	view := &questionView{
		Heading: fmt.Sprintf("%s / #%d", dataset, row.Number),
		Number:  row.Number,
	}

	if correct, ok := row.Answer(); ok {
		view.Correct = correct
	}

	if row.IsImage() {
		if name, _, ok := resolver.Resolve(row.ImageRef); ok {
			view.ImageURL = "/images/" + url.PathEscape(name)
		} else {
			view.Warning = msgMissingImage
			if strings.TrimSpace(row.Prompt) != "" {
				view.Prompt = row.Prompt
			}
		}

		return view
	}

	view.Prompt = row.Prompt
	view.ShowChoices = true
	for n := 1; n <= questions.ChoiceCount; n++ {
		text := row.Choice(n)
		if strings.TrimSpace(text) == "" {
			text = msgEmptyChoice
		}
		view.Choices = append(view.Choices, choiceView{N: n, Text: text})
	}

	return view
}
