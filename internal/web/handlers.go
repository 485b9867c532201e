package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/letsssgooo/cbtquiz/internal/engine"
	"github.com/letsssgooo/cbtquiz/internal/questions"
	"github.com/letsssgooo/cbtquiz/internal/quiz"
)

const (
	modePractice = "practice"
	modeExam     = "exam"

	// examNavParam — поле слайдера в форме ответа экзамена.
	examNavParam = "goto"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, questions.ErrValidation), errors.Is(err, questions.ErrEmptyDataset):
		return http.StatusUnprocessableEntity
	case errors.Is(err, questions.ErrNotFound), errors.Is(err, engine.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, questions.ErrNoDatasets):
		return http.StatusServiceUnavailable
	case errors.Is(err, quiz.ErrNotInProgress), errors.Is(err, quiz.ErrNotCompleted):
		return http.StatusConflict
	case errors.Is(err, quiz.ErrInvalidPick), errors.Is(err, quiz.ErrUnknownQuestion), errors.Is(err, quiz.ErrEmptyPool):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) page(mode string) *pageData {
	return &pageData{
		Title:  s.opts.Title,
		Mode:   mode,
		Slider: s.opts.Slider,
		Picks:  picks,
		Pick:   1,
	}
}

// fail показывает только ошибку: дальнейшая отрисовка страницы прекращается.
func (s *Server) fail(c *gin.Context, data *pageData, err error) {
	data.Error = err.Error()
	data.Question = nil
	data.Nav = nil
	c.HTML(statusFor(err), data.Mode+".html", data)
}

// selectDataset заполняет список датасетов и загружает выбранный (или первый).
func (s *Server) selectDataset(c *gin.Context, data *pageData, name string) (*questions.Dataset, bool) {
	names, err := s.engine.Datasets()
	if err != nil {
		s.fail(c, data, err)
		return nil, false
	}

	data.Datasets = names
	if name == "" {
		name = names[0]
	}
	data.Dataset = name

	dataset, err := s.engine.Dataset(name)
	if err != nil {
		s.fail(c, data, err)
		return nil, false
	}

	return dataset, true
}

func (s *Server) showAnswer(values []string) bool {
	if len(values) == 0 {
		return s.opts.ShowAnswer
	}

	return values[len(values)-1] == "1"
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

func atoiDefault(value string, def int) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return n
}

func (s *Server) practice(c *gin.Context) {
	data := s.page(modePractice)
	data.ShowAnswer = s.showAnswer(c.QueryArray("show"))

	dataset, ok := s.selectDataset(c, data, c.Query("dataset"))
	if !ok {
		return
	}

	s.renderPractice(c, data, dataset, c.Query("q"), http.StatusOK)
}

func (s *Server) practiceGrade(c *gin.Context) {
	data := s.page(modePractice)
	data.ShowAnswer = s.showAnswer(c.PostFormArray("show"))

	dataset, ok := s.selectDataset(c, data, c.PostForm("dataset"))
	if !ok {
		return
	}

	number, numberErr := strconv.Atoi(c.PostForm("q"))
	pick, pickErr := strconv.Atoi(c.PostForm("pick"))
	if numberErr != nil || pickErr != nil {
		data.Alert = "Select a question and an answer first."
		s.renderPractice(c, data, dataset, c.PostForm("q"), http.StatusBadRequest)
		return
	}

	_, evaluation, err := s.engine.Grade(dataset.Name, number, pick)
	if err != nil {
		data.Alert = err.Error()
		s.renderPractice(c, data, dataset, strconv.Itoa(number), statusFor(err))
		return
	}

	data.Pick = pick
	data.Evaluation = &evaluation
	if evaluation.Verdict == quiz.VerdictUnknown {
		data.Info = msgNoAnswerInfo
	}

	s.renderPractice(c, data, dataset, strconv.Itoa(number), http.StatusOK)
}

func (s *Server) renderPractice(c *gin.Context, data *pageData, dataset *questions.Dataset, q string, status int) {
	low, high := dataset.Bounds()
	number := clamp(atoiDefault(q, low), low, high)

	data.Nav = &navView{
		Param:   "q",
		Label:   "Question number",
		Min:     low,
		Max:     high,
		Value:   number,
		Options: dataset.Numbers(),
	}

	if row, ok := dataset.Row(number); ok {
		data.Question = renderQuestion(dataset.Name, row, s.resolver)
	} else {
		data.Info = fmt.Sprintf("There is no question #%d in this dataset.", number)
	}

	c.HTML(status, "practice.html", data)
}

func (s *Server) exam(c *gin.Context) {
	s.renderExam(c, c.Query("i"), "", http.StatusOK)
}

func (s *Server) renderExam(c *gin.Context, position string, alert string, status int) {
	data := s.page(modeExam)
	data.Alert = alert

	names, err := s.engine.Datasets()
	if err != nil {
		s.fail(c, data, err)
		return
	}
	data.Datasets = names

	session, err := s.engine.Session(c.Request.Context(), sessionID(c))
	if err != nil {
		s.fail(c, data, err)
		return
	}

	if !session.Started() {
		data.Dataset = c.Query("dataset")
		if data.Dataset == "" {
			data.Dataset = names[0]
		}
		data.Info = msgStartExam
		c.HTML(status, "exam.html", data)
		return
	}

	data.Dataset = session.Dataset

	dataset, err := s.engine.Dataset(session.Dataset)
	if err != nil {
		s.fail(c, data, err)
		return
	}

	i := clamp(atoiDefault(position, 1), 1, session.Len())
	number, _ := session.NumberAt(i)

	options := make([]int, session.Len())
	for k := range options {
		options[k] = k + 1
	}

	data.Nav = &navView{
		Param:   examNavParam,
		Label:   "Progress",
		Min:     1,
		Max:     session.Len(),
		Value:   i,
		Options: options,
	}

	if row, ok := dataset.Row(number); ok {
		data.Question = renderQuestion(dataset.Name, row, s.resolver)
	} else {
		data.Info = fmt.Sprintf("Question #%d is no longer in the dataset.", number)
	}

	data.Pick = session.Pick(number)
	data.Exam = &examView{
		Position:  i,
		Len:       session.Len(),
		Number:    number,
		Answered:  session.Answered(),
		Completed: session.Completed(),
	}

	if session.Completed() {
		result, err := s.engine.Result(c.Request.Context(), sessionID(c))
		if err != nil {
			data.Alert = err.Error()
		} else {
			data.Result = result
		}
	}

	history, err := s.engine.Results(c.Request.Context(), sessionID(c))
	if err != nil {
		slog.Warn("failed to list results", "session", sessionID(c), "error", err)
	}
	data.History = history

	c.HTML(status, "exam.html", data)
}

func redirectExam(c *gin.Context, position int) {
	c.Redirect(http.StatusSeeOther, "/exam?i="+strconv.Itoa(position))
}

func (s *Server) examStart(c *gin.Context) {
	_, err := s.engine.StartExam(c.Request.Context(), sessionID(c), c.PostForm("dataset"))
	if err != nil {
		if statusFor(err) == http.StatusUnprocessableEntity {
			data := s.page(modeExam)
			data.Dataset = c.PostForm("dataset")
			data.Datasets, _ = s.engine.Datasets()
			s.fail(c, data, err)
			return
		}

		s.renderExam(c, "", err.Error(), statusFor(err))
		return
	}

	redirectExam(c, 1)
}

// examAnswer запоминает выбор на текущем вопросе и переходит к следующему,
// предыдущему или выбранному слайдером вопросу. У завершённого экзамена
// ответы уже не меняются, работает только навигация.
func (s *Server) examAnswer(c *gin.Context) {
	ctx := c.Request.Context()
	position := atoiDefault(c.PostForm("i"), 1)

	session, err := s.engine.Session(ctx, sessionID(c))
	if err != nil {
		s.renderExam(c, strconv.Itoa(position), err.Error(), statusFor(err))
		return
	}

	if !session.Completed() {
		number, numberErr := strconv.Atoi(c.PostForm("number"))
		pick, pickErr := strconv.Atoi(c.PostForm("pick"))
		if numberErr != nil || pickErr != nil {
			s.renderExam(c, strconv.Itoa(position), "Select an answer first.", http.StatusBadRequest)
			return
		}

		if _, err := s.engine.AnswerExam(ctx, sessionID(c), number, pick); err != nil {
			s.renderExam(c, strconv.Itoa(position), err.Error(), statusFor(err))
			return
		}
	}

	switch c.PostForm("action") {
	case "next":
		position++
	case "prev":
		position--
	case "end":
		if _, err := s.engine.EndExam(ctx, sessionID(c)); err != nil {
			s.renderExam(c, strconv.Itoa(position), err.Error(), statusFor(err))
			return
		}
	default:
		// слайдер отправляет форму без кнопки: переходим на выбранную позицию
		position = atoiDefault(c.PostForm(examNavParam), position)
	}

	redirectExam(c, position)
}

func (s *Server) examEnd(c *gin.Context) {
	position := atoiDefault(c.PostForm("i"), 1)

	if _, err := s.engine.EndExam(c.Request.Context(), sessionID(c)); err != nil {
		s.renderExam(c, strconv.Itoa(position), err.Error(), statusFor(err))
		return
	}

	redirectExam(c, position)
}

func (s *Server) examReset(c *gin.Context) {
	if err := s.engine.Reset(c.Request.Context(), sessionID(c)); err != nil {
		s.renderExam(c, "", err.Error(), statusFor(err))
		return
	}

	c.Redirect(http.StatusSeeOther, "/exam")
}

func (s *Server) examExportCSV(c *gin.Context) {
	data, err := s.engine.ExportCSV(c.Request.Context(), sessionID(c))
	if err != nil {
		c.String(statusFor(err), err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="exam-result.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (s *Server) examExportXLSX(c *gin.Context) {
	data, err := s.engine.ExportXLSX(c.Request.Context(), sessionID(c))
	if err != nil {
		c.String(statusFor(err), err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="exam-result.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (s *Server) image(c *gin.Context) {
	_, path, ok := s.resolver.Resolve(c.Param("name"))
	if !ok {
		c.String(http.StatusNotFound, "image not found")
		return
	}

	c.File(path)
}
