package echoapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/course"
)

const maxQuizFormQuestions = 50

func (h *handler) quizCreateForm(ctx echo.Context) error {
	crs, err := h.courseSvc.AuthoringCourse(ctx.Request().Context(), mustPrincipal(ctx), ctx.Param("course_id"), course.AuthorQuiz)
	if err != nil {
		return err
	}

	n, _ := strconv.Atoi(ctx.QueryParam("questions"))
	if n < 1 {
		n = 1
	} else if n > maxQuizFormQuestions {
		n = maxQuizFormQuestions
	}
	data := course.NewQuiz{Questions: make([]course.NewQuestion, n)}
	return render(ctx, http.StatusOK, "quiz_create", page{
		Title: "Create Quiz",
		Form:  authoringForm{Course: crs, Input: data},
	})
}

func (h *handler) quizCreate(ctx echo.Context) error {
	p := mustPrincipal(ctx)
	reqCtx := ctx.Request().Context()
	crs, err := h.courseSvc.AuthoringCourse(reqCtx, p, ctx.Param("course_id"), course.AuthorQuiz)
	if err != nil {
		return err
	}

	data, err := bindNewQuiz(ctx)
	if err != nil {
		return err
	}
	pg := page{Title: "Create Quiz", Form: authoringForm{Course: crs, Input: data}}
	if err = data.Validate(h.validate); err != nil {
		if len(data.Questions) == 0 {
			data.Questions = make([]course.NewQuestion, 1)
			pg.Form = authoringForm{Course: crs, Input: data}
		}
		return h.formError(ctx, err, "quiz_create", pg)
	}

	if _, err = h.courseSvc.CreateQuiz(reqCtx, p, crs.ID, data); err != nil {
		if ferr := h.formError(ctx, err, "quiz_create", pg); ferr != err {
			return ferr
		}
		return errors.Wrap(err, "creating quiz")
	}
	return redirectWithFlash(ctx, "/courses", flashSuccess, "Quiz created successfully.")
}

// bindNewQuiz reads a NewQuiz from a JSON body, or from the repeated form fields
// question_text, option1 - option4 & correct_option, one value per question in order.
func bindNewQuiz(ctx echo.Context) (course.NewQuiz, error) {
	var data course.NewQuiz
	if strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := ctx.Bind(&data); err != nil {
			return course.NewQuiz{}, errors.Wrap(err, "binding to NewQuiz")
		}
		return data, nil
	}

	form, err := ctx.FormParams()
	if err != nil {
		return course.NewQuiz{}, errors.Wrap(err, "parsing quiz form")
	}
	data.Title = form.Get("title")
	data.Questions = parseQuestions(form)
	return data, nil
}

func parseQuestions(form url.Values) []course.NewQuestion {
	at := func(field string, i int) string {
		if vals := form[field]; i < len(vals) {
			return strings.TrimSpace(vals[i])
		}
		return ""
	}

	texts := form["question_text"]
	questions := make([]course.NewQuestion, 0, len(texts))
	for i := range texts {
		q := course.NewQuestion{Text: at("question_text", i), Options: make([]string, 4)}
		blank := q.Text == ""
		for j := range q.Options {
			q.Options[j] = at(fmt.Sprintf("option%d", j+1), i)
			blank = blank && q.Options[j] == ""
		}
		if blank {
			continue
		}
		q.CorrectOption, _ = strconv.Atoi(at("correct_option", i))
		questions = append(questions, q)
	}
	return questions
}

type quizTakeForm struct {
	Course course.Course
	Quiz   course.Quiz
}

func (h *handler) quizTakeForm(ctx echo.Context) error {
	crs, qz, err := h.courseSvc.GetQuizToTake(ctx.Request().Context(), mustPrincipal(ctx), ctx.Param("course_id"), ctx.Param("quiz_id"))
	if err != nil {
		return err
	}
	return render(ctx, http.StatusOK, "quiz_take", page{Title: qz.Title, Form: quizTakeForm{Course: crs, Quiz: qz}})
}

func (h *handler) quizTake(ctx echo.Context) error {
	p := mustPrincipal(ctx)
	reqCtx := ctx.Request().Context()
	courseID, quizID := ctx.Param("course_id"), ctx.Param("quiz_id")

	_, qz, err := h.courseSvc.GetQuizToTake(reqCtx, p, courseID, quizID)
	if err != nil {
		return err
	}
	answers := make(course.QuizAnswers, len(qz.Questions))
	for _, q := range qz.Questions {
		answers[q.ID], _ = strconv.Atoi(ctx.FormValue(q.FormField()))
	}

	out, err := h.courseSvc.TakeQuiz(reqCtx, p, courseID, quizID, answers)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("Your score: %d/%d.", out.Score.Score, out.Score.Total)
	return redirectWithFlash(ctx, "/dashboard", flashSuccess, msg)
}
