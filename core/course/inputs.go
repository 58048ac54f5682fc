package course

import (
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
)

type NewCourse struct {
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Description string `json:"description" form:"description"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	return validate.Struct(nc)
}

type NewLesson struct {
	Title    string `json:"title" form:"title" validate:"required,max=200"`
	VideoURL string `json:"video_url" form:"video_url" validate:"required,max=500"`
}

func (nl *NewLesson) Validate(validate *validator.Validate) error {
	nl.Title = core.CleanString(nl.Title)
	nl.VideoURL = core.CleanString(nl.VideoURL)
	return validate.Struct(nl)
}

type NewQuiz struct {
	Title     string        `json:"title" form:"title" validate:"required,max=200"`
	Questions []NewQuestion `json:"questions" validate:"required,min=1,dive"`
}

type NewQuestion struct {
	Text          string   `json:"text" validate:"required"`
	Options       []string `json:"options" validate:"len=4,dive,required,max=200"`
	CorrectOption int      `json:"correct_option" validate:"min=1,max=4"`
}

func (nq *NewQuiz) Validate(validate *validator.Validate) error {
	nq.Title = core.CleanString(nq.Title)
	for i := range nq.Questions {
		q := &nq.Questions[i]
		q.Text = core.CleanString(q.Text)
		for j := range q.Options {
			q.Options[j] = core.CleanString(q.Options[j])
		}
	}
	return validate.Struct(nq)
}

type NewAssignment struct {
	Title       string `json:"title" form:"title" validate:"required,max=200"`
	Description string `json:"description" form:"description" validate:"required"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	return validate.Struct(na)
}

// Upload is a file submitted for an Assignment.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// QuizAnswers maps question IDs to the selected option (1 - 4, 0 when unselected).
type QuizAnswers map[string]int
