package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/course"
)

const msgInvalidVideo = "Invalid YouTube URL. Please ensure the video is embeddable."

func (h *handler) lessonCreateForm(ctx echo.Context) error {
	crs, err := h.courseSvc.AuthoringCourse(ctx.Request().Context(), mustPrincipal(ctx), ctx.Param("course_id"), course.AuthorLesson)
	if err != nil {
		return err
	}
	return render(ctx, http.StatusOK, "lesson_create", page{
		Title: "Add Lesson",
		Form:  authoringForm{Course: crs, Input: course.NewLesson{}},
	})
}

func (h *handler) lessonCreate(ctx echo.Context) error {
	p := mustPrincipal(ctx)
	reqCtx := ctx.Request().Context()
	crs, err := h.courseSvc.AuthoringCourse(reqCtx, p, ctx.Param("course_id"), course.AuthorLesson)
	if err != nil {
		return err
	}

	var data course.NewLesson
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLesson")
	}
	if err = data.Validate(h.validate); err != nil {
		return h.formError(ctx, err, "lesson_create", page{
			Title: "Add Lesson",
			Form:  authoringForm{Course: crs, Input: data},
		})
	}

	if _, err = h.courseSvc.CreateLesson(reqCtx, p, crs.ID, data); err != nil {
		return errors.Wrap(err, "creating lesson")
	}
	return redirectWithFlash(ctx, "/courses", flashSuccess, "Lesson created successfully.")
}

func (h *handler) lessonDetail(ctx echo.Context) error {
	view, err := h.courseSvc.ViewLesson(ctx.Request().Context(), mustPrincipal(ctx), ctx.Param("course_id"), ctx.Param("lesson_id"))
	if err != nil {
		return err
	}

	pg := page{Title: view.Lesson.Title, Data: view}
	if !view.Embeddable {
		pg.Flashes = append(pg.Flashes, flash{Level: flashWarning, Message: msgInvalidVideo})
	}
	return render(ctx, http.StatusOK, "lesson_detail", pg)
}
