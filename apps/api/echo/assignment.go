package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/course"
)

func (h *handler) assignmentCreateForm(ctx echo.Context) error {
	crs, err := h.courseSvc.AuthoringCourse(ctx.Request().Context(), mustPrincipal(ctx), ctx.Param("course_id"), course.AuthorAssignment)
	if err != nil {
		return err
	}
	return render(ctx, http.StatusOK, "assignment_create", page{
		Title: "Create Assignment",
		Form:  authoringForm{Course: crs, Input: course.NewAssignment{}},
	})
}

func (h *handler) assignmentCreate(ctx echo.Context) error {
	p := mustPrincipal(ctx)
	reqCtx := ctx.Request().Context()
	crs, err := h.courseSvc.AuthoringCourse(reqCtx, p, ctx.Param("course_id"), course.AuthorAssignment)
	if err != nil {
		return err
	}

	var data course.NewAssignment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err = data.Validate(h.validate); err != nil {
		return h.formError(ctx, err, "assignment_create", page{
			Title: "Create Assignment",
			Form:  authoringForm{Course: crs, Input: data},
		})
	}

	if _, err = h.courseSvc.CreateAssignment(reqCtx, p, crs.ID, data); err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return redirectWithFlash(ctx, "/courses", flashSuccess, "Assignment created successfully.")
}

type submitForm struct {
	Course     course.Course
	Assignment course.Assignment
}

func (h *handler) assignmentSubmitForm(ctx echo.Context) error {
	crs, asg, err := h.courseSvc.GetAssignmentToSubmit(ctx.Request().Context(), mustPrincipal(ctx), ctx.Param("course_id"), ctx.Param("assignment_id"))
	if err != nil {
		return err
	}
	return render(ctx, http.StatusOK, "assignment_submit", page{
		Title: asg.Title,
		Form:  submitForm{Course: crs, Assignment: asg},
	})
}

func (h *handler) assignmentSubmit(ctx echo.Context) error {
	p := mustPrincipal(ctx)
	reqCtx := ctx.Request().Context()
	courseID, assignmentID := ctx.Param("course_id"), ctx.Param("assignment_id")

	crs, asg, err := h.courseSvc.GetAssignmentToSubmit(reqCtx, p, courseID, assignmentID)
	if err != nil {
		return err
	}

	var up *course.Upload
	if fh, err := ctx.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return errors.Wrap(err, "opening uploaded file")
		}
		//goland:noinspection GoUnhandledErrorResult
		defer f.Close()
		up = &course.Upload{Filename: fh.Filename, Size: fh.Size, Content: f}
	} else if err != http.ErrMissingFile && err != http.ErrNotMultipart {
		return errors.Wrap(err, "reading uploaded file")
	}

	if _, err = h.courseSvc.SubmitAssignment(reqCtx, p, courseID, assignmentID, up); err != nil {
		return h.formError(ctx, err, "assignment_submit", page{
			Title: asg.Title,
			Form:  submitForm{Course: crs, Assignment: asg},
		})
	}
	return redirectWithFlash(ctx, "/dashboard", flashSuccess, "Assignment submitted successfully.")
}
