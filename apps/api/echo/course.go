package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/course"
)

func (h *handler) courseList(ctx echo.Context) error {
	list, err := h.courseSvc.ListCourses(ctx.Request().Context(), mustPrincipal(ctx))
	if err != nil {
		return errors.Wrap(err, "listing courses")
	}
	return render(ctx, http.StatusOK, "course_list", page{Title: "Courses", Data: list})
}

func (h *handler) courseCreateForm(ctx echo.Context) error {
	if err := h.courseSvc.AuthorizeCourseCreation(mustPrincipal(ctx)); err != nil {
		return err
	}
	return render(ctx, http.StatusOK, "course_create", page{Title: "Create Course", Form: course.NewCourse{}})
}

func (h *handler) courseCreate(ctx echo.Context) error {
	p := mustPrincipal(ctx)
	if err := h.courseSvc.AuthorizeCourseCreation(p); err != nil {
		return err
	}

	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(h.validate); err != nil {
		return h.formError(ctx, err, "course_create", page{Title: "Create Course", Form: data})
	}

	if _, err := h.courseSvc.CreateCourse(ctx.Request().Context(), p, data); err != nil {
		return errors.Wrap(err, "creating course")
	}
	return redirectWithFlash(ctx, "/courses", flashSuccess, "Course created successfully.")
}

func (h *handler) enroll(ctx echo.Context) error {
	crs, err := h.courseSvc.Enroll(ctx.Request().Context(), mustPrincipal(ctx), ctx.Param("course_id"))
	switch errors.Cause(err) {
	case nil:
		return redirectWithFlash(ctx, "/courses", flashSuccess, fmt.Sprintf("Enrolled in %s successfully.", crs.Title))
	case course.ErrAlreadyEnrolled:
		return redirectWithFlash(ctx, "/courses", flashInfo, course.ErrAlreadyEnrolled.Error())
	}
	return err
}

// authoringForm is the data of the lesson, quiz & assignment creation pages.
type authoringForm struct {
	Course course.Course
	Input  interface{}
}
