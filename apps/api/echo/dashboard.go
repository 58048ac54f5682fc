package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func (h *handler) dashboard(ctx echo.Context) error {
	p := mustPrincipal(ctx)
	if p.IsInstructor() {
		return ctx.Redirect(http.StatusFound, "/instructor_dashboard")
	}

	dash, err := h.courseSvc.StudentDashboard(ctx.Request().Context(), p)
	if err != nil {
		return errors.Wrap(err, "loading dashboard")
	}
	return render(ctx, http.StatusOK, "dashboard", page{Title: "Dashboard", Data: dash})
}

func (h *handler) instructorDashboard(ctx echo.Context) error {
	report, err := h.courseSvc.InstructorDashboard(ctx.Request().Context(), mustPrincipal(ctx))
	if err != nil {
		return err
	}
	return render(ctx, http.StatusOK, "instructor_dashboard", page{Title: "Instructor Dashboard", Data: report})
}
