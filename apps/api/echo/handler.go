package echoapi

import (
	"net/http"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/course"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/user"
)

type handler struct {
	conf       *core.Config
	logger     core.Logger
	userSvc    *user.Service
	courseSvc  *course.Service
	validate   *validator.Validate
	translator ut.Translator
}

// formError re-renders a form page with the field errors of err.
// Errors that are not validation errors are returned as is.
func (h *handler) formError(ctx echo.Context, err error, name string, pg page) error {
	fields, ok := core.FieldErrors(err, h.translator)
	if !ok {
		return err
	}
	if msg, ok := fields[""]; ok {
		pg.Flashes = append(pg.Flashes, flash{Level: flashError, Message: msg})
		delete(fields, "")
	}
	pg.Errors = fields
	return render(ctx, http.StatusBadRequest, name, pg)
}

// safeNext returns the local redirect target of the "next" param, or fallback.
func safeNext(ctx echo.Context, fallback string) string {
	next := ctx.FormValue("next")
	if next == "" {
		next = ctx.QueryParam("next")
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}
