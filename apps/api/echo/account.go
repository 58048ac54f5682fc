package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/user"
)

type accountForm struct {
	Next  string
	Roles []user.RoleChoice
	Input interface{}
}

func (h *handler) home(ctx echo.Context) error {
	return render(ctx, http.StatusOK, "home", page{Title: h.conf.AppName})
}

func (h *handler) loginForm(ctx echo.Context) error {
	if _, ok := contextPrincipal(ctx); ok {
		return ctx.Redirect(http.StatusFound, "/dashboard")
	}
	return render(ctx, http.StatusOK, "login", page{
		Title: "Login",
		Form:  accountForm{Next: safeNext(ctx, ""), Input: user.LoginRequest{}},
	})
}

func (h *handler) login(ctx echo.Context) error {
	var data user.LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	pg := page{Title: "Login", Form: accountForm{Next: safeNext(ctx, ""), Input: data}}
	if err := data.Validate(h.validate); err != nil {
		return h.formError(ctx, err, "login", pg)
	}

	p, err := h.userSvc.Authenticate(ctx.Request().Context(), data.Username, data.Password)
	if err != nil {
		switch errors.Cause(err) {
		case user.ErrAuthFailed, user.ErrAccountDeactivated:
			return h.formError(ctx, core.NewValidationError(err), "login", pg)
		case user.ErrProfileNotFound:
			return err
		}
		return errors.Wrap(err, "authenticating")
	}

	if err = setSession(ctx, h.conf, p); err != nil {
		return errors.Wrap(err, "setting session")
	}
	return ctx.Redirect(http.StatusSeeOther, safeNext(ctx, "/dashboard"))
}

func (h *handler) registerForm(ctx echo.Context) error {
	return render(ctx, http.StatusOK, "register", page{
		Title: "Register",
		Form:  accountForm{Roles: user.Roles, Input: user.NewUser{Role: user.RoleStudent}},
	})
}

func (h *handler) register(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	reqCtx := ctx.Request().Context()

	pg := page{Title: "Register", Form: accountForm{Roles: user.Roles, Input: data}}
	if err := data.Validate(reqCtx, h.validate, h.userSvc); err != nil {
		return h.formError(ctx, err, "register", pg)
	}

	usr, err := h.userSvc.Register(reqCtx, data)
	if err != nil {
		if err == user.ErrUsernameExists || err == user.ErrEmailExists {
			field := "username"
			if err == user.ErrEmailExists {
				field = "email"
			}
			return h.formError(ctx, core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()}), "register", pg)
		}
		return errors.Wrap(err, "registering user")
	}

	p := user.Principal{ID: usr.ID, Username: usr.Username, Email: usr.Email, Role: data.Role}
	if err = setSession(ctx, h.conf, p); err != nil {
		return errors.Wrap(err, "setting session")
	}
	return redirectWithFlash(ctx, "/dashboard", flashSuccess, "Welcome, "+usr.Username+"!")
}

func (h *handler) logout(ctx echo.Context) error {
	clearSession(ctx)
	return ctx.Redirect(http.StatusSeeOther, "/")
}
