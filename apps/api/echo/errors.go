package echoapi

import (
	"net/http"
	"net/url"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/course"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/user"
)

const defaultDeniedRedirect = "/courses"

type errorPage struct {
	Code    int
	Message string
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var (
			code    int
			message string
			fields  map[string]string
		)

		origErr := errors.Cause(err)
		switch {
		case origErr == errNotAuthenticated:
			next := url.Values{"next": {ctx.Request().URL.RequestURI()}}
			err = ctx.Redirect(http.StatusSeeOther, "/login?"+next.Encode())
			logIfErr(ctx, err)
			return

		case origErr == user.ErrProfileNotFound:
			clearSession(ctx)
			err = redirectWithFlash(ctx, "/register", flashError, origErr.Error())
			logIfErr(ctx, err)
			return

		case core.IsPermissionError(origErr):
			to, ok := ctx.Get(deniedRedirectKey).(string)
			if !ok {
				to = defaultDeniedRedirect
			}
			err = redirectWithFlash(ctx, to, flashError, origErr.Error())
			logIfErr(ctx, err)
			return

		case origErr == course.ErrNotFound || origErr == user.ErrNotFound:
			code = http.StatusNotFound
			message = http.StatusText(code)

		default:
			var ok bool
			if fields, ok = core.FieldErrors(origErr, translator); ok {
				code = http.StatusBadRequest
				message = http.StatusText(code)
				break
			}

			if herr, ok := origErr.(*echo.HTTPError); ok {
				if herr.Internal != nil {
					if inner, ok := herr.Internal.(*echo.HTTPError); ok {
						herr = inner
					}
				}
				code = herr.Code
				if m, ok := herr.Message.(string); ok {
					message = m
				} else {
					message = http.StatusText(code)
				}
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(code)

			args := []interface{}{errors.Wrap(err, message)}
			if p, ok := contextPrincipal(ctx); ok {
				args = append(args, p)
			}
			logger.Error(message, args...)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}

		// Send response
		switch {
		case ctx.Request().Method == http.MethodHead: // Issue #608
			err = ctx.NoContent(code)
		case wantsJSON(ctx):
			if fields != nil {
				err = ctx.JSON(code, fields)
			} else {
				err = ctx.JSON(code, echo.Map{"error": message})
			}
		default:
			err = render(ctx, code, "error", page{
				Title:  message,
				Errors: fields,
				Data:   errorPage{Code: code, Message: message},
			})
		}
		logIfErr(ctx, err)
	}
}

func wantsJSON(ctx echo.Context) bool {
	req := ctx.Request()
	return strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) ||
		strings.HasPrefix(req.Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

func logIfErr(ctx echo.Context, err error) {
	if err != nil {
		ctx.Echo().Logger.Error(err)
	}
}
