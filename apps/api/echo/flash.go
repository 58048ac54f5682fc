package echoapi

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	flashCookie = "flash"
	flashKey    = "flashes"

	flashSuccess = "success"
	flashInfo    = "info"
	flashWarning = "warning"
	flashError   = "error"
)

// flash is a one-time message shown on the next rendered page.
type flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func flashes(ctx echo.Context) []flash {
	if f, ok := ctx.Get(flashKey).([]flash); ok {
		return f
	}
	var f []flash
	if c, err := ctx.Cookie(flashCookie); err == nil && c.Value != "" {
		if raw, err := base64.URLEncoding.DecodeString(c.Value); err == nil {
			_ = json.Unmarshal(raw, &f)
		}
	}
	ctx.Set(flashKey, f)
	return f
}

func addFlash(ctx echo.Context, level, msg string) {
	f := append(flashes(ctx), flash{Level: level, Message: msg})
	ctx.Set(flashKey, f)

	raw, _ := json.Marshal(f)
	ctx.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    base64.URLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashes returns the pending flashes and forgets them.
func popFlashes(ctx echo.Context) []flash {
	f := flashes(ctx)
	ctx.Set(flashKey, []flash{})
	if _, err := ctx.Cookie(flashCookie); err == nil || len(f) > 0 {
		ctx.SetCookie(&http.Cookie{Name: flashCookie, Path: "/", MaxAge: -1, HttpOnly: true})
	}
	return f
}

// redirectWithFlash flashes msg and redirects to `to` with 303 See Other.
func redirectWithFlash(ctx echo.Context, to, level, msg string) error {
	addFlash(ctx, level, msg)
	return ctx.Redirect(http.StatusSeeOther, to)
}
