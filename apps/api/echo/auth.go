package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/user"
)

const (
	sessionCookie     = "session"
	principalKey      = "principal"
	profileMissingKey = "profileMissing"
	deniedRedirectKey = "deniedRedirect"
)

var (
	errNotAuthenticated = errors.New("user not authenticated")
	errSigningMethod    = errors.New("unexpected signing method")
)

// Claims represents the session claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

func principalClaims(conf *core.Config, p user.Principal) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   p.ID,
			ExpiresAt: now.Add(conf.Server.SessionExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username: p.Username,
		Role:     string(p.Role),
	}
}

// GenerateToken generates a signed session token for p.
func GenerateToken(conf *core.Config, p user.Principal) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, principalClaims(conf, p))

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func parseToken(conf *core.Config, raw string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != middleware.AlgorithmHS256 {
			return nil, errSigningMethod
		}
		return []byte(conf.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errNotAuthenticated
	}
	return claims, nil
}

func setSession(ctx echo.Context, conf *core.Config, p user.Principal) error {
	token, err := GenerateToken(conf, p)
	if err != nil {
		return err
	}
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(conf.Server.SessionExpirationDelta),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	ctx.Set(principalKey, p)
	return nil
}

func clearSession(ctx echo.Context) {
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	ctx.Set(principalKey, nil)
}

// sessionMiddleware resolves the Principal of the session cookie, if any.
func sessionMiddleware(conf *core.Config, svc *user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			cookie, err := ctx.Cookie(sessionCookie)
			if err != nil || cookie.Value == "" {
				return next(ctx)
			}
			claims, err := parseToken(conf, cookie.Value)
			if err != nil {
				clearSession(ctx)
				return next(ctx)
			}

			p, err := svc.ResolvePrincipal(ctx.Request().Context(), claims.Subject)
			switch err {
			case nil:
				ctx.Set(principalKey, p)
			case user.ErrProfileNotFound:
				ctx.Set(profileMissingKey, true)
			case user.ErrNotFound:
				clearSession(ctx)
			default:
				return errors.Wrap(err, "resolving principal")
			}
			return next(ctx)
		}
	}
}

// loginRequired rejects requests without a resolved Principal.
func loginRequired(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if _, ok := contextPrincipal(ctx); ok {
			return next(ctx)
		}
		if missing, _ := ctx.Get(profileMissingKey).(bool); missing {
			return user.ErrProfileNotFound
		}
		return errNotAuthenticated
	}
}

// deniedRedirect sets where permission errors of the route send the user.
func deniedRedirect(to string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctx.Set(deniedRedirectKey, to)
			return next(ctx)
		}
	}
}

func contextPrincipal(ctx echo.Context) (user.Principal, bool) {
	p, ok := ctx.Get(principalKey).(user.Principal)
	return p, ok
}

// mustPrincipal returns the Principal set by loginRequired.
func mustPrincipal(ctx echo.Context) user.Principal {
	p, _ := contextPrincipal(ctx)
	return p
}
