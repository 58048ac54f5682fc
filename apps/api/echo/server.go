package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/Abiramialagugaganeshan/Learning-Management-System/core"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/course"
	"github.com/Abiramialagugaganeshan/Learning-Management-System/core/user"
)

const csrfField = "csrf"

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		UserSvc    *user.Service
		CourseSvc  *course.Service
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(ctx context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) (Server, error) {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	if err := s.setup(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *server) setup() error {
	conf := s.deps.Conf

	renderer, err := newTemplateRenderer()
	if err != nil {
		return errors.Wrap(err, "parsing page templates")
	}
	s.app.Renderer = renderer
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.BodyLimit(conf.Media.MaxUploadSize))
	s.app.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		Skipper:        func(echo.Context) bool { return conf.Server.DisableCSRF },
		TokenLookup:    "form:" + csrfField,
		ContextKey:     csrfField,
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
	}))
	s.app.Use(sessionMiddleware(conf, s.deps.UserSvc))

	registerRoutes(s.app, &handler{
		conf:       conf,
		logger:     s.deps.Logger,
		userSvc:    s.deps.UserSvc,
		courseSvc:  s.deps.CourseSvc,
		validate:   s.deps.Validate,
		translator: s.deps.Translator,
	})
	return nil
}

func registerRoutes(e *echo.Echo, h *handler) {
	e.GET("/", h.home)

	// accounts
	e.GET("/login", h.loginForm)
	e.POST("/login", h.login)
	e.GET("/register", h.registerForm)
	e.POST("/register", h.register)
	e.GET("/logout", h.logout)
	e.POST("/logout", h.logout)

	// dashboards
	e.GET("/dashboard", h.dashboard, loginRequired)
	e.GET("/instructor_dashboard", h.instructorDashboard, loginRequired, deniedRedirect("/dashboard"))

	// catalog
	e.GET("/courses", h.courseList, loginRequired)
	e.GET("/courses/create", h.courseCreateForm, loginRequired)
	e.POST("/courses/create", h.courseCreate, loginRequired)
	e.POST("/enroll/:course_id", h.enroll, loginRequired)

	cg := e.Group("/courses/:course_id", loginRequired)
	cg.GET("/lessons/create", h.lessonCreateForm)
	cg.POST("/lessons/create", h.lessonCreate)
	cg.GET("/lessons/:lesson_id", h.lessonDetail)
	cg.GET("/quizzes/create", h.quizCreateForm)
	cg.POST("/quizzes/create", h.quizCreate)
	cg.GET("/quizzes/:quiz_id", h.quizTakeForm)
	cg.POST("/quizzes/:quiz_id", h.quizTake)
	cg.GET("/assignments/create", h.assignmentCreateForm)
	cg.POST("/assignments/create", h.assignmentCreate)
	cg.GET("/assignments/:assignment_id/submit", h.assignmentSubmitForm)
	cg.POST("/assignments/:assignment_id/submit", h.assignmentSubmit)

	// certificates
	e.GET("/certificates/:certificate_id", h.certificateExport, loginRequired, deniedRedirect("/dashboard"))
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already signaled
	}
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
