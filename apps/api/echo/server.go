// Package echoapi serves the admin API over HTTP.
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

	"github.com/trezcool/masomo-admin/core"
	"github.com/trezcool/masomo-admin/core/class"
	"github.com/trezcool/masomo-admin/core/dashboard"
	"github.com/trezcool/masomo-admin/core/department"
	"github.com/trezcool/masomo-admin/core/refdata"
	"github.com/trezcool/masomo-admin/core/resource"
	"github.com/trezcool/masomo-admin/core/subject"
	"github.com/trezcool/masomo-admin/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		Debug          bool
		TestMode       bool

		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
		Auth       *Authenticator
		Routes     *resource.Table

		ListPageSize    int
		OptionsPageSize int

		UserSvc       *user.Service
		ClassSvc      *class.Service
		SubjectSvc    *subject.Service
		DepartmentSvc *department.Service
		Dashboard     *dashboard.Service
		Subjects      *refdata.Fetcher[subject.Subject]
		Teachers      *refdata.Fetcher[user.User]
	}

	Server struct {
		opts     Options
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ http.Handler = (*Server)(nil)

func NewServer(opts Options) *Server {
	s := &Server{
		opts:     opts,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.opts.Debug || s.opts.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.signalShutdown)
	s.app.Debug = s.opts.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	v1.POST("/users/login", s.login)

	authed := v1.Group("", s.opts.Auth.Middleware(), adminMiddleware)
	registerNavigationAPI(authed, s.opts.Routes, s.opts.Dashboard)
	registerClassAPI(authed, &s.opts)
	registerSubjectAPI(authed, &s.opts)
	registerDepartmentAPI(authed, &s.opts)
}

// Start listens on the configured address. Failures other than a graceful shutdown are sent to Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.opts.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Masomo Admin API!")
}
