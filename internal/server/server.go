package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/signup/internal/app"
	"github.com/nfrund/signup/internal/handlers"
	"github.com/nfrund/signup/internal/middleware"
	"github.com/nfrund/signup/internal/rendering"
	"github.com/nfrund/signup/web"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E    *echo.Echo
	deps app.Dependencies
}

// New creates the echo instance, its middleware and routes.
func New(deps app.Dependencies) (*Server, error) {
	cfg := deps.Config

	validator, err := handlers.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("register validation rules: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = rendering.New()
	e.Validator = validator
	setupErrorHandling(e)

	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())

	store := sessions.NewCookieStore([]byte(cfg.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	e.StaticFS("/static", echo.MustSubFS(web.FS, "static"))

	s := &Server{E: e, deps: deps}
	s.RegisterRoutes()
	return s, nil
}

// setupErrorHandling logs unhandled errors with a stack trace and leaves
// echo's HTTP errors to the default handler.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		var he *echo.HTTPError
		if !errors.As(err, &he) {
			middleware.FromContext(c.Request().Context()).Error("Internal Server Error (Unhandled)",
				"error", err.Error(),
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"stack_trace", string(debug.Stack()),
			)
		} else if he.Code >= http.StatusInternalServerError {
			slog.Error("HTTP error", "code", he.Code, "error", he.Message)
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
