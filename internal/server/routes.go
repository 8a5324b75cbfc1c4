package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/signup/internal/handlers"
	"github.com/nfrund/signup/internal/middleware"
	"github.com/nfrund/signup/internal/regapi"
	"github.com/nfrund/signup/internal/registration"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	cfg := s.deps.Config
	callback := cfg.GetRegistrationCallbackURL()

	registerHandler := handlers.NewRegisterHandler(s.deps.RegistrationAPI, s.deps.Identity, s.deps.InFlight, handlers.RegisterConfig{
		CallbackURL:  callback,
		EnforcePhone: cfg.GetEnforcePhone(),
	})
	authHandler := handlers.NewAuthHandler(s.deps.Identity, callback)
	homeHandler := handlers.NewHomeHandler(s.deps.Identity, callback)
	apiHandler := regapi.NewHandler(s.deps.Registration)

	rateLimiter := middleware.RateLimiter(cfg.GetRateLimitPerMinute())
	requireAuth := middleware.RequireAuth(s.deps.Users, registration.LoginPath)

	s.E.GET("/", homeHandler.Root)
	s.E.GET("/home", homeHandler.HomeGet, requireAuth)

	s.E.GET("/register", registerHandler.RegisterGet)
	s.E.POST("/register", registerHandler.RegisterPost, rateLimiter)
	s.E.GET("/register/session", registerHandler.RegisterSession)
	s.E.POST("/register/password-policy", registerHandler.RegisterPasswordPolicy)
	s.E.POST("/register/phone", registerHandler.RegisterPhone)

	s.E.GET("/login", authHandler.LoginGet)
	s.E.POST("/login", authHandler.LoginPost, rateLimiter)
	s.E.GET("/logout", authHandler.Logout)
	s.E.POST("/logout", authHandler.Logout)

	s.E.GET("/auth/signin/:provider", authHandler.ProviderSignIn)
	s.E.GET("/auth/callback/:provider", authHandler.ProviderCallback)

	s.E.POST("/api/register", apiHandler.Register, rateLimiter)

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
}
