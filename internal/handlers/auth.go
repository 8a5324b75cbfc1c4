package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/signup/internal/identity"
	"github.com/nfrund/signup/internal/middleware"
	"github.com/nfrund/signup/internal/registration"
	"github.com/nfrund/signup/internal/view"
	"github.com/nfrund/signup/internal/view/dto/auth"
	"github.com/nfrund/signup/web/src/templates/layouts"
	"github.com/nfrund/signup/web/src/templates/pages"
)

// AuthHandler handles login, logout and provider sign-in.
type AuthHandler struct {
	identity    IdentityService
	callbackURL string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(id IdentityService, callbackURL string) *AuthHandler {
	if callbackURL == "" {
		callbackURL = registration.DefaultCallbackURL
	}
	return &AuthHandler{identity: id, callbackURL: callbackURL}
}

// LoginGet renders the login page (GET /login).
func (h *AuthHandler) LoginGet(c echo.Context) error {
	kept := view.TakeFormValues(c, fieldEmail)

	data := auth.LoginData{
		Email:       kept[fieldEmail],
		CallbackURL: identity.SafeCallbackURL(c.QueryParam("callbackUrl"), ""),
	}

	flashes := view.GetFlashData(c)
	page := layouts.Base("Login", flashes, view.Component(pages.Login(data)))
	return c.Render(http.StatusOK, "", page)
}

// LoginPost handles the form submission for logging in a user (POST /login).
func (h *AuthHandler) LoginPost(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&req); err != nil {
		view.SetFlashError(c, "Please enter your email and password.")
		view.SetFormValues(c, map[string]string{fieldEmail: req.Email})
		return c.Redirect(http.StatusSeeOther, registration.LoginPath)
	}

	callback := req.CallbackURL
	if callback == "" {
		callback = h.callbackURL
	}

	sess, err := h.identity.SignInWithCredentials(c.Request().Context(), registration.Credentials{
		Email:       req.Email,
		Password:    req.Password,
		CallbackURL: callback,
	})
	if err != nil {
		middleware.FromContext(c.Request().Context()).Warn("Failed login attempt", "email", req.Email, "error", err)
		view.SetFlashError(c, "Invalid email or password.")
		// Preserve the submitted email address for the next render of the login form.
		view.SetFormValues(c, map[string]string{fieldEmail: req.Email})
		return c.Redirect(http.StatusSeeOther, registration.LoginPath)
	}

	setAuthCookie(c, sess.Token)
	view.SetFlashSuccess(c, "Logged in successfully!")
	return c.Redirect(http.StatusSeeOther, sess.RedirectURL)
}

// Logout expires the auth cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	setAuthCookie(c, "")
	view.SetFlashSuccess(c, "You have been logged out.")
	return c.Redirect(http.StatusSeeOther, registration.LoginPath)
}

// ProviderSignIn starts a sign-in with a third-party provider
// (GET /auth/signin/:provider).
func (h *AuthHandler) ProviderSignIn(c echo.Context) error {
	id := c.Param("provider")
	redirect, err := h.identity.SignInWithProvider(c.Request().Context(), id)
	if errors.Is(err, identity.ErrUnknownProvider) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown provider")
	}
	if err != nil {
		return err
	}

	if err := saveOAuthState(c, id, redirect.State); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, redirect.URL)
}

// ProviderCallback receives the visitor back from a provider
// (GET /auth/callback/:provider). Only the state is checked; exchanging the
// authorization code is not supported, so the visitor is sent to the login
// page.
func (h *AuthHandler) ProviderCallback(c echo.Context) error {
	id := c.Param("provider")
	logger := middleware.FromContext(c.Request().Context())

	expected := takeOAuthState(c, id)
	if expected == "" || c.QueryParam("state") != expected {
		logger.Warn("Provider callback with unexpected state", "provider", id)
		view.SetFlashError(c, "Your sign-in request expired. Please try again.")
		return c.Redirect(http.StatusSeeOther, RegisterPath)
	}

	if msg := c.QueryParam("error"); msg != "" {
		logger.Info("Provider sign-in declined", "provider", id, "error", msg)
		view.SetFlashError(c, "Sign-in was cancelled.")
		return c.Redirect(http.StatusSeeOther, RegisterPath)
	}

	logger.Warn("Provider code exchange is not available", "provider", id)
	view.SetFlashError(c, "Signing in with this provider is not available yet. Please use your email and password.")
	return c.Redirect(http.StatusSeeOther, registration.LoginPath)
}
