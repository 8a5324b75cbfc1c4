package handlers

import (
	"context"
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

// Form fields carried across the post/redirect/get cycle.
const (
	fieldEmail       = "email"
	fieldUsername    = "username"
	fieldPhone       = "phone_number"
	fieldMismatch    = "password_mismatch"
	fieldServerError = "server_error"
)

// RegisterPath is the registration page.
const RegisterPath = "/register"

// IdentityService is what the page handlers need from the identity layer.
type IdentityService interface {
	registration.Identity
	SignInWithProvider(ctx context.Context, id string) (identity.ProviderRedirect, error)
	Providers() registration.ProviderList
	Session(token string) registration.Session
}

// RegisterConfig holds the options of the registration workflow.
type RegisterConfig struct {
	CallbackURL  string
	EnforcePhone bool
}

// RegisterHandler serves the registration page and its htmx fragments.
type RegisterHandler struct {
	api      registration.RegistrationAPI
	identity IdentityService
	inflight *registration.InFlight
	cfg      RegisterConfig
}

// NewRegisterHandler creates a RegisterHandler.
func NewRegisterHandler(api registration.RegistrationAPI, id IdentityService, inflight *registration.InFlight, cfg RegisterConfig) *RegisterHandler {
	if inflight == nil {
		inflight = registration.NewInFlight()
	}
	return &RegisterHandler{api: api, identity: id, inflight: inflight, cfg: cfg}
}

// controller builds the per-request form controller for the visitor. A
// fresh page load starts a new session gate; the poll of a mounted page
// resumes the gate from the status the previous check recorded.
func (h *RegisterHandler) controller(c echo.Context, resumeGate bool) *registration.Controller {
	opts := []registration.Option{
		registration.WithPhoneGate(h.cfg.EnforcePhone),
		registration.WithLogger(middleware.FromContext(c.Request().Context())),
	}
	if resumeGate {
		opts = append(opts, registration.WithSessionHistory(lastAuthStatus(c)))
	}
	if h.cfg.CallbackURL != "" {
		opts = append(opts, registration.WithCallbackURL(h.cfg.CallbackURL))
	}
	return registration.New(registration.Deps{
		API:       h.api,
		Identity:  h.identity,
		Session:   h.identity.Session(authToken(c)),
		Providers: h.identity.Providers(),
	}, opts...)
}

// checkSession runs the session gate and remembers what it saw.
func (h *RegisterHandler) checkSession(c echo.Context, ctrl *registration.Controller) (string, bool) {
	target, ok := ctrl.CheckSession(c.Request().Context())
	saveAuthStatus(c, ctrl.LastSessionStatus())
	return target, ok
}

// RegisterGet renders the registration page (GET /register).
func (h *RegisterHandler) RegisterGet(c echo.Context) error {
	ctrl := h.controller(c, false)
	if target, ok := h.checkSession(c, ctrl); ok {
		return c.Redirect(http.StatusSeeOther, target)
	}

	// Values kept from a failed submission. Passwords are never kept.
	kept := view.TakeFormValues(c, fieldEmail, fieldUsername, fieldPhone, fieldMismatch, fieldServerError)
	ctrl.Load(registration.FormState{
		Email:       kept[fieldEmail],
		Username:    kept[fieldUsername],
		PhoneNumber: kept[fieldPhone],
	})

	errs := ctrl.Errors()
	errs.PasswordMismatch = kept[fieldMismatch] != ""
	errs.ServerError = kept[fieldServerError]

	form := ctrl.Form()
	data := auth.RegisterData{
		Email:       form.Email,
		Username:    form.Username,
		PhoneNumber: form.PhoneNumber,
		Flags:       ctrl.Flags(),
		Errors:      errs,
		Providers:   ctrl.ProviderActions(),
	}

	flashes := view.GetFlashData(c)
	page := layouts.Base("Register", flashes, view.Component(pages.Register(data)))
	return c.Render(http.StatusOK, "", page)
}

// RegisterSession is polled by the page and redirects the browser once the
// visitor has become signed in (GET /register/session).
func (h *RegisterHandler) RegisterSession(c echo.Context) error {
	if target, ok := h.checkSession(c, h.controller(c, true)); ok {
		c.Response().Header().Set("HX-Redirect", target)
	}
	return c.NoContent(http.StatusOK)
}

// RegisterPasswordPolicy renders the password checklist for the typed
// password (POST /register/password-policy).
func (h *RegisterHandler) RegisterPasswordPolicy(c echo.Context) error {
	var req PasswordCheckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	ctrl := registration.New(registration.Deps{})
	ctrl.UpdatePassword(req.Password)
	return c.Render(http.StatusOK, "", pages.PasswordChecklist(ctrl.Flags()))
}

// RegisterPhone renders the phone field for the typed number
// (POST /register/phone).
func (h *RegisterHandler) RegisterPhone(c echo.Context) error {
	var req PhoneCheckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	invalid := c.Validate(&req) != nil
	return c.Render(http.StatusOK, "", pages.PhoneField(req.PhoneNumber, invalid))
}

// RegisterPost submits the registration form (POST /register).
func (h *RegisterHandler) RegisterPost(c echo.Context) error {
	var form registration.FormState
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	logger := middleware.FromContext(c.Request().Context())

	visitor := visitorID(c)
	if !h.inflight.TryAcquire(visitor) {
		logger.Info("Rejected concurrent registration", "email", form.Email)
		keepForm(c, form, registration.ValidationErrors{ServerError: registration.MsgInFlight})
		return c.Redirect(http.StatusSeeOther, RegisterPath)
	}
	defer h.inflight.Release(visitor)

	ctrl := h.controller(c, false)
	ctrl.Load(form)
	res := ctrl.Submit(c.Request().Context())

	switch res.Status {
	case registration.StatusSignedIn:
		setAuthCookie(c, res.Session.Token)
		view.SetFlashSuccess(c, "Account created successfully!")
		logger.Info("User registered", "email", form.Email)
		return c.Redirect(http.StatusSeeOther, res.RedirectURL)

	case registration.StatusSignInFailed:
		view.SetFlashError(c, res.Message)
		view.SetFormValues(c, map[string]string{fieldEmail: form.Email})
		return c.Redirect(http.StatusSeeOther, res.RedirectURL)

	default:
		// The phone error is recomputed from the kept number on the next GET.
		keepForm(c, form, ctrl.Errors())
		return c.Redirect(http.StatusSeeOther, RegisterPath)
	}
}

// keepForm stores what the next GET /register needs to show the failure.
func keepForm(c echo.Context, form registration.FormState, errs registration.ValidationErrors) {
	values := map[string]string{
		fieldEmail:       form.Email,
		fieldUsername:    form.Username,
		fieldPhone:       form.PhoneNumber,
		fieldServerError: errs.ServerError,
	}
	if errs.PasswordMismatch {
		values[fieldMismatch] = "1"
	}
	view.SetFormValues(c, values)
}
