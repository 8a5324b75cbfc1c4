package registration

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
)

// Messages shown to the visitor when the workflow cannot use a server
// supplied message.
const (
	MsgPasswordMismatch = "Passwords do not match"
	MsgPhoneInvalid     = "Invalid phone number"
	MsgTransportFailure = "We could not reach the registration service. Please try again."
	MsgRejected         = "Registration failed. Please check your details and try again."
	MsgSignInFailed     = "Your account was created, but we could not sign you in. Please log in."
	MsgInFlight         = "Your registration is already being processed."
)

var (
	// ErrTransport marks a registration call that never produced a response.
	ErrTransport = errors.New("registration endpoint unreachable")
	// ErrMalformedResponse marks a response body that is not the expected JSON.
	ErrMalformedResponse = errors.New("malformed registration response")
)

// RegisterRequest is the body sent to the registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=8"`
}

// RegisterResponse is the body returned by the registration endpoint.
type RegisterResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// RegistrationAPI creates accounts. A non-nil error means no usable response
// was received; a rejection is reported through RegisterResponse.
type RegistrationAPI interface {
	Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error)
}

// Credentials is a credential-mode sign-in request.
type Credentials struct {
	Email       string
	Password    string
	CallbackURL string
}

// SignInSession is the result of a successful sign-in.
type SignInSession struct {
	Token       string
	RedirectURL string
}

// Identity signs users in.
type Identity interface {
	SignInWithCredentials(ctx context.Context, creds Credentials) (SignInSession, error)
}

// Status is the outcome of Submit.
type Status int

const (
	StatusPasswordMismatch Status = iota + 1
	StatusPhoneInvalid
	StatusInFlight
	StatusTransportError
	StatusRejected
	StatusSignInFailed
	StatusSignedIn
)

func (s Status) String() string {
	switch s {
	case StatusPasswordMismatch:
		return "password_mismatch"
	case StatusPhoneInvalid:
		return "phone_invalid"
	case StatusInFlight:
		return "in_flight"
	case StatusTransportError:
		return "transport_error"
	case StatusRejected:
		return "rejected"
	case StatusSignInFailed:
		return "sign_in_failed"
	case StatusSignedIn:
		return "signed_in"
	default:
		return "unknown"
	}
}

// Result describes what Submit did.
type Result struct {
	Status Status
	// Message is the text to show the visitor, empty on success.
	Message string
	// Session is set when Status is StatusSignedIn.
	Session SignInSession
	// RedirectURL is where the visitor should go next, if anywhere.
	RedirectURL string
	// Err is the underlying cause for transport and sign-in failures.
	Err error
}

// Deps are the collaborators of a Controller.
type Deps struct {
	API       RegistrationAPI
	Identity  Identity
	Session   Session
	Providers ProviderList
}

// Option configures a Controller.
type Option func(*Controller)

// WithCallbackURL sets where a newly registered user lands after sign-in.
func WithCallbackURL(u string) Option {
	return func(c *Controller) { c.callbackURL = u }
}

// WithPhoneGate makes an invalid phone number block submission.
func WithPhoneGate(enabled bool) Option {
	return func(c *Controller) { c.phoneGate = enabled }
}

// WithLogger sets the logger used for submission diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithSessionHistory resumes the session gate from the last status seen by a
// previous Controller for the same visitor.
func WithSessionHistory(last SessionStatus) Option {
	return func(c *Controller) { c.gate = ResumeGate(RootPath, last) }
}

// DefaultCallbackURL is used when no callback URL is configured.
const DefaultCallbackURL = "/home"

// LoginPath and RootPath are the navigation targets used by the workflow.
const (
	LoginPath = "/login"
	RootPath  = "/"
)

// Controller owns the registration form state and runs the submission
// workflow. It is safe for concurrent use.
type Controller struct {
	deps        Deps
	callbackURL string
	phoneGate   bool
	logger      *slog.Logger
	gate        *Gate

	mu         sync.Mutex
	form       FormState
	errs       ValidationErrors
	submitting bool
}

// New creates a Controller with an empty form.
func New(deps Deps, opts ...Option) *Controller {
	c := &Controller{
		deps:        deps,
		callbackURL: DefaultCallbackURL,
		logger:      slog.Default(),
		gate:        NewGate(RootPath),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replays every field of f through the update operations.
func (c *Controller) Load(f FormState) {
	c.UpdateEmail(f.Email)
	c.UpdateUsername(f.Username)
	c.UpdatePassword(f.Password)
	c.UpdateConfirmPassword(f.ConfirmPassword)
	c.UpdatePhoneNumber(f.PhoneNumber)
}

func (c *Controller) UpdateEmail(v string) {
	c.mu.Lock()
	c.form.Email = v
	c.mu.Unlock()
}

func (c *Controller) UpdateUsername(v string) {
	c.mu.Lock()
	c.form.Username = v
	c.mu.Unlock()
}

// UpdatePassword stores the password. The policy flags follow from it; see
// Flags.
func (c *Controller) UpdatePassword(v string) {
	c.mu.Lock()
	c.form.Password = v
	c.mu.Unlock()
}

func (c *Controller) UpdateConfirmPassword(v string) {
	c.mu.Lock()
	c.form.ConfirmPassword = v
	c.mu.Unlock()
}

// UpdatePhoneNumber stores v verbatim and flags it when it is not a valid
// phone number.
func (c *Controller) UpdatePhoneNumber(v string) {
	c.mu.Lock()
	c.form.PhoneNumber = v
	c.errs.PhoneError = !PhoneValid(v)
	c.mu.Unlock()
}

// Form returns a copy of the current field values.
func (c *Controller) Form() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Flags returns the policy flags of the current password.
func (c *Controller) Flags() PasswordPolicyFlags {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ComputeFlags(c.form.Password)
}

// Errors returns the current validation errors.
func (c *Controller) Errors() ValidationErrors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errs
}

// Submitting reports whether a submission is outstanding.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Providers returns the provider list captured at construction.
func (c *Controller) Providers() ProviderList {
	out := make(ProviderList, len(c.deps.Providers))
	copy(out, c.deps.Providers)
	return out
}

// ProviderActions returns the "Register with ..." buttons.
func (c *Controller) ProviderActions() []ProviderAction {
	return c.deps.Providers.Actions()
}

// CheckSession consults the session and returns a redirect to the
// application root when the visitor has just become authenticated.
func (c *Controller) CheckSession(ctx context.Context) (string, bool) {
	if c.deps.Session == nil {
		return "", false
	}
	return c.gate.Observe(c.deps.Session.Status(ctx))
}

// LastSessionStatus returns the status recorded by the most recent
// CheckSession.
func (c *Controller) LastSessionStatus() SessionStatus {
	return c.gate.Last()
}

// Submit validates the form and, when the passwords match, registers the
// account and signs the user in.
func (c *Controller) Submit(ctx context.Context) Result {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return Result{Status: StatusInFlight, Message: MsgInFlight}
	}
	c.errs.PasswordMismatch = false
	c.errs.ServerError = ""

	if c.form.Password != c.form.ConfirmPassword {
		c.errs.PasswordMismatch = true
		c.mu.Unlock()
		return Result{Status: StatusPasswordMismatch, Message: MsgPasswordMismatch}
	}
	if c.phoneGate && c.errs.PhoneError {
		c.mu.Unlock()
		return Result{Status: StatusPhoneInvalid, Message: MsgPhoneInvalid}
	}

	c.submitting = true
	form := c.form
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	res := c.register(ctx, form)
	if res.Status == StatusTransportError || res.Status == StatusRejected {
		c.mu.Lock()
		c.errs.ServerError = res.Message
		c.mu.Unlock()
	}
	return res
}

func (c *Controller) register(ctx context.Context, form FormState) Result {
	resp, err := c.deps.API.Register(ctx, RegisterRequest{
		Email:    form.Email,
		Username: form.Username,
		Password: form.Password,
	})
	if err != nil {
		c.logger.WarnContext(ctx, "Registration request failed", "email", form.Email, "error", err)
		return Result{Status: StatusTransportError, Message: MsgTransportFailure, Err: err}
	}

	if !resp.Success {
		msg := resp.Error
		if strings.TrimSpace(msg) == "" {
			msg = MsgRejected
		}
		c.logger.InfoContext(ctx, "Registration rejected", "email", form.Email, "reason", resp.Error)
		return Result{Status: StatusRejected, Message: msg}
	}

	session, err := c.deps.Identity.SignInWithCredentials(ctx, Credentials{
		Email:       form.Email,
		Password:    form.Password,
		CallbackURL: c.callbackURL,
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "Sign-in after registration failed", "email", form.Email, "error", err)
		return Result{Status: StatusSignInFailed, Message: MsgSignInFailed, RedirectURL: LoginPath, Err: err}
	}

	redirect := session.RedirectURL
	if redirect == "" {
		redirect = c.callbackURL
	}
	return Result{Status: StatusSignedIn, Session: session, RedirectURL: redirect}
}
