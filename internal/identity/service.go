// Package identity signs users in, either with the credentials they just
// registered or by redirecting them to a configured third-party provider,
// and reports the authentication status of a session token.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/nfrund/signup/internal/domain"
	"github.com/nfrund/signup/internal/registration"
)

// ErrUnknownProvider is returned for a provider id missing from the catalog.
var ErrUnknownProvider = errors.New("unknown identity provider")

// CallbackPathPrefix is where providers send the visitor back to.
const CallbackPathPrefix = "/auth/callback/"

// ProviderRedirect is the start of a provider sign-in.
type ProviderRedirect struct {
	URL string
	// State must be kept by the caller and compared on the callback.
	State string
}

// Service implements registration.Identity on a user repository.
type Service struct {
	users           domain.UserRepository
	catalog         *Catalog
	baseURL         string
	defaultCallback string
	newState        func() string
}

// NewService creates a Service. baseURL is the externally visible root of
// this application and is used to build provider redirect URIs.
func NewService(users domain.UserRepository, catalog *Catalog, baseURL, defaultCallback string) *Service {
	if defaultCallback == "" {
		defaultCallback = registration.DefaultCallbackURL
	}
	return &Service{
		users:           users,
		catalog:         catalog,
		baseURL:         strings.TrimRight(baseURL, "/"),
		defaultCallback: defaultCallback,
		newState:        uuid.NewString,
	}
}

// SignInWithCredentials checks the credentials and returns a session token
// together with the local path to continue to.
func (s *Service) SignInWithCredentials(ctx context.Context, creds registration.Credentials) (registration.SignInSession, error) {
	token, err := s.users.SignIn(ctx, creds.Email, creds.Password)
	if err != nil {
		return registration.SignInSession{}, fmt.Errorf("sign in %s: %w", creds.Email, err)
	}
	return registration.SignInSession{
		Token:       token,
		RedirectURL: SafeCallbackURL(creds.CallbackURL, s.defaultCallback),
	}, nil
}

// SignInWithProvider builds the authorization redirect for provider id.
func (s *Service) SignInWithProvider(ctx context.Context, id string) (ProviderRedirect, error) {
	if s.catalog == nil {
		return ProviderRedirect{}, fmt.Errorf("%w: %q", ErrUnknownProvider, id)
	}
	p, ok := s.catalog.Lookup(id)
	if !ok {
		return ProviderRedirect{}, fmt.Errorf("%w: %q", ErrUnknownProvider, id)
	}

	u, err := url.Parse(p.AuthorizeURL)
	if err != nil {
		return ProviderRedirect{}, fmt.Errorf("provider %q authorize url: %w", id, err)
	}

	state := s.newState()
	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", p.ClientID)
	q.Set("redirect_uri", s.baseURL+CallbackPathPrefix+url.PathEscape(p.ID))
	q.Set("state", state)
	if len(p.Scopes) > 0 {
		q.Set("scope", strings.Join(p.Scopes, " "))
	}
	u.RawQuery = q.Encode()

	return ProviderRedirect{URL: u.String(), State: state}, nil
}

// Providers returns the provider list for a page load.
func (s *Service) Providers() registration.ProviderList {
	if s.catalog == nil {
		return nil
	}
	return s.catalog.Providers()
}

// Status reports whether token belongs to a signed-in user.
func (s *Service) Status(ctx context.Context, token string) registration.SessionStatus {
	if token == "" {
		return registration.StatusUnauthenticated
	}
	if _, err := s.users.Authenticate(ctx, token); err != nil {
		return registration.StatusUnauthenticated
	}
	return registration.StatusAuthenticated
}

// Session binds a token to the service as a registration.Session.
func (s *Service) Session(token string) registration.Session {
	return tokenSession{svc: s, token: token}
}

type tokenSession struct {
	svc   *Service
	token string
}

func (t tokenSession) Status(ctx context.Context) registration.SessionStatus {
	return t.svc.Status(ctx, t.token)
}

// SafeCallbackURL returns u when it is a path on this site and fallback
// otherwise. Absolute URLs and protocol-relative paths are rejected so a
// crafted callback cannot send the visitor elsewhere.
func SafeCallbackURL(u, fallback string) string {
	if u == "" || !strings.HasPrefix(u, "/") || strings.HasPrefix(u, "//") || strings.HasPrefix(u, "/\\") {
		return fallback
	}
	parsed, err := url.Parse(u)
	if err != nil || parsed.IsAbs() || parsed.Host != "" {
		return fallback
	}
	return u
}
