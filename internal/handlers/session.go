package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/signup/internal/middleware"
	"github.com/nfrund/signup/internal/registration"
)

// visitorSessionName is the cookie session that identifies a browser across
// requests. Flash messages live in their own session.
const (
	visitorSessionName = "signup-session"
	keyVisitorID       = "visitor_id"
	keyAuthStatus      = "auth_status"
	keyOAuthStatePfx   = "oauth_state_"
)

// visitorID returns the browser's id, creating one on first use.
func visitorID(c echo.Context) string {
	sess, err := session.Get(visitorSessionName, c)
	if err != nil {
		// Without a session every request is its own visitor.
		return uuid.NewString()
	}
	if id, ok := sess.Values[keyVisitorID].(string); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	sess.Values[keyVisitorID] = id
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		slog.Error("Failed to save visitor session", "error", err)
	}
	return id
}

// lastAuthStatus is the session status seen on the previous check.
func lastAuthStatus(c echo.Context) registration.SessionStatus {
	sess, err := session.Get(visitorSessionName, c)
	if err != nil {
		return ""
	}
	s, _ := sess.Values[keyAuthStatus].(string)
	return registration.SessionStatus(s)
}

func saveAuthStatus(c echo.Context, status registration.SessionStatus) {
	sess, err := session.Get(visitorSessionName, c)
	if err != nil {
		return
	}
	if prev, _ := sess.Values[keyAuthStatus].(string); prev == string(status) {
		return
	}
	sess.Values[keyAuthStatus] = string(status)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		slog.Error("Failed to save visitor session", "error", err)
	}
}

func saveOAuthState(c echo.Context, providerID, state string) error {
	sess, err := session.Get(visitorSessionName, c)
	if err != nil {
		return err
	}
	sess.Values[keyOAuthStatePfx+providerID] = state
	return sess.Save(c.Request(), c.Response())
}

// takeOAuthState returns and forgets the state stored for providerID.
func takeOAuthState(c echo.Context, providerID string) string {
	sess, err := session.Get(visitorSessionName, c)
	if err != nil {
		return ""
	}
	key := keyOAuthStatePfx + providerID
	state, _ := sess.Values[key].(string)
	if state != "" {
		delete(sess.Values, key)
		_ = sess.Save(c.Request(), c.Response())
	}
	return state
}

// authToken returns the session token from the auth cookie.
func authToken(c echo.Context) string {
	cookie, err := c.Cookie(middleware.AuthCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// setAuthCookie is a helper function to create and set the authentication cookie.
func setAuthCookie(c echo.Context, token string) {
	cookie := new(http.Cookie)
	cookie.Name = middleware.AuthCookieName
	cookie.Value = token
	cookie.Path = "/"
	if token == "" {
		// An empty token logs out, so the cookie expires immediately.
		cookie.MaxAge = -1
	} else {
		cookie.Expires = time.Now().UTC().Add(24 * time.Hour)
	}
	// Keep the token away from scripts.
	cookie.HttpOnly = true
	// Secure only when served over TLS so local development works.
	cookie.Secure = c.Request().TLS != nil
	cookie.SameSite = http.SameSiteLaxMode
	c.SetCookie(cookie)
}
