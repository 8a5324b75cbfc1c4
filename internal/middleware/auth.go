package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/signup/internal/domain"
)

const (
	// UserContextKey holds the authenticated *domain.User.
	UserContextKey = "user"
	// AuthCookieName is the cookie that carries the session token.
	AuthCookieName = "auth_token"
)

// RequireAuth protects routes that need a signed-in user. Visitors without a
// valid token are sent to loginPath.
func RequireAuth(users domain.UserRepository, loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(AuthCookieName)
			if err != nil || cookie.Value == "" {
				return c.Redirect(http.StatusSeeOther, loginPath)
			}

			user, err := users.Authenticate(c.Request().Context(), cookie.Value)
			if err != nil || user == nil {
				FromContext(c.Request().Context()).Debug("Rejected session token", "error", err)
				// Clear the stale cookie so the next request is anonymous.
				c.SetCookie(&http.Cookie{
					Name:   AuthCookieName,
					Value:  "",
					Path:   "/",
					MaxAge: -1,
				})
				return c.Redirect(http.StatusSeeOther, loginPath)
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by RequireAuth, if any.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(UserContextKey).(*domain.User)
	return user, ok
}
