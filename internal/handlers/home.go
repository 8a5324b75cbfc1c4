package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/signup/internal/middleware"
	"github.com/nfrund/signup/internal/registration"
	"github.com/nfrund/signup/internal/view"
	"github.com/nfrund/signup/internal/view/dto/auth"
	"github.com/nfrund/signup/web/src/templates/layouts"
	"github.com/nfrund/signup/web/src/templates/pages"
)

// HomeHandler handles the root and the signed-in landing page.
type HomeHandler struct {
	identity    IdentityService
	callbackURL string
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(id IdentityService, callbackURL string) *HomeHandler {
	if callbackURL == "" {
		callbackURL = registration.DefaultCallbackURL
	}
	return &HomeHandler{identity: id, callbackURL: callbackURL}
}

// Root sends signed-in visitors to their landing page and everyone else to
// registration (GET /).
func (h *HomeHandler) Root(c echo.Context) error {
	status := h.identity.Session(authToken(c)).Status(c.Request().Context())
	if status == registration.StatusAuthenticated {
		return c.Redirect(http.StatusSeeOther, h.callbackURL)
	}
	return c.Redirect(http.StatusSeeOther, RegisterPath)
}

// HomeGet renders the landing page (GET /home). RequireAuth runs first.
func (h *HomeHandler) HomeGet(c echo.Context) error {
	var data auth.HomeData
	if user, ok := middleware.CurrentUser(c); ok {
		data = auth.HomeData{Username: user.Username, Email: user.Email}
	}

	flashes := view.GetFlashData(c)
	page := layouts.Base("Home", flashes, view.Component(pages.Home(data)))
	return c.Render(http.StatusOK, "", page)
}
