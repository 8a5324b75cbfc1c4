package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/signup/internal/app"
	"github.com/nfrund/signup/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		AppBaseURL:              "http://localhost:8080",
		SessionSecret:           "a-very-secret-key-for-testing-!",
		UserStore:               "memory",
		RegistrationTimeout:     time.Second,
		RegistrationCallbackURL: "/home",
		EmailProvider:           "log",
		RateLimitPerMinute:      100,
	}
	deps, err := app.Resolve(app.NewInjector(cfg))
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Closer.Close(t.Context()) })

	s, err := New(deps)
	require.NoError(t, err)
	return s
}

func TestRoutes_Health(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestRoutes_StaticAssets(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".policy")

	rec = httptest.NewRecorder()
	s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/img/providers/google.svg", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_RegisterThenHome(t *testing.T) {
	s := newTestServer(t)

	form := url.Values{
		"email":            {"new@example.com"},
		"username":         {"newbie"},
		"password":         {"Abc12345!"},
		"confirm_password": {"Abc12345!"},
	}
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/home", rec.Header().Get(echo.HeaderLocation))

	home := httptest.NewRequest(http.MethodGet, "/home", nil)
	for _, c := range rec.Result().Cookies() {
		home.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	s.E.ServeHTTP(rec, home)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Welcome, newbie")
	assert.Contains(t, body, "Account created successfully!")
}

func TestRoutes_HomeRequiresAuth(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/home", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
}

func TestRoutes_RegistrationEndpoint(t *testing.T) {
	s := newTestServer(t)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		s.E.ServeHTTP(rec, req)
		return rec
	}

	body := `{"email":"api@example.com","username":"api","password":"Abc12345!"}`
	rec := post(body)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = post(body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}
