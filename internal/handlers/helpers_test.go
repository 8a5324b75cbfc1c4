package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/signup/internal/database"
	"github.com/nfrund/signup/internal/domain"
	"github.com/nfrund/signup/internal/handlers"
	"github.com/nfrund/signup/internal/identity"
	"github.com/nfrund/signup/internal/regapi"
	"github.com/nfrund/signup/internal/registration"
	"github.com/nfrund/signup/internal/rendering"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

type testApp struct {
	e        *echo.Echo
	users    *database.MemoryUserStore
	identity *identity.Service
	store    *sessions.CookieStore
}

func newTestApp(t *testing.T, api registration.RegistrationAPI, cfg handlers.RegisterConfig) *testApp {
	t.Helper()

	users := database.NewMemoryUserStore(database.NewHasher(bcrypt.MinCost))
	catalog, err := identity.NewStaticCatalog(identity.ProviderConfig{
		ID:           "google",
		Name:         "Google",
		AuthorizeURL: "https://accounts.example.com/auth",
		ClientID:     "client-1",
	})
	require.NoError(t, err)
	id := identity.NewService(users, catalog, "http://localhost:8080", "/home")

	if api == nil {
		api = regapi.NewService(users, nil)
	}

	v, err := handlers.NewValidator()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = rendering.New()
	e.Validator = v
	store := sessions.NewCookieStore([]byte(testSessionSecret))
	e.Use(session.Middleware(store))

	reg := handlers.NewRegisterHandler(api, id, nil, cfg)
	e.GET("/register", reg.RegisterGet)
	e.GET("/register/session", reg.RegisterSession)
	e.POST("/register", reg.RegisterPost)
	e.POST("/register/password-policy", reg.RegisterPasswordPolicy)
	e.POST("/register/phone", reg.RegisterPhone)

	authH := handlers.NewAuthHandler(id, "/home")
	e.GET("/login", authH.LoginGet)
	e.POST("/login", authH.LoginPost)
	e.POST("/logout", authH.Logout)
	e.GET("/auth/signin/:provider", authH.ProviderSignIn)
	e.GET("/auth/callback/:provider", authH.ProviderCallback)

	home := handlers.NewHomeHandler(id, "/home")
	e.GET("/", home.Root)

	return &testApp{e: e, users: users, identity: id, store: store}
}

// browser replays cookies between requests the way a browser would.
type browser struct {
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) browser() *browser {
	return &browser{app: a, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.app.e.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return b.do(req)
}

// flashes decodes the flash session currently held by the browser.
func (b *browser) flashes(t *testing.T, key string) []interface{} {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if c, ok := b.cookies["flash-session"]; ok {
		req.AddCookie(c)
	}
	sess, err := b.app.store.Get(req, "flash-session")
	require.NoError(t, err)
	return sess.Flashes(key)
}

func registrationForm(password, confirm string) url.Values {
	return url.Values{
		"email":            {"new@example.com"},
		"username":         {"newbie"},
		"password":         {password},
		"confirm_password": {confirm},
		"phone_number":     {"5551234567"},
	}
}

func (a *testApp) signUp(t *testing.T, email, password string) string {
	t.Helper()
	token, err := a.users.SignUp(context.Background(), &domain.User{Email: email, Username: "existing"}, password)
	require.NoError(t, err)
	return token
}
