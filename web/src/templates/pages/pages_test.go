package pages

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nfrund/signup/internal/registration"
	"github.com/nfrund/signup/internal/view/dto/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
)

func render(t *testing.T, n g.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, n.Render(&buf))
	return buf.String()
}

func TestPasswordChecklist(t *testing.T) {
	out := render(t, PasswordChecklist(registration.ComputeFlags("abc")))

	assert.Contains(t, out, `id="password-policy"`)
	assert.Contains(t, out, `<li class="met" data-rule="lower">`)
	assert.Contains(t, out, `<li class="unmet" data-rule="length">`)
}

func TestPhoneField(t *testing.T) {
	valid := render(t, PhoneField("555", false))
	assert.Contains(t, valid, `value="555"`)
	assert.NotContains(t, valid, registration.MsgPhoneInvalid)

	invalid := render(t, PhoneField("555a", true))
	assert.Contains(t, invalid, `aria-invalid="true"`)
	assert.Contains(t, invalid, registration.MsgPhoneInvalid)
	assert.Contains(t, invalid, `hx-post="/register/phone"`)
}

func TestRegister(t *testing.T) {
	out := render(t, Register(auth.RegisterData{
		Email:     "new@example.com",
		Username:  "newbie",
		Errors:    registration.ValidationErrors{PasswordMismatch: true, ServerError: "Email taken"},
		Providers: registration.ProviderList{{ID: "google", Name: "Google"}, {ID: "github", Name: "GitHub"}}.Actions(),
	}))

	assert.Contains(t, out, `value="new@example.com"`)
	assert.Contains(t, out, `value="newbie"`)
	assert.Contains(t, out, registration.MsgPasswordMismatch)
	assert.Contains(t, out, "Email taken")
	assert.Contains(t, out, `href="/auth/signin/google"`)
	assert.Contains(t, out, "Register with Google")
	assert.Contains(t, out, `<img class="provider-icon" src="/static/img/providers/google.svg" alt="">`)
	assert.Equal(t, 1, strings.Count(out, `class="provider-icon"`), "providers without an icon render no image")
	assert.Contains(t, out, `href="/login"`)
	assert.Contains(t, out, `hx-disabled-elt=`)
}

func TestRegister_NoProviders(t *testing.T) {
	out := render(t, Register(auth.RegisterData{}))
	assert.NotContains(t, out, `class="providers"`)
	assert.NotContains(t, out, `id="server-error"`)
}

func TestHome(t *testing.T) {
	assert.Contains(t, render(t, Home(auth.HomeData{Email: "a@example.com"})), "Welcome, a@example.com")
	assert.Contains(t, render(t, Home(auth.HomeData{Username: "newbie", Email: "a@example.com"})), "Welcome, newbie")
}
