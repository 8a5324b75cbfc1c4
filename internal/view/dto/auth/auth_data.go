package auth

import "github.com/nfrund/signup/internal/registration"

// RegisterData is the view model of the registration page. Passwords are
// never carried back into the page.
type RegisterData struct {
	Email       string
	Username    string
	PhoneNumber string
	Flags       registration.PasswordPolicyFlags
	Errors      registration.ValidationErrors
	Providers   []registration.ProviderAction
}

// LoginData is the view model of the login page.
type LoginData struct {
	Email       string
	CallbackURL string
}

// HomeData is the view model of the signed-in landing page.
type HomeData struct {
	Username string
	Email    string
}
