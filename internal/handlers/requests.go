package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/nfrund/signup/internal/registration"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a CustomValidator with the registration rules
// registered.
func NewValidator() (*CustomValidator, error) {
	v := validator.New()
	if err := registration.RegisterRules(v); err != nil {
		return nil, err
	}
	return &CustomValidator{validator: v}, nil
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// PasswordCheckRequest is posted on every keystroke in the password field.
type PasswordCheckRequest struct {
	Password string `form:"password"`
}

// PhoneCheckRequest is posted on every keystroke in the phone field.
type PhoneCheckRequest struct {
	PhoneNumber string `form:"phone_number" validate:"phonedigits"`
}

// LoginRequest is the login form.
type LoginRequest struct {
	Email       string `form:"email" validate:"required,email"`
	Password    string `form:"password" validate:"required"`
	CallbackURL string `form:"callbackUrl"`
}
