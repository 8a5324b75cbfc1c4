// Package regapi is the registration endpoint: the service that creates
// accounts, its JSON handler, and an HTTP client for pages that talk to a
// remote instance.
package regapi

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nfrund/signup/internal/domain"
	"github.com/nfrund/signup/internal/pubsub"
	"github.com/nfrund/signup/internal/registration"
)

// Messages returned in RegisterResponse.Error.
const (
	MsgEmailTaken      = "A user with this email already exists."
	MsgInvalidEmail    = "Please enter a valid email address."
	MsgInvalidUsername = "Please choose a username of up to 64 characters."
	MsgInvalidPassword = "Password must be at least 8 characters long."
	MsgInternal        = "Could not create your account."
)

// UserRegistered is the typed event published after each sign-up.
var UserRegistered = pubsub.NewEvent[domain.UserRegistered](domain.TopicUserRegistered)

// Service creates accounts in a user repository. It satisfies
// registration.RegistrationAPI for in-process use.
type Service struct {
	users     domain.UserRepository
	publisher pubsub.Publisher
	validate  *validator.Validate
}

// NewService creates a Service. publisher may be nil.
func NewService(users domain.UserRepository, publisher pubsub.Publisher) *Service {
	return &Service{
		users:     users,
		publisher: publisher,
		validate:  validator.New(),
	}
}

// Register validates the request, creates the user and announces it.
// Rejections are reported in the response; only unexpected failures are
// returned as errors.
func (s *Service) Register(ctx context.Context, req registration.RegisterRequest) (registration.RegisterResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	if msg := s.check(req); msg != "" {
		return registration.RegisterResponse{Success: false, Error: msg}, nil
	}

	user := &domain.User{Email: req.Email, Username: req.Username}
	if _, err := s.users.SignUp(ctx, user, req.Password); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return registration.RegisterResponse{Success: false, Error: MsgEmailTaken}, nil
		}
		return registration.RegisterResponse{}, err
	}

	if s.publisher != nil {
		event := domain.UserRegistered{Email: user.Email, Username: user.Username}
		if err := pubsub.Publish(ctx, s.publisher, UserRegistered, user.ID, event); err != nil {
			// The account exists; a lost notification is not worth failing for.
			slog.ErrorContext(ctx, "Failed to publish registration event", "email", user.Email, "error", err)
		}
	}

	slog.InfoContext(ctx, "User registered", "email", user.Email, "username", user.Username)
	return registration.RegisterResponse{Success: true}, nil
}

// check returns the message for the first failing field, or "".
func (s *Service) check(req registration.RegisterRequest) string {
	err := s.validate.Struct(req)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return MsgInternal
	}
	switch verrs[0].Field() {
	case "Email":
		return MsgInvalidEmail
	case "Username":
		return MsgInvalidUsername
	default:
		return MsgInvalidPassword
	}
}
