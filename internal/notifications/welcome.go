// Package notifications reacts to account events with outgoing email.
package notifications

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/nfrund/signup/internal/domain"
	"github.com/nfrund/signup/internal/pubsub"
	"github.com/nfrund/signup/internal/regapi"
	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"
)

// WelcomeSubject is the subject line of the welcome email.
const WelcomeSubject = "Welcome aboard"

// Welcomer sends a welcome email to every newly registered user.
type Welcomer struct {
	sender  domain.EmailSender
	baseURL string
	logger  *slog.Logger
}

// NewWelcomer creates a Welcomer. baseURL is linked from the email body.
func NewWelcomer(sender domain.EmailSender, baseURL string, logger *slog.Logger) *Welcomer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Welcomer{sender: sender, baseURL: baseURL, logger: logger}
}

// Start subscribes to registration events until ctx is done.
func (w *Welcomer) Start(ctx context.Context, sub pubsub.Subscriber) error {
	if err := pubsub.Subscribe(ctx, sub, regapi.UserRegistered, w.Handle); err != nil {
		return fmt.Errorf("subscribe to %s: %w", regapi.UserRegistered.Name(), err)
	}
	w.logger.Debug("Welcome emails enabled", "topic", regapi.UserRegistered.Name())
	return nil
}

// Handle sends the welcome email for one registration.
func (w *Welcomer) Handle(ctx context.Context, evt domain.UserRegistered) error {
	body, err := WelcomeBody(evt.Username, w.baseURL)
	if err != nil {
		return err
	}
	if err := w.sender.Send(evt.Email, WelcomeSubject, body); err != nil {
		return fmt.Errorf("send welcome email to %s: %w", evt.Email, err)
	}
	w.logger.InfoContext(ctx, "Welcome email sent", "email", evt.Email)
	return nil
}

// WelcomeBody renders the HTML body of the welcome email.
func WelcomeBody(username, baseURL string) (string, error) {
	name := username
	if name == "" {
		name = "there"
	}
	node := html.Div(
		html.H1(g.Textf("Hi %s,", name)),
		html.P(g.Text("Your account is ready. You are already signed in on the device you registered from.")),
		g.If(baseURL != "",
			html.P(html.A(html.Href(baseURL+"/home"), g.Text("Open your account"))),
		),
	)

	var buf bytes.Buffer
	if err := node.Render(&buf); err != nil {
		return "", fmt.Errorf("render welcome email: %w", err)
	}
	return buf.String(), nil
}
