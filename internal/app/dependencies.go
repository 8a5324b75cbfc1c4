package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nfrund/signup/internal/config"
	"github.com/nfrund/signup/internal/domain"
	"github.com/nfrund/signup/internal/identity"
	"github.com/nfrund/signup/internal/notifications"
	"github.com/nfrund/signup/internal/pubsub"
	"github.com/nfrund/signup/internal/regapi"
	"github.com/nfrund/signup/internal/registration"
	"github.com/samber/do/v2"
)

// Dependencies holds the resolved services the HTTP server is built from.
type Dependencies struct {
	Config          config.Provider
	Users           domain.UserRepository
	Identity        *identity.Service
	Catalog         *identity.Catalog
	RegistrationAPI registration.RegistrationAPI
	Registration    *regapi.Service
	InFlight        *registration.InFlight
	Bus             *pubsub.WatermillBridge
	Welcomer        *notifications.Welcomer
	Closer          *Closer
}

// Resolve builds every service registered on the injector.
func Resolve(i do.Injector) (Dependencies, error) {
	var deps Dependencies
	var err error

	deps.Config = do.MustInvoke[config.Provider](i)
	deps.Closer = do.MustInvoke[*Closer](i)
	deps.InFlight = do.MustInvoke[*registration.InFlight](i)

	if deps.Users, err = do.Invoke[domain.UserRepository](i); err != nil {
		return deps, fmt.Errorf("user store: %w", err)
	}
	if deps.Catalog, err = do.Invoke[*identity.Catalog](i); err != nil {
		return deps, fmt.Errorf("provider catalog: %w", err)
	}
	if deps.Identity, err = do.Invoke[*identity.Service](i); err != nil {
		return deps, fmt.Errorf("identity: %w", err)
	}
	if deps.Bus, err = do.Invoke[*pubsub.WatermillBridge](i); err != nil {
		return deps, fmt.Errorf("event bus: %w", err)
	}
	if deps.Registration, err = do.Invoke[*regapi.Service](i); err != nil {
		return deps, fmt.Errorf("registration service: %w", err)
	}
	if deps.RegistrationAPI, err = do.Invoke[registration.RegistrationAPI](i); err != nil {
		return deps, fmt.Errorf("registration endpoint: %w", err)
	}
	if deps.Welcomer, err = do.Invoke[*notifications.Welcomer](i); err != nil {
		return deps, fmt.Errorf("email: %w", err)
	}
	return deps, nil
}

// Start launches the background work: welcome emails and, when the
// providers come from a file, reloading that file on change.
func (d Dependencies) Start(ctx context.Context) error {
	if err := d.Welcomer.Start(ctx, d.Bus); err != nil {
		return err
	}
	if d.Config.GetProvidersFile() != "" {
		if err := d.Catalog.Watch(ctx); err != nil {
			// The catalog already loaded; it just won't pick up edits.
			slog.Warn("Provider catalog will not reload", "error", err)
		}
	}
	return nil
}

// timeoutAPI bounds each in-process registration call the same way the
// HTTP client bounds a remote one.
type timeoutAPI struct {
	api     registration.RegistrationAPI
	timeout time.Duration
}

func (t timeoutAPI) Register(ctx context.Context, req registration.RegisterRequest) (registration.RegisterResponse, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	return t.api.Register(ctx, req)
}
