// Package app wires the application's services together.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nfrund/signup/internal/config"
	"github.com/nfrund/signup/internal/database"
	"github.com/nfrund/signup/internal/domain"
	"github.com/nfrund/signup/internal/email"
	"github.com/nfrund/signup/internal/identity"
	"github.com/nfrund/signup/internal/notifications"
	"github.com/nfrund/signup/internal/pubsub"
	"github.com/nfrund/signup/internal/regapi"
	"github.com/nfrund/signup/internal/registration"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"
)

// Closer releases resources in reverse order of acquisition.
type Closer struct {
	mu  sync.Mutex
	fns []func(context.Context) error
}

// Add registers fn to run on Close.
func (c *Closer) Add(fn func(context.Context) error) {
	c.mu.Lock()
	c.fns = append(c.fns, fn)
	c.mu.Unlock()
}

// Close runs every registered function, last added first.
func (c *Closer) Close(ctx context.Context) error {
	c.mu.Lock()
	fns := c.fns
	c.fns = nil
	c.mu.Unlock()

	var errs []error
	for i := len(fns) - 1; i >= 0; i-- {
		if err := fns[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewInjector registers every service provider. Services are built lazily
// on first Invoke.
func NewInjector(cfg config.Provider) *do.RootScope {
	i := do.New()

	do.ProvideValue[config.Provider](i, cfg)
	do.ProvideValue(i, &Closer{})
	do.ProvideValue(i, registration.NewInFlight())

	do.Provide(i, provideUserRepository)
	do.Provide(i, provideBus)
	do.Provide(i, provideEmailSender)
	do.Provide(i, provideCatalog)
	do.Provide(i, provideIdentity)
	do.Provide(i, provideRegistrationService)
	do.Provide(i, provideRegistrationAPI)
	do.Provide(i, provideWelcomer)

	return i
}

func provideUserRepository(i do.Injector) (domain.UserRepository, error) {
	cfg := do.MustInvoke[config.Provider](i)

	switch cfg.GetUserStore() {
	case "surreal":
		db, err := database.NewDB(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		do.MustInvoke[*Closer](i).Add(func(ctx context.Context) error {
			return db.Close(ctx)
		})
		return database.NewSurrealUserStore(db, cfg), nil
	case "memory", "":
		slog.Warn("Using the in-memory user store; accounts are lost on restart")
		return database.NewMemoryUserStore(nil), nil
	default:
		return nil, fmt.Errorf("unknown user store %q", cfg.GetUserStore())
	}
}

func provideBus(i do.Injector) (*pubsub.WatermillBridge, error) {
	bus := pubsub.NewWatermillBridge()
	do.MustInvoke[*Closer](i).Add(func(context.Context) error {
		return bus.Close()
	})
	return bus, nil
}

func provideEmailSender(i do.Injector) (domain.EmailSender, error) {
	return email.NewEmailService(do.MustInvoke[config.Provider](i))
}

func provideCatalog(i do.Injector) (*identity.Catalog, error) {
	cfg := do.MustInvoke[config.Provider](i)
	return identity.NewCatalog(afero.NewOsFs(), cfg.GetProvidersFile())
}

func provideIdentity(i do.Injector) (*identity.Service, error) {
	cfg := do.MustInvoke[config.Provider](i)
	users, err := do.Invoke[domain.UserRepository](i)
	if err != nil {
		return nil, err
	}
	catalog, err := do.Invoke[*identity.Catalog](i)
	if err != nil {
		return nil, err
	}
	return identity.NewService(users, catalog, cfg.GetAppBaseURL(), cfg.GetRegistrationCallbackURL()), nil
}

func provideRegistrationService(i do.Injector) (*regapi.Service, error) {
	users, err := do.Invoke[domain.UserRepository](i)
	if err != nil {
		return nil, err
	}
	bus, err := do.Invoke[*pubsub.WatermillBridge](i)
	if err != nil {
		return nil, err
	}
	return regapi.NewService(users, bus), nil
}

// provideRegistrationAPI selects what the registration page calls: the
// in-process service, or a remote endpoint when one is configured.
func provideRegistrationAPI(i do.Injector) (registration.RegistrationAPI, error) {
	cfg := do.MustInvoke[config.Provider](i)
	if url := cfg.GetRegistrationAPIURL(); url != "" {
		slog.Info("Using remote registration endpoint", "url", url)
		return regapi.NewClient(url, cfg.GetRegistrationTimeout()), nil
	}
	svc, err := do.Invoke[*regapi.Service](i)
	if err != nil {
		return nil, err
	}
	return timeoutAPI{api: svc, timeout: cfg.GetRegistrationTimeout()}, nil
}

func provideWelcomer(i do.Injector) (*notifications.Welcomer, error) {
	cfg := do.MustInvoke[config.Provider](i)
	sender, err := do.Invoke[domain.EmailSender](i)
	if err != nil {
		return nil, err
	}
	return notifications.NewWelcomer(sender, cfg.GetAppBaseURL(), nil), nil
}
