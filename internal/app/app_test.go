package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nfrund/signup/internal/config"
	"github.com/nfrund/signup/internal/regapi"
	"github.com/nfrund/signup/internal/registration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	return &config.Config{
		AppBaseURL:              "http://localhost:8080",
		SessionSecret:           "a-very-secret-key-for-testing-!",
		UserStore:               "memory",
		RegistrationTimeout:     time.Second,
		RegistrationCallbackURL: "/home",
		EmailProvider:           "log",
		RateLimitPerMinute:      10,
	}
}

func TestCloser(t *testing.T) {
	var order []int
	c := &Closer{}
	c.Add(func(context.Context) error { order = append(order, 1); return nil })
	c.Add(func(context.Context) error { order = append(order, 2); return errors.New("boom") })
	c.Add(func(context.Context) error { order = append(order, 3); return nil })

	err := c.Close(context.Background())
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []int{3, 2, 1}, order)

	assert.NoError(t, c.Close(context.Background()), "second close runs nothing")
	assert.Len(t, order, 3)
}

func TestResolve_Memory(t *testing.T) {
	deps, err := Resolve(NewInjector(memoryConfig()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Closer.Close(context.Background()) })

	assert.NotNil(t, deps.Users)
	assert.NotNil(t, deps.Identity)
	assert.NotNil(t, deps.Welcomer)
	assert.Empty(t, deps.Catalog.Providers())
	assert.IsType(t, timeoutAPI{}, deps.RegistrationAPI)

	resp, err := deps.RegistrationAPI.Register(context.Background(), registration.RegisterRequest{
		Email: "wired@example.com", Username: "wired", Password: "Abc12345!",
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	sess, err := deps.Identity.SignInWithCredentials(context.Background(), registration.Credentials{
		Email: "wired@example.com", Password: "Abc12345!",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "/home", sess.RedirectURL)
}

func TestResolve_RemoteRegistrationEndpoint(t *testing.T) {
	cfg := memoryConfig()
	cfg.RegistrationAPIURL = "http://registration.internal/api/register"

	deps, err := Resolve(NewInjector(cfg))
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Closer.Close(context.Background()) })

	assert.IsType(t, &regapi.Client{}, deps.RegistrationAPI)
}

func TestResolve_UnknownUserStore(t *testing.T) {
	cfg := memoryConfig()
	cfg.UserStore = "postgres"

	_, err := Resolve(NewInjector(cfg))
	assert.ErrorContains(t, err, "user store")
}

func TestResolve_MissingProvidersFile(t *testing.T) {
	cfg := memoryConfig()
	cfg.ProvidersFile = "/does/not/exist.yaml"

	_, err := Resolve(NewInjector(cfg))
	assert.ErrorContains(t, err, "provider catalog")
}

type slowAPI struct{}

func (slowAPI) Register(ctx context.Context, _ registration.RegisterRequest) (registration.RegisterResponse, error) {
	<-ctx.Done()
	return registration.RegisterResponse{}, ctx.Err()
}

func TestTimeoutAPI(t *testing.T) {
	api := timeoutAPI{api: slowAPI{}, timeout: 10 * time.Millisecond}
	_, err := api.Register(context.Background(), registration.RegisterRequest{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
