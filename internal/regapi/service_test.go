package regapi

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nfrund/signup/internal/database"
	"github.com/nfrund/signup/internal/domain"
	"github.com/nfrund/signup/internal/pubsub"
	"github.com/nfrund/signup/internal/registration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []pubsub.Message
	err  error
}

func (p *recordingPublisher) Publish(ctx context.Context, msg pubsub.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func newTestService(pub pubsub.Publisher) (*Service, *database.MemoryUserStore) {
	store := database.NewMemoryUserStore(database.NewHasher(bcrypt.MinCost))
	return NewService(store, pub), store
}

func validRequest() registration.RegisterRequest {
	return registration.RegisterRequest{Email: "new@example.com", Username: "newbie", Password: "Abc12345!"}
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc, store := newTestService(pub)

	resp, err := svc.Register(ctx, validRequest())
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Error)

	u, err := store.FindUserByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "newbie", u.Username)

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, domain.TopicUserRegistered, pub.msgs[0].Topic)
	assert.Equal(t, u.ID, pub.msgs[0].UserID)
	assert.JSONEq(t, `{"email":"new@example.com","username":"newbie"}`, string(pub.msgs[0].Payload))

	t.Run("duplicate email", func(t *testing.T) {
		resp, err := svc.Register(ctx, validRequest())
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, MsgEmailTaken, resp.Error)
	})
}

func TestService_RegisterValidation(t *testing.T) {
	svc, _ := newTestService(nil)

	tests := []struct {
		name string
		mod  func(*registration.RegisterRequest)
		want string
	}{
		{"missing email", func(r *registration.RegisterRequest) { r.Email = "  " }, MsgInvalidEmail},
		{"bad email", func(r *registration.RegisterRequest) { r.Email = "not-an-email" }, MsgInvalidEmail},
		{"missing username", func(r *registration.RegisterRequest) { r.Username = "" }, MsgInvalidUsername},
		{"short password", func(r *registration.RegisterRequest) { r.Password = "short" }, MsgInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mod(&req)
			resp, err := svc.Register(context.Background(), req)
			require.NoError(t, err)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.want, resp.Error)
		})
	}
}

func TestService_PublishFailureDoesNotFailRegistration(t *testing.T) {
	svc, _ := newTestService(&recordingPublisher{err: errors.New("bus down")})

	resp, err := svc.Register(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, resp.Success)
}
