package database

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/signup/internal/domain"
)

type memoryUser struct {
	user         domain.User
	passwordHash string
}

// MemoryUserStore is an in-process domain.UserRepository for development and
// tests. Emails are matched case-insensitively; tokens never expire.
type MemoryUserStore struct {
	hasher *Hasher
	now    func() time.Time

	mu     sync.RWMutex
	users  map[string]*memoryUser // keyed by normalized email
	tokens map[string]string      // token -> normalized email
}

// NewMemoryUserStore creates an empty store. A nil hasher uses bcrypt's
// default cost.
func NewMemoryUserStore(hasher *Hasher) *MemoryUserStore {
	if hasher == nil {
		hasher = NewHasher(0)
	}
	return &MemoryUserStore{
		hasher: hasher,
		now:    time.Now,
		users:  make(map[string]*memoryUser),
		tokens: make(map[string]string),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp stores the user with a hashed password and returns a fresh token.
func (s *MemoryUserStore) SignUp(ctx context.Context, user *domain.User, password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", err
	}

	key := normalizeEmail(user.Email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[key]; exists {
		return "", domain.ErrUserAlreadyExists
	}

	user.ID = "user:" + uuid.NewString()
	user.CreatedAt = s.now().UTC()
	s.users[key] = &memoryUser{user: *user, passwordHash: hash}

	return s.issueToken(key), nil
}

// SignIn checks the password and returns a fresh token.
func (s *MemoryUserStore) SignIn(ctx context.Context, email, password string) (string, error) {
	key := normalizeEmail(email)

	s.mu.RLock()
	u, ok := s.users[key]
	s.mu.RUnlock()
	if !ok {
		return "", domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(u.passwordHash, password); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueToken(key), nil
}

// issueToken must be called with s.mu held for writing.
func (s *MemoryUserStore) issueToken(key string) string {
	token := uuid.NewString()
	s.tokens[token] = key
	return token
}

// Authenticate resolves a token issued by SignUp or SignIn.
func (s *MemoryUserStore) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.tokens[token]
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	u, ok := s.users[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	user := u.user
	return &user, nil
}

// FindUserByEmail returns nil, nil when no user has the address.
func (s *MemoryUserStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[normalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	user := u.user
	return &user, nil
}
