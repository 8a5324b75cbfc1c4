package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nfrund/signup/internal/config"
	"github.com/nfrund/signup/internal/domain"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// accessMethod is the record access defined in the database schema:
//
//	DEFINE ACCESS account ON DATABASE TYPE RECORD
//	  SIGNUP ( CREATE user SET email = $email, username = $username,
//	           password = crypto::argon2::generate($password), createdAt = time::now() )
//	  SIGNIN ( SELECT * FROM user WHERE email = $email
//	           AND crypto::argon2::compare(password, $password) );
const accessMethod = "account"

// userRecord is the shape of a user row as stored in SurrealDB.
type userRecord struct {
	ID        *surrealmodels.RecordID `json:"id,omitempty"`
	Email     string                  `json:"email"`
	Username  string                  `json:"username"`
	CreatedAt time.Time               `json:"createdAt"`
}

func (r *userRecord) toDomain() *domain.User {
	u := &domain.User{Email: r.Email, Username: r.Username, CreatedAt: r.CreatedAt}
	if r.ID != nil {
		u.ID = r.ID.String()
	}
	return u
}

// SurrealUserStore implements domain.UserRepository on SurrealDB record
// access. Sign-up and sign-in change the authentication of the connection
// they run on, so the store should own a dedicated connection.
type SurrealUserStore struct {
	db     *surrealdb.DB
	ns     string
	dbName string
}

// NewSurrealUserStore creates a new SurrealUserStore.
func NewSurrealUserStore(db *surrealdb.DB, cfg config.Provider) *SurrealUserStore {
	return &SurrealUserStore{db: db, ns: cfg.GetDBNs(), dbName: cfg.GetDBDb()}
}

func (s *SurrealUserStore) authData(email, password string, extra map[string]any) map[string]any {
	data := map[string]any{
		"ns":       s.ns,
		"db":       s.dbName,
		"ac":       accessMethod,
		"email":    email,
		"password": password,
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}

// SignUp uses the driver's record access sign-up and returns the new token.
func (s *SurrealUserStore) SignUp(ctx context.Context, user *domain.User, password string) (string, error) {
	existing, err := s.FindUserByEmail(ctx, user.Email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", domain.ErrUserAlreadyExists
	}

	token, err := s.db.SignUp(ctx, s.authData(user.Email, password, map[string]any{"username": user.Username}))
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return "", domain.ErrUserAlreadyExists
		}
		return "", fmt.Errorf("surreal sign up: %w", err)
	}

	// After a successful sign-up, the user object is not populated with the ID.
	created, err := s.FindUserByEmail(ctx, user.Email)
	if err != nil {
		return "", fmt.Errorf("failed to fetch user after sign-up: %w", err)
	}
	if created != nil {
		user.ID = created.ID
		user.CreatedAt = created.CreatedAt
	}

	slog.InfoContext(ctx, "Signed up user", "email", user.Email)
	return token, nil
}

// SignIn uses the driver's record access sign-in.
func (s *SurrealUserStore) SignIn(ctx context.Context, email, password string) (string, error) {
	token, err := s.db.SignIn(ctx, s.authData(email, password, nil))
	if err != nil {
		slog.DebugContext(ctx, "Surreal sign in failed", "email", email, "error", err)
		return "", domain.ErrInvalidCredentials
	}
	return token, nil
}

// Authenticate validates a session token and returns the associated user.
func (s *SurrealUserStore) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if err := s.db.Authenticate(ctx, token); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	rec, err := QueryOne[userRecord](ctx, s.db, "SELECT * FROM $auth", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated user: %w", err)
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec.toDomain(), nil
}

// FindUserByEmail returns nil, nil when no user has the address.
func (s *SurrealUserStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	rec, err := QueryOne[userRecord](ctx, s.db, "SELECT * FROM user WHERE email = $email", map[string]any{"email": email})
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	if rec == nil {
		return nil, nil
	}
	return rec.toDomain(), nil
}
