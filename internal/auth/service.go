package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/karvembu/tellerops/internal/domain"
	"github.com/karvembu/tellerops/internal/store"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords,
// so a login response never reveals which half was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserRepository is the narrow slice of the credential store the service
// needs.
type UserRepository interface {
	Create(ctx context.Context, username, passwordHash string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// dummyHash is verified when a username lookup misses, so a miss pays the
// same bcrypt cost as a hit. It is a digest of a throwaway string, not a
// credential.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Service owns registration and authentication of operator credentials.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
}

func NewService(users UserRepository, hasher PasswordHasher) *Service {
	return &Service{users: users, hasher: hasher}
}

// Register hashes the password and persists a new user. The plaintext is
// never stored or logged. A taken username returns store.ErrDuplicateUsername.
func (s *Service) Register(ctx context.Context, username, password string) (*domain.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("password hashing failed: %w", err)
	}

	user, err := s.users.Create(ctx, username, hash)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Authenticate verifies the password against the stored digest and returns
// the user on match. Unknown usernames still run a bcrypt verification
// against dummyHash to keep the response time uniform.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.hasher.Verify(password, dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
