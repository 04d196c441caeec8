// Package session tracks authenticated logins. The browser holds an opaque
// random token in a cookie; the server keeps only an HMAC digest of it, so a
// leaked session table cannot be replayed.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/karvembu/tellerops/internal/domain"
	"github.com/karvembu/tellerops/internal/store"
)

const tokenBytes = 32

// ErrNoSession means the request carries no resolvable session and must be
// treated as anonymous.
var ErrNoSession = errors.New("no active session")

// UserLookup resolves a stored user id back to a user record. The manager
// depends on nothing else from the credential store.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type entry struct {
	userID    int64
	expiresAt time.Time
}

// Manager holds active sessions in memory, keyed by token digest. The
// process is single-instance, matching the deployment model; sessions do
// not survive a restart.
type Manager struct {
	users  UserLookup
	secret []byte
	ttl    time.Duration

	mu     sync.Mutex
	active map[string]entry
}

func NewManager(users UserLookup, secret []byte, ttl time.Duration) *Manager {
	return &Manager{
		users:  users,
		secret: secret,
		ttl:    ttl,
		active: make(map[string]entry),
	}
}

// Create mints a session for the given user and returns the plaintext token
// destined for the cookie.
func (m *Manager) Create(userID int64) (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("token generation failed: %w", err)
	}
	token := hex.EncodeToString(raw)

	m.mu.Lock()
	m.active[m.digest(token)] = entry{userID: userID, expiresAt: time.Now().Add(m.ttl)}
	m.mu.Unlock()

	return token, nil
}

// Resolve maps a token back to its user. It fails closed: unknown or
// expired tokens, and tokens whose user row has since disappeared, all
// return ErrNoSession.
func (m *Manager) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	key := m.digest(token)

	m.mu.Lock()
	e, ok := m.active[key]
	if ok && time.Now().After(e.expiresAt) {
		delete(m.active, key)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return nil, ErrNoSession
	}

	user, err := m.users.GetByID(ctx, e.userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			m.mu.Lock()
			delete(m.active, key)
			m.mu.Unlock()
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("session user lookup failed: %w", err)
	}
	return user, nil
}

// Destroy invalidates the session for the given token. Destroying an
// unknown token is a no-op.
func (m *Manager) Destroy(token string) {
	m.mu.Lock()
	delete(m.active, m.digest(token))
	m.mu.Unlock()
}

func (m *Manager) digest(token string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
