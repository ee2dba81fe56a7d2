package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION STORE
// Opaque bearer tokens mapped to session state. Sessions also carry the
// admin preview toggle, so flipping it affects only the admin's own view.
// ══════════════════════════════════════════════════════════════════════════════

// SessionTTL is how long a session lives without being refreshed.
const SessionTTL = 24 * time.Hour

// tokenBytes is the entropy of a session token before hex encoding.
const tokenBytes = 32

// ErrSessionNotFound is returned for unknown or expired tokens.
var ErrSessionNotFound = errors.New("session: not found")

// Session is the state stored per signed-in board member.
type Session struct {
	Email   shared.Email `json:"email"`
	Name    string       `json:"name"`
	IsAdmin bool         `json:"isAdmin"`

	// PreviewAllComplete is the admin's testing toggle: when set, the
	// review board renders as if every member had voted.
	PreviewAllComplete bool `json:"previewAllComplete"`

	CreatedAt time.Time `json:"createdAt"`
}

// SessionStore persists sessions in Redis with a sliding TTL.
type SessionStore struct {
	cache *Cache
	ttl   time.Duration
}

// NewSessionStore creates a session store with the default TTL.
func NewSessionStore(cache *Cache) *SessionStore {
	return &SessionStore{cache: cache, ttl: SessionTTL}
}

// Create opens a session and returns its token.
func (s *SessionStore) Create(ctx context.Context, sess *Session) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}
	if err := s.cache.Set(ctx, PrefixSession+token, sess, s.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Get returns the session for a token and slides its expiry.
func (s *SessionStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	var sess Session
	if err := s.cache.Get(ctx, PrefixSession+token, &sess); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	// Sliding expiry; a refresh failure does not invalidate the session.
	_ = s.cache.Expire(ctx, PrefixSession+token, s.ttl)

	return &sess, nil
}

// Update rewrites the session state for an existing token.
func (s *SessionStore) Update(ctx context.Context, token string, sess *Session) error {
	if token == "" {
		return ErrSessionNotFound
	}
	if _, err := s.Get(ctx, token); err != nil {
		return err
	}
	return s.cache.Set(ctx, PrefixSession+token, sess, s.ttl)
}

// Delete closes a session. Deleting an unknown token is not an error.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.cache.Delete(ctx, PrefixSession+token)
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
