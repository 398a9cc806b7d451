// Package session manages opaque-token sessions backed by a TTL store.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// tokenLen is the number of random bytes per token (hex encoded on the wire).
const tokenLen = 32

// Record is the persisted state of one session. A user may hold several
// concurrent sessions; each record is independent.
type Record struct {
	UserID        string    `json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
	LastTouchedAt time.Time `json:"last_touched_at"`
}

// Store persists session records with a TTL. Implementations must treat
// deletion of an absent record as success.
type Store interface {
	GetSession(ctx context.Context, token string) (*Record, error)
	SaveSession(ctx context.Context, token string, rec *Record, ttl time.Duration) error
	DeleteSession(ctx context.Context, token string) error
}

// Manager issues, resolves and destroys sessions.
type Manager struct {
	store      Store
	ttl        time.Duration
	touchAfter time.Duration
	now        func() time.Time
}

// NewManager creates a Manager. Sessions expire ttl after their last
// touch; a resolve rewrites the record only when it is older than
// touchAfter, bounding write amplification on busy sessions.
func NewManager(store Store, ttl, touchAfter time.Duration) *Manager {
	return &Manager{
		store:      store,
		ttl:        ttl,
		touchAfter: touchAfter,
		now:        time.Now,
	}
}

// NewToken generates a cryptographically random session token.
func NewToken() (string, error) {
	buf := make([]byte, tokenLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Create issues a new session for the user and returns its token.
func (m *Manager) Create(ctx context.Context, userID string) (string, error) {
	token, err := NewToken()
	if err != nil {
		return "", err
	}

	now := m.now()
	rec := &Record{
		UserID:        userID,
		CreatedAt:     now,
		LastTouchedAt: now,
	}

	if err := m.store.SaveSession(ctx, token, rec, m.ttl); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	return token, nil
}

// Resolve maps a token to its user ID. It fails closed: a miss or an
// expired record yields an empty ID with no error, and a store error
// yields an empty ID with the error for logging. Sessions are touched
// lazily; a failed touch never invalidates an otherwise valid resolve.
func (m *Manager) Resolve(ctx context.Context, token string) (string, error) {
	rec, err := m.store.GetSession(ctx, token)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", nil
	}

	elapsed := m.now().Sub(rec.LastTouchedAt)
	if elapsed > m.ttl {
		// Stale record the store has not evicted yet.
		return "", nil
	}

	if elapsed > m.touchAfter {
		rec.LastTouchedAt = m.now()
		// Last-write-wins is fine here: concurrent touches only extend expiry.
		_ = m.store.SaveSession(ctx, token, rec, m.ttl)
	}

	return rec.UserID, nil
}

// Destroy removes the session. Destroying an absent or already-destroyed
// session is success; only storage failures are errors.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if err := m.store.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
