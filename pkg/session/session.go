// Package session stores per-call grid sessions.
//
// A session captures the durable part of a call's grid state: the tile
// arrangement the user built (tile order, PiP corner, chosen mode) keyed by
// a session ID. Backends:
//   - memory: in-process storage for development and tests
//   - redis: shared storage for multi-instance deployments
//   - file: local storage for the CLI demo
//
// Sessions expire after a TTL; expired sessions read as not found.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kazin-kharizma/element-call/pkg/errors"
	"github.com/kazin-kharizma/element-call/pkg/grid/state"
)

// DefaultTTL is the default session duration.
const DefaultTTL = 24 * time.Hour

// Session is one call's saved grid state.
type Session struct {
	ID          string            `json:"id"`
	Arrangement state.Arrangement `json:"arrangement"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

// IsExpired reports whether the session has exceeded its TTL.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID. Returns nil, nil if the session does
	// not exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (may be a no-op for backends with
	// native expiry).
	Cleanup(ctx context.Context) error
}

// GenerateID creates a new random session ID.
func GenerateID() string {
	return uuid.NewString()
}

// New creates a session with a fresh ID and the given arrangement.
func New(a state.Arrangement, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:          GenerateID(),
		Arrangement: a,
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

// NotFound wraps a missing-session failure for the given ID.
func NotFound(sessionID string) error {
	return errors.New(errors.ErrCodeSessionNotFound, "session %s not found", sessionID)
}
