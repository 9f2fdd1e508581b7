// Package session keeps the workspaces of the web drop zone.
//
// Each browser tab that talks to `lottieframes serve` gets its own session:
// a random ID plus an [exporter.Exporter] holding the files dropped so far.
// Sessions live in memory only and expire after a period of inactivity;
// expiry cancels any render still running for them.
//
// # Usage
//
//	store := session.NewMemoryStore(newExporter, session.DefaultTTL)
//	defer store.Close()
//
//	sess, err := store.Create(ctx)
//	...
//	sess, err = store.Get(ctx, id)
//	if errors.Is(err, session.ErrNotFound) { ... }
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/lottieframes/pkg/exporter"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("session expired")
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = time.Hour

// Session is one workspace of the web UI.
type Session struct {
	ID        string
	CreatedAt time.Time
	Exporter  *exporter.Exporter

	// ctx bounds background renders of this session.
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	expiresAt time.Time
}

// Context is cancelled when the session ends. Files opened into the
// session's exporter should use it so their renders stop with the session.
func (s *Session) Context() context.Context { return s.ctx }

// ExpiresAt reports when the session expires unless it is used again.
func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

func (s *Session) expired(now time.Time) bool {
	return now.After(s.ExpiresAt())
}

func (s *Session) touch(now time.Time, ttl time.Duration) {
	s.mu.Lock()
	s.expiresAt = now.Add(ttl)
	s.mu.Unlock()
}

func (s *Session) close() {
	s.cancel()
	s.Exporter.Close()
}

// NewID returns a random session ID.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the shape of a session ID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Create starts a new session with an empty workspace.
	Create(ctx context.Context) (*Session, error)

	// Get returns the session and extends its lifetime.
	// Returns ErrNotFound or ErrExpired when it cannot be used.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete ends a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup ends all expired sessions and reports how many there were.
	Cleanup(ctx context.Context) (int, error)

	// Close ends every session.
	Close() error
}
