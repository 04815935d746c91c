// Package session implements server-side sessions behind an explicit store
// interface.
//
// The browser holds only an opaque token (signed into a cookie by
// internal/auth); everything the session asserts — who is logged in — lives
// in the store. That makes logout authoritative: clearing the record kills
// the session everywhere, regardless of what cookies are still floating
// around.
//
// The store is injected into handlers rather than accessed as ambient state,
// so tests can swap in their own and a Redis-backed implementation could be
// added without touching a handler.
package session

import (
	"sync"
	"time"

	"github.com/rs/xid"
)

// Session is the server-held record of one authenticated login.
type Session struct {
	Token     string
	UserID    string
	Email     string
	Username  string
	CreatedAt time.Time
}

// Store is the capability handlers get: look up, create, and destroy
// sessions by token.
type Store interface {
	// Get returns the session for a token, or (nil, false) if none exists.
	Get(token string) (*Session, bool)
	// Create makes a new session for the user and returns its token.
	Create(userID, email, username string) *Session
	// Clear destroys the session for a token. Clearing an unknown or empty
	// token is a no-op — logout never fails.
	Clear(token string)
}

// MemoryStore is an in-process Store guarded by a RWMutex.
//
// Sessions live until logout or process restart; no expiry policy is layered
// on top (the signed cookie already bounds how long a token verifies).
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Get(token string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	// Return a copy so callers can't mutate the stored record.
	copied := *sess
	return &copied, true
}

func (s *MemoryStore) Create(userID, email, username string) *Session {
	sess := &Session{
		Token:     xid.New().String(),
		UserID:    userID,
		Email:     email,
		Username:  username,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()

	copied := *sess
	return &copied
}

func (s *MemoryStore) Clear(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
