// Package session holds the signed-in user state for the mobile app core.
package session

import "sync"

// Session is the signed-in user snapshot.
type Session struct {
	UserID      string
	Email       string
	DisplayName string
	Admin       bool
}

// Store keeps the current session. Writes replace the whole value; readers
// get copies, so a stored session is never mutated in place.
type Store struct {
	mu      sync.RWMutex
	current *Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the current session with the given value.
func (s *Store) Set(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &sess
}

// Clear removes the current session.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

// Current returns a copy of the current session and whether one exists.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// SignedIn reports whether a session is present.
func (s *Store) SignedIn() bool {
	_, ok := s.Current()
	return ok
}

// IsAdmin reports whether the current session belongs to an admin.
func (s *Store) IsAdmin() bool {
	sess, ok := s.Current()
	return ok && sess.Admin
}
