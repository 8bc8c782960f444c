package interview

import "sync"

// Sessions holds at most one active session per user. Starting a new
// interview replaces whatever the user abandoned, which doubles as the
// "navigation away" teardown path.
type Sessions struct {
	mu     sync.Mutex
	byUser map[string]*Session
}

func NewSessions() *Sessions {
	return &Sessions{byUser: map[string]*Session{}}
}

// Put registers the session for the user, replacing any previous one.
func (s *Sessions) Put(userID string, session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[userID] = session
}

// Get returns the user's active session.
func (s *Sessions) Get(userID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.byUser[userID]
	return session, ok
}

// Delete drops the user's session.
func (s *Sessions) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byUser, userID)
}
