package shop

import "sync"

// Store maps user identifiers to their active Session. Sessions are kept
// purely in memory; a process restart drops all in-progress conversations.
//
// Get/Set/Delete are safe for concurrent use on their own. When the bot
// runtime may deliver two updates for the same user concurrently, callers
// must wrap the read-modify-write in Lock(userID) so the user's events apply
// in order.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]Session

	lockMu sync.Mutex
	locks  map[int64]*sync.Mutex
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]Session),
		locks:    make(map[int64]*sync.Mutex),
	}
}

// Get returns the session for the user, if one exists.
func (s *Store) Get(userID int64) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

// Set stores the session, keyed by its UserID.
func (s *Store) Set(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.UserID] = sess
}

// Delete removes the user's session and reports whether one existed.
func (s *Store) Delete(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[userID]
	delete(s.sessions, userID)
	return ok
}

// Len returns the number of active sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Lock serializes event handling for one user and returns the unlock
// function. Per-user mutexes are never evicted; the map grows with the
// set of users seen, same as the session map itself.
func (s *Store) Lock(userID int64) func() {
	s.lockMu.Lock()
	m, ok := s.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[userID] = m
	}
	s.lockMu.Unlock()

	m.Lock()
	return m.Unlock
}
