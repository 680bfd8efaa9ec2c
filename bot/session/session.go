// Package session keeps per-user conversation state for the duration of the
// process. Entries are created on first write and never expire.
package session

import "sync"

// Format is the media kind a user asked for.
type Format string

const (
	FormatMusic Format = "music"
	FormatVideo Format = "video"
	FormatBoth  Format = "both"
)

// Session holds the transient state of one user's conversation. hasQuery
// distinguishes a stored empty query (accepted, forwarded downstream) from
// no query at all.
type Session struct {
	PendingQuery string
	ChosenFormat Format

	hasQuery bool
}

// Store is a concurrency-safe in-memory session map keyed by user ID.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[int64]*Session)}
}

// SetQuery records the user's pending query, overwriting any previous one.
func (s *Store) SetQuery(userID int64, query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[userID]
	if sess == nil {
		sess = &Session{}
		s.sessions[userID] = sess
	}
	sess.PendingQuery = query
	sess.hasQuery = true
}

// Query returns the pending query for the user, if any.
func (s *Store) Query(userID int64) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[userID]
	if sess == nil || !sess.hasQuery {
		return "", false
	}
	return sess.PendingQuery, true
}

// SetFormat records the user's chosen format. The selection only matters while
// a pending query exists, but storing it unconditionally is harmless.
func (s *Store) SetFormat(userID int64, f Format) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[userID]
	if sess == nil {
		sess = &Session{}
		s.sessions[userID] = sess
	}
	sess.ChosenFormat = f
}

// Clear resets the user's session to its initial state.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
