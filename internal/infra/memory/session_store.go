package memory

import (
	"sync"
	"time"

	"crossword-service/internal/app"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
// Sessions idle for longer than the TTL are evicted; a zero TTL keeps them forever.
type SessionStore struct {
	ttl   time.Duration
	clock func() time.Time

	mu       sync.Mutex
	sessions map[string]*storedSession
}

type storedSession struct {
	session  *app.Session
	lastSeen time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return NewSessionStoreWithClock(ttl, time.Now)
}

// NewSessionStoreWithClock allows deterministic expiry in tests.
func NewSessionStoreWithClock(ttl time.Duration, clock func() time.Time) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		clock:    clock,
		sessions: make(map[string]*storedSession),
	}
}

func (s *SessionStore) Put(session *app.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID()] = &storedSession{session: session, lastSeen: s.clock()}
}

// Get returns a live session and slides its expiry.
func (s *SessionStore) Get(gameID string) (*app.Session, bool) {
	s.mu.Lock()
	entry, ok := s.sessions[gameID]
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	now := s.clock()
	if s.expired(entry, now) {
		delete(s.sessions, gameID)
		s.mu.Unlock()
		entry.session.Close()
		return nil, false
	}
	entry.lastSeen = now
	s.mu.Unlock()
	return entry.session, true
}

func (s *SessionStore) Delete(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, gameID)
}

// Prune evicts idle sessions, closes their subscriptions and returns the evicted game ids.
func (s *SessionStore) Prune() []string {
	now := s.clock()
	var evicted []*app.Session

	s.mu.Lock()
	for id, entry := range s.sessions {
		if s.expired(entry, now) {
			delete(s.sessions, id)
			evicted = append(evicted, entry.session)
		}
	}
	s.mu.Unlock()

	ids := make([]string, 0, len(evicted))
	for _, session := range evicted {
		session.Close()
		ids = append(ids, session.ID())
	}
	return ids
}

// Len reports how many sessions are held.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) expired(entry *storedSession, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.lastSeen) > s.ttl
}
