package redis

import (
	"context"
	"time"

	"crossword-service/internal/app"
	"crossword-service/internal/infra/memory"
	"github.com/redis/go-redis/v9"
)

// SessionStore is a Redis-aware implementation of SessionRepository.
// Notes:
//   - Sessions stay in a local idle-expiring store; the game engine and subscriber fan-out
//     are in-process.
//   - Redis holds a liveness marker per game so other instances and operators can see
//     which games are active. The marker slides with the same TTL as the local entry and
//     is removed when the game ends or is evicted.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	local  *memory.SessionStore
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return newSessionStoreWithClock(client, ttl, time.Now)
}

func newSessionStoreWithClock(client *redis.Client, ttl time.Duration, clock func() time.Time) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
		local:  memory.NewSessionStoreWithClock(ttl, clock),
	}
}

func (s *SessionStore) Put(session *app.Session) {
	s.local.Put(session)
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), Key(session.ID()), "1", s.ttl).Err()
}

func (s *SessionStore) Get(gameID string) (*app.Session, bool) {
	session, ok := s.local.Get(gameID)
	if !ok {
		_ = s.client.Del(context.Background(), Key(gameID)).Err()
		return nil, false
	}
	if s.ttl > 0 {
		_ = s.client.Expire(context.Background(), Key(gameID), s.ttl).Err()
	}
	return session, true
}

func (s *SessionStore) Delete(gameID string) {
	s.local.Delete(gameID)
	_ = s.client.Del(context.Background(), Key(gameID)).Err()
}

// Prune evicts idle games locally and drops their liveness keys.
func (s *SessionStore) Prune() []string {
	ids := s.local.Prune()
	if len(ids) == 0 {
		return ids
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = Key(id)
	}
	_ = s.client.Del(context.Background(), keys...).Err()
	return ids
}

// Key is the liveness key of a game.
func Key(gameID string) string {
	return "crossword:session:" + gameID
}
