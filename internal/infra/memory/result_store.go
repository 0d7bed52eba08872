package memory

import (
	"context"
	"sync"

	"crossword-service/internal/domain"
)

// ResultStore keeps completed game results in memory. It backs the service when no
// database is configured. Like the Postgres recorder it keeps one result per game round.
type ResultStore struct {
	mu      sync.Mutex
	results []domain.GameResult
	seen    map[resultKey]struct{}
}

type resultKey struct {
	gameID string
	round  int
}

func NewResultStore() *ResultStore {
	return &ResultStore{seen: make(map[resultKey]struct{})}
}

// Record stores result unless the same game round was already recorded.
func (s *ResultStore) Record(_ context.Context, result domain.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := resultKey{gameID: result.GameID, round: result.Round}
	if _, dup := s.seen[key]; dup {
		return nil
	}
	s.seen[key] = struct{}{}
	s.results = append(s.results, result)
	return nil
}

// Results returns a copy of everything recorded so far, oldest first.
func (s *ResultStore) Results() []domain.GameResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.GameResult, len(s.results))
	copy(out, s.results)
	return out
}
