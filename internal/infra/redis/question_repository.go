package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crossword-service/internal/domain"
	"crossword-service/internal/infra/memory"
	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// QuestionRepository caches question sets in Redis as JSON and falls back to a loader on
// cache miss. Sets are stored as: SET crossword:set:{setID} {json} EX ttl
type QuestionRepository struct {
	client *redis.Client
	loader memory.QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	logger *log.Logger
}

func NewQuestionRepository(client *redis.Client, loader memory.QuestionLoader, ttl time.Duration, logger *log.Logger) *QuestionRepository {
	if logger == nil {
		logger = log.Default()
	}
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *QuestionRepository) GetQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error) {
	if set, ok := r.cached(ctx, setID); ok {
		return set, nil
	}

	result, err, _ := r.sf.Do(setID, func() (any, error) {
		// Re-check cache in case another goroutine filled it.
		if set, ok := r.cached(ctx, setID); ok {
			return set, nil
		}

		set, err := r.loader.LoadQuestionSet(ctx, setID)
		if err != nil {
			return domain.QuestionSet{}, err
		}

		raw, err := json.Marshal(set)
		if err != nil {
			return domain.QuestionSet{}, fmt.Errorf("marshal question set: %w", err)
		}
		if err := r.client.Set(ctx, setKey(setID), raw, memory.TTLWithJitter(r.ttl)).Err(); err != nil {
			r.logger.Warn("cache question set", "set", setID, "err", err)
		}
		return set, nil
	})
	if err != nil {
		return domain.QuestionSet{}, err
	}
	return result.(domain.QuestionSet), nil
}

func (r *QuestionRepository) cached(ctx context.Context, setID string) (domain.QuestionSet, bool) {
	raw, err := r.client.Get(ctx, setKey(setID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("read cached question set", "set", setID, "err", err)
		}
		return domain.QuestionSet{}, false
	}
	var set domain.QuestionSet
	if err := json.Unmarshal(raw, &set); err != nil {
		r.logger.Warn("decode cached question set", "set", setID, "err", err)
		return domain.QuestionSet{}, false
	}
	return set, true
}

func setKey(setID string) string {
	return "crossword:set:" + setID
}
