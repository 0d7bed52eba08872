package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"crossword-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuestionStore reads and writes question sets as JSONB in Postgres.
type QuestionStore struct {
	pool *pgxpool.Pool
}

func NewQuestionStore(pool *pgxpool.Pool) *QuestionStore {
	return &QuestionStore{pool: pool}
}

func (s *QuestionStore) LoadQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error) {
	var (
		raw []byte
		set domain.QuestionSet
	)
	err := s.pool.QueryRow(ctx, `SELECT title, data, created_at FROM question_sets WHERE id=$1`, setID).
		Scan(&set.Title, &raw, &set.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuestionSet{}, domain.ErrQuestionSetNotFound
	}
	if err != nil {
		return domain.QuestionSet{}, fmt.Errorf("load question set: %w", err)
	}
	if err := json.Unmarshal(raw, &set.Questions); err != nil {
		return domain.QuestionSet{}, fmt.Errorf("unmarshal question set: %w", err)
	}
	set.ID = setID
	return set, nil
}

// SaveQuestionSet inserts or replaces a set. Every question must validate.
func (s *QuestionStore) SaveQuestionSet(ctx context.Context, set domain.QuestionSet) error {
	for i, q := range set.Questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	data, err := json.Marshal(set.Questions)
	if err != nil {
		return fmt.Errorf("marshal question set: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO question_sets (id, title, data)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, data=EXCLUDED.data`,
		set.ID, set.Title, string(data))
	if err != nil {
		return fmt.Errorf("save question set: %w", err)
	}
	return nil
}
