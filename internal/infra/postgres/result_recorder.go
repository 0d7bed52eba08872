package postgres

import (
	"context"
	"errors"
	"fmt"

	"crossword-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ResultRecorder stores completed games and credits the earned XP to the player.
type ResultRecorder struct {
	pool *pgxpool.Pool
}

func NewResultRecorder(pool *pgxpool.Pool) *ResultRecorder {
	return &ResultRecorder{pool: pool}
}

// Record is idempotent per game id and round; a duplicate result does not credit XP twice.
func (r *ResultRecorder) Record(ctx context.Context, result domain.GameResult) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO game_results
				(game_id, round, player_id, set_id, total_score, attempts_used, words_placed, words_solved, completed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (game_id, round) DO NOTHING`,
			result.GameID, result.Round, result.PlayerID, result.SetID, result.TotalScore,
			result.AttemptsUsed, result.WordsPlaced, result.WordsSolved, result.CompletedAt)
		if err != nil {
			return fmt.Errorf("insert game result: %w", err)
		}
		if tag.RowsAffected() == 0 || result.PlayerID == "" {
			return nil
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO player_xp (player_id, xp, games_played, updated_at)
			VALUES ($1, $2, 1, $3)
			ON CONFLICT (player_id) DO UPDATE
			SET xp = player_xp.xp + EXCLUDED.xp,
			    games_played = player_xp.games_played + 1,
			    updated_at = EXCLUDED.updated_at`,
			result.PlayerID, result.TotalScore, result.CompletedAt)
		if err != nil {
			return fmt.Errorf("credit player xp: %w", err)
		}
		return nil
	})
}

// PlayerXP returns the accumulated XP and number of completed games of a player.
func (r *ResultRecorder) PlayerXP(ctx context.Context, playerID string) (xp, games int, err error) {
	err = r.pool.QueryRow(ctx, `SELECT xp, games_played FROM player_xp WHERE player_id=$1`, playerID).Scan(&xp, &games)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("load player xp: %w", err)
	}
	return xp, games, nil
}

func (r *ResultRecorder) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
