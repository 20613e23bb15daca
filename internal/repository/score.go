package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-league/internal/entity"
)

type ScoreRepository interface {
	Add(ctx context.Context, scores ...entity.ScoreRecord) error
	List(ctx context.Context) ([]entity.ScoreRecord, error)
	ListByPlayer(ctx context.Context, player string) ([]entity.ScoreRecord, error)
	CountByPlayer(ctx context.Context, player string) (entity.ScoreTally, error)
}

type dbScore struct {
	conn *sql.DB
}

func NewScoreRepository(conn *sql.DB) ScoreRepository {
	return &dbScore{
		conn: conn,
	}
}

// Add stores all records in one transaction. A record already stored for the
// same game and player is skipped, so replaying a game's scores is harmless.
func (that *dbScore) Add(ctx context.Context, scores ...entity.ScoreRecord) error {
	tx, err := that.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	const query = `
		INSERT INTO scores (game_id, player_name, played_at, result)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (game_id, player_name) DO NOTHING`

	for _, score := range scores {
		if _, err = tx.ExecContext(ctx, query, score.GameID, score.Player, score.Date, string(score.Outcome)); err != nil {
			return fmt.Errorf("can't save score: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit scores: %w", err)
	}

	return nil
}

func (that *dbScore) List(ctx context.Context) ([]entity.ScoreRecord, error) {
	const query = `SELECT game_id, player_name, played_at, result FROM scores ORDER BY id`

	return that.query(ctx, query)
}

func (that *dbScore) ListByPlayer(ctx context.Context, player string) ([]entity.ScoreRecord, error) {
	const query = `SELECT game_id, player_name, played_at, result FROM scores WHERE player_name = $1 ORDER BY id`

	return that.query(ctx, query, player)
}

// CountByPlayer tallies the player's records by outcome.
func (that *dbScore) CountByPlayer(ctx context.Context, player string) (entity.ScoreTally, error) {
	const query = `SELECT result, COUNT(*) FROM scores WHERE player_name = $1 GROUP BY result`

	var tally entity.ScoreTally

	rows, err := that.conn.QueryContext(ctx, query, player)
	if err != nil {
		return tally, fmt.Errorf("can't count scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			outcome string
			count   int
		)

		if err = rows.Scan(&outcome, &count); err != nil {
			return tally, fmt.Errorf("can't scan score count: %w", err)
		}

		tally.Add(entity.Outcome(outcome), count)
	}

	if err = rows.Err(); err != nil {
		return tally, fmt.Errorf("can't count scores: %w", err)
	}

	return tally, nil
}

func (that *dbScore) query(ctx context.Context, query string, args ...any) ([]entity.ScoreRecord, error) {
	rows, err := that.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("can't select scores: %w", err)
	}
	defer rows.Close()

	scores := make([]entity.ScoreRecord, 0)
	for rows.Next() {
		var (
			score   entity.ScoreRecord
			outcome string
		)

		if err = rows.Scan(&score.GameID, &score.Player, &score.Date, &outcome); err != nil {
			return nil, fmt.Errorf("can't scan score: %w", err)
		}

		score.Date = score.Date.UTC()
		score.Outcome = entity.Outcome(outcome)
		scores = append(scores, score)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't select scores: %w", err)
	}

	return scores, nil
}
