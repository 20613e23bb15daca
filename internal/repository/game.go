package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-league/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-league/internal/entity"
)

const (
	activeGamesKey = "games:active"

	// unscoredGamesKey holds finished games whose scores are not settled yet.
	unscoredGamesKey = "games:unscored"

	maxUpdateRetries = 5
)

type GameRepository interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	Update(ctx context.Context, id string, fn func(game *entity.Game) (*entity.Game, error)) error
	DeleteByID(ctx context.Context, id string, guard func(game *entity.Game) error) error

	ListActive(ctx context.Context) ([]*entity.Game, error)
	ListActiveByPlayer(ctx context.Context, player string) ([]*entity.Game, error)

	ListUnscored(ctx context.Context) ([]*entity.Game, error)
	MarkScored(ctx context.Context, id string) error
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

type dbGame struct {
	client *redis.Client
}

func NewGameRepository(client *redis.Client) GameRepository {
	return &dbGame{
		client: client,
	}
}

func gameKey(id string) string {
	return "game:" + id
}

func playerGamesKey(player string) string {
	return "player:" + player + ":games"
}

func (that *dbGame) Create(ctx context.Context, game *entity.Game) error {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("could not marshal game: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, gameKey(game.ID), gameJSON, 0)
		pipe.SAdd(ctx, activeGamesKey, game.ID)
		pipe.SAdd(ctx, playerGamesKey(game.Player1), game.ID)
		pipe.SAdd(ctx, playerGamesKey(game.Player2), game.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set game: %w", err)
	}

	return nil
}

func (that *dbGame) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	return getGame(ctx, that.client, id)
}

// Update loads the game under WATCH and stores what fn returns. A nil game from fn
// leaves storage untouched. Concurrent writers are retried, then reported as ErrConflict.
// The update that finishes a game also queues it as unscored in the same transaction.
func (that *dbGame) Update(ctx context.Context, id string, fn func(game *entity.Game) (*entity.Game, error)) error {
	txf := func(tx *redis.Tx) error {
		game, err := getGame(ctx, tx, id)
		if err != nil {
			return err
		}

		wasOver := game.GameOver

		updated, err := fn(game)
		if err != nil {
			return err
		}

		if updated == nil {
			return nil
		}

		gameJSON, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("could not marshal game: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, gameKey(id), gameJSON, 0)
			if updated.GameOver {
				untrack(ctx, pipe, updated)
			}
			if updated.GameOver && !wasOver {
				pipe.SAdd(ctx, unscoredGamesKey, id)
			}
			return nil
		})

		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := that.client.Watch(ctx, txf, gameKey(id))
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}

		if err != nil {
			return fmt.Errorf("failed to update game: %w", err)
		}

		return nil
	}

	return fmt.Errorf("failed to update game %s: %w", id, apperror.ErrConflict)
}

// DeleteByID removes the game once guard accepts it.
func (that *dbGame) DeleteByID(ctx context.Context, id string, guard func(game *entity.Game) error) error {
	txf := func(tx *redis.Tx) error {
		game, err := getGame(ctx, tx, id)
		if err != nil {
			return err
		}

		if guard != nil {
			if err = guard(game); err != nil {
				return err
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, gameKey(id))
			pipe.SRem(ctx, unscoredGamesKey, id)
			untrack(ctx, pipe, game)
			return nil
		})

		return err
	}

	err := that.client.Watch(ctx, txf, gameKey(id))
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("failed to delete game %s: %w", id, apperror.ErrConflict)
	}

	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

func (that *dbGame) ListActive(ctx context.Context) ([]*entity.Game, error) {
	ids, err := that.client.SMembers(ctx, activeGamesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list active games: %w", err)
	}

	return that.loadGames(ctx, ids, isActive)
}

func (that *dbGame) ListActiveByPlayer(ctx context.Context, player string) ([]*entity.Game, error) {
	ids, err := that.client.SMembers(ctx, playerGamesKey(player)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list games of player: %w", err)
	}

	return that.loadGames(ctx, ids, isActive)
}

// ListUnscored returns finished games still waiting for their score records.
func (that *dbGame) ListUnscored(ctx context.Context) ([]*entity.Game, error) {
	ids, err := that.client.SMembers(ctx, unscoredGamesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list unscored games: %w", err)
	}

	return that.loadGames(ctx, ids, isFinished)
}

func (that *dbGame) MarkScored(ctx context.Context, id string) error {
	if err := that.client.SRem(ctx, unscoredGamesKey, id).Err(); err != nil {
		return fmt.Errorf("failed to mark game scored: %w", err)
	}

	return nil
}

func isActive(game *entity.Game) bool {
	return !game.GameOver
}

func isFinished(game *entity.Game) bool {
	return game.GameOver
}

func (that *dbGame) loadGames(ctx context.Context, ids []string, keep func(game *entity.Game) bool) ([]*entity.Game, error) {
	if len(ids) == 0 {
		return []*entity.Game{}, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, gameKey(id))
	}

	values, err := that.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get games: %w", err)
	}

	games := make([]*entity.Game, 0, len(values))
	for _, value := range values {
		// the index may briefly point at a deleted game
		raw, ok := value.(string)
		if !ok {
			continue
		}

		var game entity.Game
		if err = json.Unmarshal([]byte(raw), &game); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game: %w", err)
		}

		if keep(&game) {
			games = append(games, &game)
		}
	}

	return games, nil
}

func getGame(ctx context.Context, client getter, id string) (*entity.Game, error) {
	response, err := client.Get(ctx, gameKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	var existingGame entity.Game
	if err = json.Unmarshal([]byte(response), &existingGame); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &existingGame, nil
}

func untrack(ctx context.Context, pipe redis.Pipeliner, game *entity.Game) {
	pipe.SRem(ctx, activeGamesKey, game.ID)
	pipe.SRem(ctx, playerGamesKey(game.Player1), game.ID)
	pipe.SRem(ctx, playerGamesKey(game.Player2), game.ID)
}
