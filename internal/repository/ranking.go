package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-league/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-league/internal/entity"
)

const rankingsKey = "rankings"

type RankingRepository interface {
	Upsert(ctx context.Context, ranking *entity.Ranking) error
	GetByPlayer(ctx context.Context, player string) (*entity.Ranking, error)
	List(ctx context.Context) ([]*entity.Ranking, error)
}

// dbRanking keeps one member per player in a sorted set scored by win rate.
type dbRanking struct {
	client *redis.Client
}

func NewRankingRepository(client *redis.Client) RankingRepository {
	return &dbRanking{
		client: client,
	}
}

func (that *dbRanking) Upsert(ctx context.Context, ranking *entity.Ranking) error {
	err := that.client.ZAdd(ctx, rankingsKey, redis.Z{Score: ranking.WinRate, Member: ranking.Player}).Err()
	if err != nil {
		return fmt.Errorf("failed to upsert ranking: %w", err)
	}

	return nil
}

func (that *dbRanking) GetByPlayer(ctx context.Context, player string) (*entity.Ranking, error) {
	score, err := that.client.ZScore(ctx, rankingsKey, player).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get ranking: %w", err)
	}

	return &entity.Ranking{Player: player, WinRate: score}, nil
}

// List returns all rankings, best win rate first.
func (that *dbRanking) List(ctx context.Context) ([]*entity.Ranking, error) {
	members, err := that.client.ZRevRangeWithScores(ctx, rankingsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list rankings: %w", err)
	}

	rankings := make([]*entity.Ranking, 0, len(members))
	for _, member := range members {
		player, ok := member.Member.(string)
		if !ok {
			continue
		}

		rankings = append(rankings, &entity.Ranking{Player: player, WinRate: member.Score})
	}

	return rankings, nil
}
