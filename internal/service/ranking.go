package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-league/internal/entity"
	"github.com/rocketscienceinc/tictactoe-league/internal/tictactoe"
)

type RankingService interface {
	// Recalculate recounts the player's scores and stores the new win rate.
	// Players without finished games are left unranked.
	Recalculate(ctx context.Context, player string) error
	ListRankings(ctx context.Context) ([]*entity.Ranking, error)
}

type scoreCounter interface {
	CountByPlayer(ctx context.Context, player string) (entity.ScoreTally, error)
}

type rankingRepo interface {
	Upsert(ctx context.Context, ranking *entity.Ranking) error
	List(ctx context.Context) ([]*entity.Ranking, error)
}

type rankingService struct {
	logger *slog.Logger

	scoreRepo   scoreCounter
	rankingRepo rankingRepo
}

func NewRankingService(logger *slog.Logger, scoreRepo scoreCounter, rankingRepo rankingRepo) RankingService {
	return &rankingService{
		logger: logger.With("component", "ranking_service"),

		scoreRepo:   scoreRepo,
		rankingRepo: rankingRepo,
	}
}

func (that *rankingService) Recalculate(ctx context.Context, player string) error {
	log := that.logger.With("method", "Recalculate", "player", player)

	tally, err := that.scoreRepo.CountByPlayer(ctx, player)
	if err != nil {
		return fmt.Errorf("failed to count scores: %w", err)
	}

	if tally.Total() == 0 {
		log.Debug("player has no finished games, skipping")
		return nil
	}

	ranking := &entity.Ranking{
		Player:  player,
		WinRate: tictactoe.WinRate(tally.Wins, tally.Losses, tally.Ties),
	}

	if err = that.rankingRepo.Upsert(ctx, ranking); err != nil {
		return fmt.Errorf("failed to store ranking: %w", err)
	}

	log.Debug("ranking updated", "win_rate", ranking.WinRate)

	return nil
}

func (that *rankingService) ListRankings(ctx context.Context) ([]*entity.Ranking, error) {
	rankings, err := that.rankingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rankings: %w", err)
	}

	return rankings, nil
}
