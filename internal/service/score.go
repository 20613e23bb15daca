package service

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-league/internal/entity"
)

type ScoreService interface {
	ListScores(ctx context.Context) ([]entity.ScoreRecord, error)
	ListPlayerScores(ctx context.Context, player string) ([]entity.ScoreRecord, error)
}

type scoreRepo interface {
	List(ctx context.Context) ([]entity.ScoreRecord, error)
	ListByPlayer(ctx context.Context, player string) ([]entity.ScoreRecord, error)
}

type scoreService struct {
	playerRepo playerRepo
	scoreRepo  scoreRepo
}

func NewScoreService(playerRepo playerRepo, scoreRepo scoreRepo) ScoreService {
	return &scoreService{
		playerRepo: playerRepo,
		scoreRepo:  scoreRepo,
	}
}

func (that *scoreService) ListScores(ctx context.Context) ([]entity.ScoreRecord, error) {
	scores, err := that.scoreRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}

	return scores, nil
}

func (that *scoreService) ListPlayerScores(ctx context.Context, player string) ([]entity.ScoreRecord, error) {
	if _, err := that.playerRepo.GetByName(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	scores, err := that.scoreRepo.ListByPlayer(ctx, player)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores of player: %w", err)
	}

	return scores, nil
}
