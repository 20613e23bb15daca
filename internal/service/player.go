package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rocketscienceinc/tictactoe-league/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-league/internal/entity"
)

type PlayerService interface {
	CreatePlayer(ctx context.Context, name, email string) (*entity.Player, error)
	GetPlayer(ctx context.Context, name string) (*entity.Player, error)
}

type playerRepo interface {
	Create(ctx context.Context, player *entity.Player) error
	GetByName(ctx context.Context, name string) (*entity.Player, error)
}

type playerService struct {
	playerRepo playerRepo
}

func NewPlayerService(playerRepo playerRepo) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
	}
}

func (that *playerService) CreatePlayer(ctx context.Context, name, email string) (*entity.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("user name is required: %w", apperror.ErrInvalidInput)
	}

	player := &entity.Player{
		Name:      name,
		Email:     strings.TrimSpace(email),
		CreatedAt: time.Now().UTC(),
	}

	if err := that.playerRepo.Create(ctx, player); err != nil {
		return nil, fmt.Errorf("could not save player: %w", err)
	}

	return player, nil
}

func (that *playerService) GetPlayer(ctx context.Context, name string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("could not get player by name: %w", err)
	}

	return player, nil
}

func PlayerCreatedMessage(name string) string {
	return fmt.Sprintf("User %s created!", name)
}
