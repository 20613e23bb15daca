package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-league/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-league/internal/entity"
)

var errStorageDown = errors.New("storage down")

func TestPlayerService_CreatePlayer(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a player", func(t *testing.T) {
		// Given: a repository accepting the player
		playerRepo := new(mockPlayerRepo)
		playerRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *entity.Player) bool {
			return p.Name == "alice" && p.Email == "alice@example.com" && !p.CreatedAt.IsZero()
		})).Return(nil).Once()

		// When: creating a player with padded input
		player, err := NewPlayerService(playerRepo).CreatePlayer(ctx, " alice ", "alice@example.com ")

		// Then: the trimmed player is stored
		require.NoError(t, err)
		assert.Equal(t, "alice", player.Name)
		assert.Equal(t, "User alice created!", PlayerCreatedMessage(player.Name))
		playerRepo.AssertExpectations(t)
	})

	t.Run("Rejects an empty name", func(t *testing.T) {
		playerRepo := new(mockPlayerRepo)

		player, err := NewPlayerService(playerRepo).CreatePlayer(ctx, "  ", "")

		require.ErrorIs(t, err, apperror.ErrInvalidInput)
		assert.Nil(t, player)
		playerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Reports a duplicate name", func(t *testing.T) {
		playerRepo := new(mockPlayerRepo)
		playerRepo.On("Create", mock.Anything, mock.Anything).Return(apperror.ErrPlayerExists).Once()

		_, err := NewPlayerService(playerRepo).CreatePlayer(ctx, "alice", "")

		require.ErrorIs(t, err, apperror.ErrPlayerExists)
	})
}

func TestPlayerService_GetPlayer(t *testing.T) {
	ctx := context.Background()

	playerRepo := new(mockPlayerRepo)
	playerRepo.On("GetByName", mock.Anything, "alice").Return(&entity.Player{Name: "alice"}, nil).Once()
	playerRepo.On("GetByName", mock.Anything, "ghost").Return(nil, apperror.ErrPlayerNotFound).Once()

	service := NewPlayerService(playerRepo)

	player, err := service.GetPlayer(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", player.Name)

	_, err = service.GetPlayer(ctx, "ghost")
	require.ErrorIs(t, err, apperror.ErrPlayerNotFound)
}
