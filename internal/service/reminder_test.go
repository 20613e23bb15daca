package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-league/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-league/internal/entity"
)

func newTestReminderService() (ReminderService, *mockPlayerRepo, *mockGameRepo, *mockNotifier, *mockTaskQueue) {
	playerRepo := new(mockPlayerRepo)
	gameRepo := new(mockGameRepo)
	notifier := new(mockNotifier)
	tasks := new(mockTaskQueue)

	return NewReminderService(discardLogger(), playerRepo, gameRepo, notifier, tasks), playerRepo, gameRepo, notifier, tasks
}

func TestReminderService_SendReminder(t *testing.T) {
	ctx := context.Background()

	t.Run("Mails the player", func(t *testing.T) {
		service, playerRepo, _, notifier, _ := newTestReminderService()
		playerRepo.On("GetByName", mock.Anything, "bob").
			Return(&entity.Player{Name: "bob", Email: "bob@example.com"}, nil).Once()
		notifier.On("Send", mock.Anything, "bob@example.com", "This is a reminder!",
			"Hello bob, it is your turn.  Please complete your Tic Tac Toe with gameid = g1 !").
			Return(nil).Once()

		err := service.SendReminder(ctx, "bob", "g1")

		require.NoError(t, err)
		notifier.AssertExpectations(t)
	})

	t.Run("Skips players without email", func(t *testing.T) {
		service, playerRepo, _, notifier, _ := newTestReminderService()
		playerRepo.On("GetByName", mock.Anything, "bob").Return(&entity.Player{Name: "bob"}, nil).Once()

		err := service.SendReminder(ctx, "bob", "g1")

		require.NoError(t, err)
		notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Skips unknown players", func(t *testing.T) {
		service, playerRepo, _, _, _ := newTestReminderService()
		playerRepo.On("GetByName", mock.Anything, "ghost").Return(nil, apperror.ErrPlayerNotFound).Once()

		require.NoError(t, service.SendReminder(ctx, "ghost", "g1"))
	})

	t.Run("Reports delivery failures", func(t *testing.T) {
		service, playerRepo, _, notifier, _ := newTestReminderService()
		playerRepo.On("GetByName", mock.Anything, "bob").
			Return(&entity.Player{Name: "bob", Email: "bob@example.com"}, nil).Once()
		notifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errStorageDown).Once()

		err := service.SendReminder(ctx, "bob", "g1")

		require.ErrorIs(t, err, errStorageDown)
	})
}

func TestReminderService_SweepReminders(t *testing.T) {
	ctx := context.Background()

	// Given: two active games waiting on different players
	g1 := entity.NewGame("g1", "alice", "bob", "bob", testNow)
	g2 := entity.NewGame("g2", "carol", "alice", "carol", testNow)

	service, _, gameRepo, _, tasks := newTestReminderService()
	gameRepo.On("ListActive", mock.Anything).Return([]*entity.Game{g1, g2}, nil).Once()
	tasks.On("Enqueue", mock.Anything, []entity.Task{
		entity.NewReminderTask("bob", "g1"),
		entity.NewReminderTask("carol", "g2"),
	}).Return(nil).Once()

	// When: sweeping
	count, err := service.SweepReminders(ctx)

	// Then: every next mover gets a reminder task
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	tasks.AssertExpectations(t)
}
