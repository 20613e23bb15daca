package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-league/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-league/internal/entity"
	"github.com/rocketscienceinc/tictactoe-league/internal/taskqueue"
)

type mockRankingService struct {
	mock.Mock
}

func (m *mockRankingService) Recalculate(ctx context.Context, player string) error {
	return m.Called(ctx, player).Error(0)
}

func (m *mockRankingService) ListRankings(ctx context.Context) ([]*entity.Ranking, error) {
	args := m.Called(ctx)
	rankings, _ := args.Get(0).([]*entity.Ranking)
	return rankings, args.Error(1)
}

type mockReminderService struct {
	mock.Mock
}

func (m *mockReminderService) SendReminder(ctx context.Context, player, gameID string) error {
	return m.Called(ctx, player, gameID).Error(0)
}

func (m *mockReminderService) SweepReminders(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockSettler struct {
	mock.Mock
}

func (m *mockSettler) SettleFinishedGames(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type recordingRegistrar map[string]taskqueue.Handler

func (that recordingRegistrar) Handle(name string, handler taskqueue.Handler) {
	that[name] = handler
}

type testDeps struct {
	games     *mockSettler
	rankings  *mockRankingService
	reminders *mockReminderService
}

func newTestHandlers() (*Handlers, testDeps) {
	deps := testDeps{
		games:     new(mockSettler),
		rankings:  new(mockRankingService),
		reminders: new(mockReminderService),
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	return NewHandlers(logger, deps.games, deps.rankings, deps.reminders), deps
}

func TestHandlers_Register(t *testing.T) {
	handlers, _ := newTestHandlers()

	registered := recordingRegistrar{}
	handlers.Register(registered)

	assert.Len(t, registered, 4)
	assert.Contains(t, registered, entity.TaskUpdateRanking)
	assert.Contains(t, registered, entity.TaskSendReminder)
	assert.Contains(t, registered, entity.TaskSweepReminders)
	assert.Contains(t, registered, entity.TaskSettleScores)
}

func TestHandlers_UpdateRanking(t *testing.T) {
	ctx := context.Background()

	t.Run("Recalculates the player", func(t *testing.T) {
		handlers, deps := newTestHandlers()
		deps.rankings.On("Recalculate", mock.Anything, "alice").Return(nil).Once()

		err := handlers.UpdateRanking(ctx, entity.NewRankingTask("alice"))

		require.NoError(t, err)
		deps.rankings.AssertExpectations(t)
	})

	t.Run("Rejects a task without player", func(t *testing.T) {
		handlers, deps := newTestHandlers()

		err := handlers.UpdateRanking(ctx, entity.Task{Name: entity.TaskUpdateRanking})

		require.ErrorIs(t, err, apperror.ErrInvalidInput)
		deps.rankings.AssertNotCalled(t, "Recalculate", mock.Anything, mock.Anything)
	})
}

func TestHandlers_SendReminder(t *testing.T) {
	ctx := context.Background()

	handlers, deps := newTestHandlers()
	deps.reminders.On("SendReminder", mock.Anything, "bob", "g1").Return(nil).Once()

	require.NoError(t, handlers.SendReminder(ctx, entity.NewReminderTask("bob", "g1")))

	err := handlers.SendReminder(ctx, entity.Task{
		Name:   entity.TaskSendReminder,
		Params: map[string]string{entity.ParamPlayer: "bob"},
	})
	require.ErrorIs(t, err, apperror.ErrInvalidInput)

	deps.reminders.AssertExpectations(t)
}

func TestHandlers_SweepReminders(t *testing.T) {
	handlers, deps := newTestHandlers()
	deps.reminders.On("SweepReminders", mock.Anything).Return(2, nil).Once()

	require.NoError(t, handlers.SweepReminders(context.Background(), entity.Task{Name: entity.TaskSweepReminders}))
	deps.reminders.AssertExpectations(t)
}

func TestHandlers_SettleScores(t *testing.T) {
	ctx := context.Background()
	task := entity.Task{Name: entity.TaskSettleScores}

	t.Run("Settles finished games", func(t *testing.T) {
		handlers, deps := newTestHandlers()
		deps.games.On("SettleFinishedGames", mock.Anything).Return(3, nil).Once()

		require.NoError(t, handlers.SettleScores(ctx, task))
		deps.games.AssertExpectations(t)
	})

	t.Run("Partial failure is returned for a retry", func(t *testing.T) {
		handlers, deps := newTestHandlers()
		storageDown := errors.New("storage down")
		deps.games.On("SettleFinishedGames", mock.Anything).Return(1, storageDown).Once()

		err := handlers.SettleScores(ctx, task)

		require.ErrorIs(t, err, storageDown)
	})
}
