package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-league/internal/entity"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type mockPlayerRepo struct {
	mock.Mock
}

func (m *mockPlayerRepo) Create(ctx context.Context, player *entity.Player) error {
	return m.Called(ctx, player).Error(0)
}

func (m *mockPlayerRepo) GetByName(ctx context.Context, name string) (*entity.Player, error) {
	args := m.Called(ctx, name)
	player, _ := args.Get(0).(*entity.Player)
	return player, args.Error(1)
}

// mockGameRepo runs the update and delete callbacks against the game the
// expectation returns and keeps what the callback wrote.
type mockGameRepo struct {
	mock.Mock

	written *entity.Game
}

func (m *mockGameRepo) Create(ctx context.Context, game *entity.Game) error {
	return m.Called(ctx, game).Error(0)
}

func (m *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := m.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func (m *mockGameRepo) Update(ctx context.Context, id string, fn func(game *entity.Game) (*entity.Game, error)) error {
	args := m.Called(ctx, id)
	if err := args.Error(1); err != nil {
		return err
	}

	updated, err := fn(args.Get(0).(*entity.Game))
	if err != nil {
		return err
	}

	m.written = updated
	return nil
}

func (m *mockGameRepo) DeleteByID(ctx context.Context, id string, guard func(game *entity.Game) error) error {
	args := m.Called(ctx, id)
	if err := args.Error(1); err != nil {
		return err
	}

	return guard(args.Get(0).(*entity.Game))
}

func (m *mockGameRepo) ListActive(ctx context.Context) ([]*entity.Game, error) {
	args := m.Called(ctx)
	games, _ := args.Get(0).([]*entity.Game)
	return games, args.Error(1)
}

func (m *mockGameRepo) ListActiveByPlayer(ctx context.Context, player string) ([]*entity.Game, error) {
	args := m.Called(ctx, player)
	games, _ := args.Get(0).([]*entity.Game)
	return games, args.Error(1)
}

func (m *mockGameRepo) ListUnscored(ctx context.Context) ([]*entity.Game, error) {
	args := m.Called(ctx)
	games, _ := args.Get(0).([]*entity.Game)
	return games, args.Error(1)
}

func (m *mockGameRepo) MarkScored(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockScoreRepo struct {
	mock.Mock
}

func (m *mockScoreRepo) Add(ctx context.Context, scores ...entity.ScoreRecord) error {
	return m.Called(ctx, scores).Error(0)
}

func (m *mockScoreRepo) List(ctx context.Context) ([]entity.ScoreRecord, error) {
	args := m.Called(ctx)
	scores, _ := args.Get(0).([]entity.ScoreRecord)
	return scores, args.Error(1)
}

func (m *mockScoreRepo) ListByPlayer(ctx context.Context, player string) ([]entity.ScoreRecord, error) {
	args := m.Called(ctx, player)
	scores, _ := args.Get(0).([]entity.ScoreRecord)
	return scores, args.Error(1)
}

func (m *mockScoreRepo) CountByPlayer(ctx context.Context, player string) (entity.ScoreTally, error) {
	args := m.Called(ctx, player)
	return args.Get(0).(entity.ScoreTally), args.Error(1)
}

type mockRankingRepo struct {
	mock.Mock
}

func (m *mockRankingRepo) Upsert(ctx context.Context, ranking *entity.Ranking) error {
	return m.Called(ctx, ranking).Error(0)
}

func (m *mockRankingRepo) List(ctx context.Context) ([]*entity.Ranking, error) {
	args := m.Called(ctx)
	rankings, _ := args.Get(0).([]*entity.Ranking)
	return rankings, args.Error(1)
}

type mockTaskQueue struct {
	mock.Mock
}

func (m *mockTaskQueue) Enqueue(ctx context.Context, tasks ...entity.Task) error {
	return m.Called(ctx, tasks).Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Send(ctx context.Context, recipient, subject, body string) error {
	return m.Called(ctx, recipient, subject, body).Error(0)
}
