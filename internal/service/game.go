package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-league/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-league/internal/entity"
	"github.com/rocketscienceinc/tictactoe-league/internal/tictactoe"
)

const (
	MsgMakeMove      = "Time to make a move!"
	MsgGameCancelled = "Game cancelled!"
)

// GameState is a game together with the message shown to the player.
type GameState struct {
	Game    *entity.Game
	Message string
}

type GameService interface {
	NewGame(ctx context.Context, player1, player2 string) (*GameState, error)
	GetGame(ctx context.Context, id string) (*GameState, error)
	MakeMove(ctx context.Context, id, player string, cell int) (*GameState, error)
	CancelGame(ctx context.Context, id string) (string, error)

	GetHistory(ctx context.Context, id string) ([]entity.HistoryEntry, error)
	ListPlayerGames(ctx context.Context, player string) ([]*entity.Game, error)

	// SettleFinishedGames records the scores of finished games that could not be
	// settled when their last move was made.
	SettleFinishedGames(ctx context.Context) (int, error)
}

type gameRepo interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	Update(ctx context.Context, id string, fn func(game *entity.Game) (*entity.Game, error)) error
	DeleteByID(ctx context.Context, id string, guard func(game *entity.Game) error) error
	ListActiveByPlayer(ctx context.Context, player string) ([]*entity.Game, error)
	ListUnscored(ctx context.Context) ([]*entity.Game, error)
	MarkScored(ctx context.Context, id string) error
}

type scoreWriter interface {
	Add(ctx context.Context, scores ...entity.ScoreRecord) error
}

type taskQueue interface {
	Enqueue(ctx context.Context, tasks ...entity.Task) error
}

type gameService struct {
	logger *slog.Logger

	gameRepo   gameRepo
	playerRepo playerRepo
	scoreRepo  scoreWriter
	tasks      taskQueue

	now       func() time.Time
	firstMove func(player1, player2 string) string
}

func NewGameService(logger *slog.Logger, gameRepo gameRepo, playerRepo playerRepo, scoreRepo scoreWriter, tasks taskQueue) GameService {
	return &gameService{
		logger: logger.With("component", "game_service"),

		gameRepo:   gameRepo,
		playerRepo: playerRepo,
		scoreRepo:  scoreRepo,
		tasks:      tasks,

		now:       func() time.Time { return time.Now().UTC() },
		firstMove: randomFirstMove,
	}
}

func randomFirstMove(player1, player2 string) string {
	if rand.Intn(2) == 0 {
		return player1
	}
	return player2
}

func (that *gameService) NewGame(ctx context.Context, player1, player2 string) (*GameState, error) {
	if player1 == "" || player2 == "" {
		return nil, fmt.Errorf("both players are required: %w", apperror.ErrInvalidInput)
	}

	if player1 == player2 {
		return nil, apperror.ErrSamePlayer
	}

	for _, name := range []string{player1, player2} {
		if _, err := that.playerRepo.GetByName(ctx, name); err != nil {
			return nil, fmt.Errorf("failed to get player %s: %w", name, err)
		}
	}

	game := entity.NewGame(uuid.NewString(), player1, player2, that.firstMove(player1, player2), that.now())

	if err := that.gameRepo.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	return &GameState{Game: game, Message: FirstMoveMessage(game.NextTurn)}, nil
}

func (that *gameService) GetGame(ctx context.Context, id string) (*GameState, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve game from storage: %w", err)
	}

	return &GameState{Game: game, Message: MsgMakeMove}, nil
}

// MakeMove applies a move inside a single-writer update of the game. Rejected
// moves are not an error: the unchanged game comes back with the reason.
func (that *gameService) MakeMove(ctx context.Context, id, player string, cell int) (*GameState, error) {
	log := that.logger.With("method", "MakeMove", "game_id", id, "player", player)

	var result tictactoe.MoveResult

	err := that.gameRepo.Update(ctx, id, func(game *entity.Game) (*entity.Game, error) {
		result = tictactoe.MakeMove(game, player, cell, that.now())
		if !result.IsAccepted() {
			return nil, nil
		}
		return result.Game, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	state := &GameState{Game: result.Game, Message: result.Message}

	if !result.IsAccepted() {
		return state, nil
	}

	if result.IsFinished() {
		// the game stays queued as unscored until settle succeeds
		if err = that.settle(ctx, result.Game); err != nil {
			log.Warn("failed to settle finished game, leaving it for the next sweep", "error", err)
		}

		return state, nil
	}

	// reminders are best effort, the move itself is already stored
	if err = that.tasks.Enqueue(ctx, result.Tasks...); err != nil {
		log.Error("failed to enqueue tasks", "error", err)
	}

	return state, nil
}

func (that *gameService) SettleFinishedGames(ctx context.Context) (int, error) {
	log := that.logger.With("method", "SettleFinishedGames")

	games, err := that.gameRepo.ListUnscored(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list unscored games: %w", err)
	}

	var (
		settled int
		errs    []error
	)

	for _, game := range games {
		if err = that.settle(ctx, game); err != nil {
			errs = append(errs, fmt.Errorf("game %s: %w", game.ID, err))
			continue
		}

		settled++
	}

	if settled > 0 {
		log.Info("settled finished games", "count", settled)
	}

	return settled, errors.Join(errs...)
}

// settle writes the scores of a finished game, asks for both ranking recounts
// and then takes the game off the unscored queue. Every step may be repeated.
func (that *gameService) settle(ctx context.Context, game *entity.Game) error {
	if err := that.scoreRepo.Add(ctx, tictactoe.FinalScores(game)...); err != nil {
		return fmt.Errorf("failed to record scores: %w", err)
	}

	if err := that.tasks.Enqueue(ctx, tictactoe.RankingTasks(game)...); err != nil {
		return fmt.Errorf("failed to enqueue ranking tasks: %w", err)
	}

	if err := that.gameRepo.MarkScored(ctx, game.ID); err != nil {
		return fmt.Errorf("failed to mark game scored: %w", err)
	}

	return nil
}

func (that *gameService) CancelGame(ctx context.Context, id string) (string, error) {
	err := that.gameRepo.DeleteByID(ctx, id, func(game *entity.Game) error {
		if game.GameOver {
			return apperror.ErrGameFinished
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to cancel game: %w", err)
	}

	return MsgGameCancelled, nil
}

func (that *gameService) GetHistory(ctx context.Context, id string) ([]entity.HistoryEntry, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve game from storage: %w", err)
	}

	return game.History, nil
}

// ListPlayerGames returns the unfinished games of an existing player.
func (that *gameService) ListPlayerGames(ctx context.Context, player string) ([]*entity.Game, error) {
	if _, err := that.playerRepo.GetByName(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	games, err := that.gameRepo.ListActiveByPlayer(ctx, player)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	return games, nil
}

func FirstMoveMessage(player string) string {
	return fmt.Sprintf("%s will have the first move", player)
}
