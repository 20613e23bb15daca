package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-league/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-league/internal/entity"
)

const ReminderSubject = "This is a reminder!"

type ReminderService interface {
	// SendReminder mails the player that it is their turn in the game.
	SendReminder(ctx context.Context, player, gameID string) error
	// SweepReminders enqueues a reminder for the next mover of every active game.
	SweepReminders(ctx context.Context) (int, error)
}

type activeGames interface {
	ListActive(ctx context.Context) ([]*entity.Game, error)
}

type notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

type reminderService struct {
	logger *slog.Logger

	playerRepo playerRepo
	gameRepo   activeGames
	notifier   notifier
	tasks      taskQueue
}

func NewReminderService(logger *slog.Logger, playerRepo playerRepo, gameRepo activeGames, notifier notifier, tasks taskQueue) ReminderService {
	return &reminderService{
		logger: logger.With("component", "reminder_service"),

		playerRepo: playerRepo,
		gameRepo:   gameRepo,
		notifier:   notifier,
		tasks:      tasks,
	}
}

func (that *reminderService) SendReminder(ctx context.Context, player, gameID string) error {
	log := that.logger.With("method", "SendReminder", "player", player, "game_id", gameID)

	recipient, err := that.playerRepo.GetByName(ctx, player)
	if errors.Is(err, apperror.ErrPlayerNotFound) {
		log.Warn("player no longer exists, skipping reminder")
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to get player: %w", err)
	}

	if !recipient.HasEmail() {
		log.Debug("player has no email, skipping reminder")
		return nil
	}

	if err = that.notifier.Send(ctx, recipient.Email, ReminderSubject, ReminderBody(player, gameID)); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}

	return nil
}

func (that *reminderService) SweepReminders(ctx context.Context) (int, error) {
	games, err := that.gameRepo.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active games: %w", err)
	}

	tasks := make([]entity.Task, 0, len(games))
	for _, game := range games {
		tasks = append(tasks, entity.NewReminderTask(game.NextTurn, game.ID))
	}

	if err = that.tasks.Enqueue(ctx, tasks...); err != nil {
		return 0, fmt.Errorf("failed to enqueue reminders: %w", err)
	}

	return len(tasks), nil
}

func ReminderBody(player, gameID string) string {
	return fmt.Sprintf("Hello %s, it is your turn.  Please complete your Tic Tac Toe with gameid = %s !", player, gameID)
}
