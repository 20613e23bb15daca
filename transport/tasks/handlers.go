package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-league/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-league/internal/entity"
	"github.com/rocketscienceinc/tictactoe-league/internal/service"
	"github.com/rocketscienceinc/tictactoe-league/internal/taskqueue"
)

type registrar interface {
	Handle(name string, handler taskqueue.Handler)
}

type settler interface {
	SettleFinishedGames(ctx context.Context) (int, error)
}

type Handlers struct {
	logger *slog.Logger

	gameService     settler
	rankingService  service.RankingService
	reminderService service.ReminderService
}

func NewHandlers(
	logger *slog.Logger,
	gameService settler,
	rankingService service.RankingService,
	reminderService service.ReminderService,
) *Handlers {
	return &Handlers{
		logger: logger.With("component", "task_handlers"),

		gameService:     gameService,
		rankingService:  rankingService,
		reminderService: reminderService,
	}
}

// Register binds every background task to its handler.
func (that *Handlers) Register(worker registrar) {
	worker.Handle(entity.TaskUpdateRanking, that.UpdateRanking)
	worker.Handle(entity.TaskSendReminder, that.SendReminder)
	worker.Handle(entity.TaskSweepReminders, that.SweepReminders)
	worker.Handle(entity.TaskSettleScores, that.SettleScores)
}

func (that *Handlers) UpdateRanking(ctx context.Context, task entity.Task) error {
	player, err := param(task, entity.ParamPlayer)
	if err != nil {
		return err
	}

	return that.rankingService.Recalculate(ctx, player)
}

func (that *Handlers) SendReminder(ctx context.Context, task entity.Task) error {
	player, err := param(task, entity.ParamPlayer)
	if err != nil {
		return err
	}

	gameID, err := param(task, entity.ParamGameID)
	if err != nil {
		return err
	}

	return that.reminderService.SendReminder(ctx, player, gameID)
}

func (that *Handlers) SweepReminders(ctx context.Context, _ entity.Task) error {
	count, err := that.reminderService.SweepReminders(ctx)
	if err != nil {
		return err
	}

	that.logger.Info("reminders scheduled", "count", count)

	return nil
}

// SettleScores fails when any game stays unsettled so the worker retries it.
func (that *Handlers) SettleScores(ctx context.Context, _ entity.Task) error {
	count, err := that.gameService.SettleFinishedGames(ctx)
	if count > 0 {
		that.logger.Info("finished games settled", "count", count)
	}

	return err
}

func param(task entity.Task, name string) (string, error) {
	value := task.Params[name]
	if value == "" {
		return "", fmt.Errorf("task %s is missing %q: %w", task.Name, name, apperror.ErrInvalidInput)
	}

	return value, nil
}
