package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-league/internal/config"
	"github.com/rocketscienceinc/tictactoe-league/internal/entity"
	"github.com/rocketscienceinc/tictactoe-league/internal/notifier"
	"github.com/rocketscienceinc/tictactoe-league/internal/repository"
	"github.com/rocketscienceinc/tictactoe-league/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-league/internal/service"
	"github.com/rocketscienceinc/tictactoe-league/internal/taskqueue"
	"github.com/rocketscienceinc/tictactoe-league/transport/rest"
	"github.com/rocketscienceinc/tictactoe-league/transport/tasks"
)

const taskQueueName = "league"

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	if conf.Redis.Host == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedis(ctx, storage.RedisOptions{
		Addr:     conf.Redis.GetRedisAddr(),
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	postgresStorage, err := storage.NewPostgres(ctx, conf.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("could not connect to postgres storage: %w", err)
	}

	defer func() {
		if err = postgresStorage.Close(); err != nil {
			log.Error("could not close postgres storage", "error", err)
		}
	}()

	if err = storage.Migrate(ctx, postgresStorage); err != nil {
		return fmt.Errorf("could not migrate postgres storage: %w", err)
	}

	playerRepo := repository.NewPlayerRepository(postgresStorage)
	scoreRepo := repository.NewScoreRepository(postgresStorage)
	gameRepo := repository.NewGameRepository(redisStorage)
	rankingRepo := repository.NewRankingRepository(redisStorage)

	queue := taskqueue.NewQueue(redisStorage, taskQueueName)

	playerService := service.NewPlayerService(playerRepo)
	gameService := service.NewGameService(logger, gameRepo, playerRepo, scoreRepo, queue)
	scoreService := service.NewScoreService(playerRepo, scoreRepo)
	rankingService := service.NewRankingService(logger, scoreRepo, rankingRepo)
	reminderService := service.NewReminderService(logger, playerRepo, gameRepo, newNotifier(logger, conf), queue)

	worker := taskqueue.NewWorker(logger, queue, taskqueue.WorkerOptions{
		Concurrency: conf.Worker.Concurrency,
		MaxAttempts: conf.Worker.MaxAttempts,
		PollTimeout: conf.Worker.PollTimeout,
	})
	tasks.NewHandlers(logger, gameService, rankingService, reminderService).Register(worker)
	worker.Schedule(conf.Worker.ReminderInterval, entity.Task{Name: entity.TaskSweepReminders})
	worker.Schedule(conf.Worker.SettleInterval, entity.Task{Name: entity.TaskSettleScores})

	router := rest.NewRouter(logger, rest.NewHandler(logger, playerService, gameService, scoreService, rankingService))

	log.Info("Starting HTTP server", "port", conf.HTTPPort)

	// storages are closed by the defers above only after both components return
	err = runComponents(ctx,
		component{name: "task worker", run: worker.Run},
		component{name: "HTTP server", run: func(ctx context.Context) error {
			return rest.Start(ctx, conf.HTTPPort, router)
		}},
	)
	if err != nil {
		return err
	}

	log.Info("Application stopped")

	return nil
}

type component struct {
	name string
	run  func(ctx context.Context) error
}

// runComponents runs every component until ctx is canceled or one of them
// fails, which stops the rest. It returns once all of them have returned.
func runComponents(ctx context.Context, components ...component) error {
	group, groupCtx := errgroup.WithContext(ctx)

	for _, c := range components {
		c := c
		group.Go(func() error {
			if err := c.run(groupCtx); err != nil {
				return fmt.Errorf("%s error: %w", c.name, err)
			}
			return nil
		})
	}

	return group.Wait()
}

func newNotifier(logger *slog.Logger, conf *config.Config) notifier.Notifier {
	if !conf.Mail.Enabled() {
		return notifier.NewLog(logger)
	}

	return notifier.NewSMTP(logger, notifier.SMTPOptions{
		Addr:     conf.Mail.GetSMTPAddr(),
		Username: conf.Mail.Username,
		Password: conf.Mail.Password,
		From:     conf.Mail.From,
	})
}
