package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-league/internal/entity"
)

// Handler runs one task. Returning an error schedules a retry.
type Handler func(ctx context.Context, task entity.Task) error

type WorkerOptions struct {
	Concurrency int
	MaxAttempts int
	PollTimeout time.Duration
}

type periodicTask struct {
	interval time.Duration
	task     entity.Task
}

// Worker pulls tasks from a Queue and dispatches them to registered handlers.
type Worker struct {
	logger *slog.Logger
	queue  *Queue
	opts   WorkerOptions

	handlers map[string]Handler
	periodic []periodicTask
}

func NewWorker(logger *slog.Logger, queue *Queue, opts WorkerOptions) *Worker {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}

	if opts.PollTimeout < time.Second {
		opts.PollTimeout = time.Second
	}

	return &Worker{
		logger: logger.With("component", "worker"),
		queue:  queue,
		opts:   opts,

		handlers: make(map[string]Handler),
	}
}

// Handle registers the handler of a task name. It must be called before Run.
func (that *Worker) Handle(name string, handler Handler) {
	that.handlers[name] = handler
}

// Schedule enqueues task every interval while Run is active.
func (that *Worker) Schedule(interval time.Duration, task entity.Task) {
	if interval <= 0 {
		return
	}

	that.periodic = append(that.periodic, periodicTask{interval: interval, task: task})
}

// Run processes tasks until ctx is canceled.
func (that *Worker) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")

	recovered, err := that.queue.RecoverProcessing(ctx)
	if err != nil {
		return fmt.Errorf("failed to start worker: %w", err)
	}

	if recovered > 0 {
		log.Info("requeued unfinished tasks", "count", recovered)
	}

	var wg sync.WaitGroup

	for _, p := range that.periodic {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			that.tick(ctx, p)
		}()
	}

	for i := 0; i < that.opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			that.loop(ctx)
		}()
	}

	log.Info("worker started", "concurrency", that.opts.Concurrency)

	wg.Wait()

	return nil
}

func (that *Worker) loop(ctx context.Context) {
	log := that.logger.With("method", "loop")

	for ctx.Err() == nil {
		if _, err := that.ProcessOne(ctx); err != nil && ctx.Err() == nil {
			log.Error("failed to process task", "error", err)

			// avoid spinning on a broken connection
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}
}

func (that *Worker) tick(ctx context.Context, p periodicTask) {
	log := that.logger.With("method", "tick", "task", p.task.Name)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := that.queue.Enqueue(ctx, p.task); err != nil {
				log.Error("failed to enqueue periodic task", "error", err)
			}
		}
	}
}

// ProcessOne waits for a single task and runs it. It reports false when the
// poll timed out without a task.
func (that *Worker) ProcessOne(ctx context.Context) (bool, error) {
	envelope, err := that.queue.Dequeue(ctx, that.opts.PollTimeout)
	if errors.Is(err, ErrEmpty) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	log := that.logger.With("method", "ProcessOne", "task", envelope.Task.Name, "id", envelope.ID)

	handler, ok := that.handlers[envelope.Task.Name]
	if !ok {
		log.Warn("no handler for task, dropping it")
		return true, that.queue.Ack(ctx, envelope)
	}

	if err = that.run(ctx, handler, envelope.Task); err == nil {
		return true, that.queue.Ack(ctx, envelope)
	}

	if envelope.Attempts+1 >= that.opts.MaxAttempts {
		log.Error("task failed, giving up", "attempts", envelope.Attempts+1, "error", err)
		return true, that.queue.Ack(ctx, envelope)
	}

	log.Warn("task failed, retrying", "attempts", envelope.Attempts+1, "error", err)

	return true, that.queue.Retry(ctx, envelope)
}

func (that *Worker) run(ctx context.Context, handler Handler, task entity.Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()

	return handler(ctx, task)
}
