package notifier

import (
	"context"
	"log/slog"
)

// Notifier delivers a message to a player's email address.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// Log only records the messages it is asked to send. It is used when no mail
// server is configured.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{
		logger: logger.With("component", "notifier"),
	}
}

func (that *Log) Send(_ context.Context, recipient, subject, body string) error {
	that.logger.Info("mail not configured, skipping message",
		"recipient", recipient, "subject", subject, "body", body)

	return nil
}
