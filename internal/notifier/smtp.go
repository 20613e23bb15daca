package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"
)

var ErrInvalidRecipient = errors.New("invalid recipient")

type SMTPOptions struct {
	Addr     string
	Username string
	Password string
	From     string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTP struct {
	logger *slog.Logger
	opts   SMTPOptions

	send sendFunc
}

func NewSMTP(logger *slog.Logger, opts SMTPOptions) *SMTP {
	return &SMTP{
		logger: logger.With("component", "notifier"),
		opts:   opts,

		send: smtp.SendMail,
	}
}

func (that *SMTP) Send(ctx context.Context, recipient, subject, body string) error {
	log := that.logger.With("method", "Send", "recipient", recipient)

	if recipient == "" || strings.ContainsAny(recipient, "\r\n") {
		return ErrInvalidRecipient
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if that.opts.Username != "" {
		host, _, err := net.SplitHostPort(that.opts.Addr)
		if err != nil {
			return fmt.Errorf("invalid smtp address: %w", err)
		}

		auth = smtp.PlainAuth("", that.opts.Username, that.opts.Password, host)
	}

	msg := buildMessage(that.opts.From, recipient, subject, body, time.Now())

	if err := that.send(that.opts.Addr, auth, that.opts.From, []string{recipient}, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	log.Debug("mail sent", "subject", subject)

	return nil
}

func buildMessage(from, to, subject, body string, date time.Time) []byte {
	var b strings.Builder

	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("Date: " + date.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")

	return []byte(b.String())
}
