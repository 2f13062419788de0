package auth

import (
	"context"

	"github.com/charmbracelet/log"
)

// Mailer delivers password reset links.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}

// LogMailer "delivers" reset links by writing them to a logger. It is the default for a local install
// where there is no outgoing mail.
type LogMailer struct {
	logger *log.Logger
}

func NewLogMailer(logger *log.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, email, link string) error {
	m.logger.Info("password reset requested", "email", email, "link", link)
	return nil
}
