package email

import (
	"context"

	"github.com/rs/zerolog"

	"flerr-server/internal/domain/ports/adapter"
)

var _ adapter.Mailer = (*LogMailer)(nil)

// LogMailer writes outgoing mail to the log instead of delivering it.
// Stands in until an SMTP or API-backed implementation is configured;
// callers treat delivery as fire-and-forget either way.
type LogMailer struct {
	log *zerolog.Logger
}

func NewLogMailer(logger *zerolog.Logger) *LogMailer {
	return &LogMailer{log: logger}
}

func (m *LogMailer) SendWelcome(ctx context.Context, to, name string) error {
	m.log.Info().Str("to", to).Str("name", name).Msg("welcome email (not delivered: log mailer)")
	return nil
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, to, resetToken string) error {
	m.log.Info().Str("to", to).Msg("password reset email (not delivered: log mailer)")
	return nil
}
