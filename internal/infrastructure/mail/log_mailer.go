// Package mail holds the verification mail senders.
package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/invoicing-system/internal/core/ports"
)

// LogMailer "sends" mail by writing it to the log. No message leaves the
// process.
type LogMailer struct {
	log zerolog.Logger
}

var _ ports.Mailer = (*LogMailer)(nil)

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) SendVerification(_ context.Context, mail ports.VerificationMail) error {
	m.log.Info().
		Str("to", mail.Email).
		Str("token", mail.Token).
		Msg("verification email sent")
	return nil
}
