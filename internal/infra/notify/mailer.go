package notify

import (
	"context"

	"github.com/rs/zerolog"

	"jobportal-subscription/internal/domain/ports/adapter"
)

// Ensure compile-time conformance
var _ adapter.EmailNotifier = (*LogMailer)(nil)

// LogMailer writes outgoing mail to the log instead of an SMTP relay.
// Email delivery is mocked in this service; the port stays so a real relay
// can be dropped in without touching the use cases.
type LogMailer struct {
	log *zerolog.Logger
}

func NewLogMailer(logger *zerolog.Logger) *LogMailer {
	return &LogMailer{log: logger}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.log.Info().
		Str("to", to).
		Str("subject", subject).
		Int("body_bytes", len(body)).
		Msg("email queued (mock)")
	return nil
}
