package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier writes mail to the log instead of sending it. Used in
// development, where no SMTP host is configured.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendMail(_ context.Context, to, subject, body string) error {
	n.logger.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("mail (log notifier)")
	return nil
}
