// mailer/log.go
package mailer

import (
	"context"

	"go.uber.org/zap"
)

// LogTransport writes messages to the log instead of sending them. Used when
// no SMTP host is configured.
type LogTransport struct {
	log *zap.SugaredLogger
}

func NewLogTransport(log *zap.SugaredLogger) *LogTransport {
	return &LogTransport{log: log}
}

func (t *LogTransport) Send(_ context.Context, msgs ...Message) error {
	for _, m := range msgs {
		t.log.Infow("[Mailer] ✉️ Mail not sent (no SMTP configured)",
			"to", m.To,
			"subject", m.Subject,
			"bytes", len(m.HTML),
		)
	}
	return nil
}
