// mailer/smtp.go
package mailer

import (
	"context"
	"fmt"
	"time"

	"habit-pact/config"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// SMTPTransport delivers through a single SMTP relay, one connection per batch.
type SMTPTransport struct {
	client *mail.Client
	from   string
	log    *zap.SugaredLogger
}

func NewSMTPTransport(cfg config.EmailConfig, log *zap.SugaredLogger) (*SMTPTransport, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(15 * time.Second),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return &SMTPTransport{client: client, from: cfg.From, log: log}, nil
}

func (t *SMTPTransport) Send(ctx context.Context, msgs ...Message) error {
	if len(msgs) == 0 {
		return nil
	}
	built := make([]*mail.Msg, 0, len(msgs))
	for _, m := range msgs {
		msg, err := buildMsg(t.from, m)
		if err != nil {
			return err
		}
		built = append(built, msg)
	}

	if err := t.client.DialAndSendWithContext(ctx, built...); err != nil {
		return fmt.Errorf("failed to send %d message(s): %w", len(built), err)
	}
	t.log.Infof("[Mailer] 📧 Sent %d message(s)", len(built))
	return nil
}

func buildMsg(from string, m Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid from address %q: %w", from, err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", m.To, err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextHTML, m.HTML)
	return msg, nil
}
