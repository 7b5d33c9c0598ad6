package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/dolluzcorp/dassist-helpdesk/internal/config"
)

// SMTPMailer sends through the configured relay. A client is dialed per send;
// volume is a handful of mails per ticket.
type SMTPMailer struct {
	cfg  config.SMTPConfig
	opts []mail.Option
}

// NewSMTPMailer validates the relay settings once at startup.
func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(cfg.Timeout()),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	if _, err := mail.NewClient(cfg.Host, opts...); err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPMailer{cfg: cfg, opts: opts}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	out := mail.NewMsg()
	if err := out.FromFormat(m.cfg.FromName, m.cfg.FromAddress); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := out.To(msg.To...); err != nil {
		return fmt.Errorf("recipients: %w", err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)

	client, err := mail.NewClient(m.cfg.Host, m.opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout())
	defer cancel()
	if err := client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("send %s: %w", msg.Template, err)
	}
	return nil
}
