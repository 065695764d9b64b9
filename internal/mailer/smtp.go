package mailer

import (
	"bytes"
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/ecofest/accreditation-api/internal/config"
)

// SMTPSender delivers mail through a plain SMTP relay. It is the fallback
// channel when the API provider is down or not configured.
type SMTPSender struct {
	host     string
	port     int
	user     string
	password string
	from     string
	fromName string
	replyTo  string
}

// NewSMTPSender creates an SMTP sender from the mail configuration.
// Returns nil when no SMTP host is configured.
func NewSMTPSender(cfg *config.Config) *SMTPSender {
	if cfg.Mail.SMTPHost == "" {
		return nil
	}
	return &SMTPSender{
		host:     cfg.Mail.SMTPHost,
		port:     cfg.Mail.SMTPPort,
		user:     cfg.Mail.SMTPUser,
		password: cfg.Mail.SMTPPassword,
		from:     cfg.Mail.FromEmail,
		fromName: cfg.Mail.FromName,
		replyTo:  cfg.Mail.ReplyTo,
	}
}

func (s *SMTPSender) Name() string {
	return "smtp"
}

func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	m := gomail.NewMsg()
	if err := m.FromFormat(s.fromName, s.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}

	replyTo := msg.ReplyTo
	if replyTo == "" {
		replyTo = s.replyTo
	}
	if replyTo != "" {
		if err := m.ReplyTo(replyTo); err != nil {
			return fmt.Errorf("invalid reply-to: %w", err)
		}
	}

	m.Subject(msg.Subject)
	if msg.Text != "" {
		m.SetBodyString(gomail.TypeTextPlain, msg.Text)
	}
	if msg.HTML != "" {
		if msg.Text == "" {
			m.SetBodyString(gomail.TypeTextHTML, msg.HTML)
		} else {
			m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
		}
	}

	for _, att := range msg.Attachments {
		if err := m.AttachReader(att.Filename, bytes.NewReader(att.Content),
			gomail.WithFileContentType(gomail.ContentType(att.MIMEType))); err != nil {
			return fmt.Errorf("attaching %s: %w", att.Filename, err)
		}
	}

	opts := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if s.user != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.user),
			gomail.WithPassword(s.password),
		)
	}

	client, err := gomail.NewClient(s.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp delivery: %w", err)
	}
	return nil
}
