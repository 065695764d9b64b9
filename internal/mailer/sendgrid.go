package mailer

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/ecofest/accreditation-api/internal/config"
)

// SendGridSender delivers mail through the SendGrid v3 API.
type SendGridSender struct {
	client  *sendgrid.Client
	from    *sgmail.Email
	replyTo string
}

// NewSendGridSender creates a SendGrid sender from the mail configuration.
// Returns nil when no API key is configured.
func NewSendGridSender(cfg *config.Config) *SendGridSender {
	if cfg.Mail.SendGridKey == "" {
		return nil
	}
	return &SendGridSender{
		client:  sendgrid.NewSendClient(cfg.Mail.SendGridKey),
		from:    sgmail.NewEmail(cfg.Mail.FromName, cfg.Mail.FromEmail),
		replyTo: cfg.Mail.ReplyTo,
	}
}

func (s *SendGridSender) Name() string {
	return "sendgrid"
}

func (s *SendGridSender) Send(ctx context.Context, msg *Message) error {
	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.Subject = msg.Subject

	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.To))
	m.AddPersonalizations(p)

	if msg.Text != "" {
		m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}

	replyTo := msg.ReplyTo
	if replyTo == "" {
		replyTo = s.replyTo
	}
	if replyTo != "" {
		m.SetReplyTo(sgmail.NewEmail("", replyTo))
	}

	for _, att := range msg.Attachments {
		a := sgmail.NewAttachment()
		a.SetFilename(att.Filename)
		a.SetType(att.MIMEType)
		a.SetContent(base64.StdEncoding.EncodeToString(att.Content))
		a.SetDisposition("attachment")
		m.AddAttachment(a)
	}

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid responded %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
