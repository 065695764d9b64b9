package mailer

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/ecofest/accreditation-api/internal/config"
	"github.com/ecofest/accreditation-api/internal/logger"
)

// Attachment is a file attached to an outgoing message.
type Attachment struct {
	Filename string
	Content  []byte
	MIMEType string
}

// Message is a provider-agnostic outgoing email.
type Message struct {
	To          string
	ToName      string
	Subject     string
	Text        string
	HTML        string
	ReplyTo     string
	Attachments []Attachment
}

// Result reports the outcome of a dispatch attempt. It is always returned,
// never an error: email delivery is a best-effort side effect.
type Result struct {
	OK      bool   `json:"ok"`
	Channel string `json:"channel,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// Sender delivers a message through a single provider.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg *Message) error
}

// Dispatcher tries the primary sender first and falls back to the secondary
// when the primary fails or is not configured.
type Dispatcher struct {
	primary  Sender
	fallback Sender
	log      *log.Logger
}

// NewDispatcher creates a dispatcher. Either sender may be nil when that
// channel is not configured.
func NewDispatcher(primary, fallback Sender) *Dispatcher {
	return &Dispatcher{
		primary:  primary,
		fallback: fallback,
		log:      logger.Mailer(),
	}
}

// NewDispatcherFromConfig builds the SendGrid-then-SMTP dispatcher from the
// mail configuration, skipping channels that are not configured.
func NewDispatcherFromConfig(cfg *config.Config) *Dispatcher {
	var primary, fallback Sender
	if s := NewSendGridSender(cfg); s != nil {
		primary = s
	}
	if s := NewSMTPSender(cfg); s != nil {
		fallback = s
	}
	return NewDispatcher(primary, fallback)
}

// Dispatch attempts delivery through the configured channels in order. The
// returned Result captures which channel succeeded, or why both failed.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *Message) Result {
	var reasons []string

	for _, sender := range []Sender{d.primary, d.fallback} {
		if sender == nil {
			continue
		}

		err := sender.Send(ctx, msg)
		if err == nil {
			d.log.Info("Correo enviado", "channel", sender.Name(), "to", msg.To, "subject", msg.Subject)
			return Result{OK: true, Channel: sender.Name()}
		}

		d.log.Warn("Fallo el envío de correo", "channel", sender.Name(), "to", msg.To, "error", err)
		reasons = append(reasons, fmt.Sprintf("%s: %v", sender.Name(), err))
	}

	reason := "no mail channel configured"
	if len(reasons) > 0 {
		reason = reasons[0]
		for _, r := range reasons[1:] {
			reason += "; " + r
		}
	}

	d.log.Error("Correo no entregado por ningún canal", "to", msg.To, "reason", reason)
	return Result{OK: false, Reason: reason}
}
