// Package notify assembles the emails the accreditation flow sends and
// hands them to the mail dispatcher. It owns the wording; transport lives
// in internal/mailer.
package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/charmbracelet/log"

	"github.com/ecofest/accreditation-api/internal/domain/registration"
	"github.com/ecofest/accreditation-api/internal/logger"
	"github.com/ecofest/accreditation-api/internal/mailer"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Result is the outcome of a notification attempt.
type Result = mailer.Result

// Options carries the site context substituted into every message.
type Options struct {
	EventName  string
	SiteURL    string
	ReplyTo    string
	AdminEmail string
}

// Notifier builds and dispatches the lifecycle emails.
type Notifier struct {
	dispatcher *mailer.Dispatcher
	opts       Options
	text       *texttemplate.Template
	html       *htmltemplate.Template
	log        *log.Logger
}

// templateData is what the confirmation templates render with.
type templateData struct {
	FullName  string
	Profile   string
	EventName string
	SiteURL   string
}

// NewNotifier parses the embedded templates and binds the dispatcher.
func NewNotifier(dispatcher *mailer.Dispatcher, opts Options) (*Notifier, error) {
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing text templates: %w", err)
	}
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing html templates: %w", err)
	}

	return &Notifier{
		dispatcher: dispatcher,
		opts:       opts,
		text:       text,
		html:       html,
		log:        logger.Mailer(),
	}, nil
}

// Confirmation sends the "request received" email to the registrant.
func (n *Notifier) Confirmation(ctx context.Context, reg *registration.Registration) Result {
	data := templateData{
		FullName:  reg.FullName(),
		Profile:   reg.Profile.Label(),
		EventName: n.opts.EventName,
		SiteURL:   n.opts.SiteURL,
	}

	var textBody, htmlBody bytes.Buffer
	if err := n.text.ExecuteTemplate(&textBody, "confirmation.txt.tmpl", data); err != nil {
		n.log.Error("No se pudo renderizar la plantilla de confirmación", "error", err)
		return Result{OK: false, Reason: fmt.Sprintf("rendering text template: %v", err)}
	}
	if err := n.html.ExecuteTemplate(&htmlBody, "confirmation.html.tmpl", data); err != nil {
		n.log.Error("No se pudo renderizar la plantilla HTML de confirmación", "error", err)
		return Result{OK: false, Reason: fmt.Sprintf("rendering html template: %v", err)}
	}

	return n.dispatcher.Dispatch(ctx, &mailer.Message{
		To:      reg.Email,
		ToName:  reg.FullName(),
		Subject: fmt.Sprintf("%s: accreditation request received", n.opts.EventName),
		Text:    textBody.String(),
		HTML:    htmlBody.String(),
		ReplyTo: n.opts.ReplyTo,
	})
}

// Package sends the approval email carrying the badge and the invitation
// letter. Attachments may be partial when an artifact failed to render.
func (n *Notifier) Package(ctx context.Context, reg *registration.Registration, attachments []mailer.Attachment) Result {
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Your accreditation request for %s has been approved.\n\n"+
			"You will find attached your personal badge and your invitation letter. "+
			"Please present the badge, printed or on your phone, at the accreditation "+
			"desk on arrival.\n\n"+
			"See you soon,\n%s\n%s\n",
		reg.FullName(), n.opts.EventName, n.opts.EventName, n.opts.SiteURL,
	)

	return n.dispatcher.Dispatch(ctx, &mailer.Message{
		To:          reg.Email,
		ToName:      reg.FullName(),
		Subject:     fmt.Sprintf("%s: your accreditation is approved", n.opts.EventName),
		Text:        body,
		ReplyTo:     n.opts.ReplyTo,
		Attachments: attachments,
	})
}

// AdminNew tells the organizing team a new request arrived. No-op when no
// admin address is configured.
func (n *Notifier) AdminNew(ctx context.Context, reg *registration.Registration) Result {
	if n.opts.AdminEmail == "" {
		return Result{OK: true, Channel: "none"}
	}

	body := fmt.Sprintf(
		"New accreditation request.\n\n"+
			"Name: %s\nEmail: %s\nProfile: %s\nNationality: %s\nOrigin: %s\n",
		reg.FullName(), reg.Email, reg.Profile.Label(), reg.Nationality, reg.Origin,
	)

	return n.dispatcher.Dispatch(ctx, &mailer.Message{
		To:      n.opts.AdminEmail,
		Subject: fmt.Sprintf("[%s] New accreditation request: %s", n.opts.EventName, reg.FullName()),
		Text:    body,
	})
}
