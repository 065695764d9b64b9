package lifecycle

import (
	"github.com/ecofest/accreditation-api/internal/config"
	"github.com/ecofest/accreditation-api/internal/mailer"
	"github.com/ecofest/accreditation-api/internal/notify"
	"github.com/ecofest/accreditation-api/internal/render"
	"github.com/ecofest/accreditation-api/internal/storage/blob"
	"github.com/ecofest/accreditation-api/internal/storage/postgres"
)

// FromConfig wires the controller with the renderer, mail dispatcher and
// notifier built from configuration. Both the API and the worker binaries
// use this.
func FromConfig(cfg *config.Config, container *postgres.Container, store blob.Store, jobs Jobs) (*Controller, error) {
	renderer := render.NewRenderer(render.Options{
		BadgeDir:  cfg.Assets.BadgeDir,
		FontDir:   cfg.Assets.FontDir,
		EventCode: cfg.Site.EventCode,
		EventName: cfg.Site.EventName,
		SiteURL:   cfg.Site.URL,
	})

	notifier, err := notify.NewNotifier(mailer.NewDispatcherFromConfig(cfg), notify.Options{
		EventName:  cfg.Site.EventName,
		SiteURL:    cfg.Site.URL,
		ReplyTo:    cfg.Mail.ReplyTo,
		AdminEmail: cfg.Site.AdminEmail,
	})
	if err != nil {
		return nil, err
	}

	return NewController(
		container.Registrations(),
		container.Participants(),
		container.Badges(),
		renderer,
		notifier,
		store,
		jobs,
	), nil
}
