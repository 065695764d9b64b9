// Package lifecycle implements the registration state machine: submission,
// review decisions and the artifact/notification side effects each
// transition triggers. Status changes are committed before any side effect
// runs; side-effect failures are reported, never rolled back into state.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ecofest/accreditation-api/internal/domain/badge"
	"github.com/ecofest/accreditation-api/internal/domain/participant"
	"github.com/ecofest/accreditation-api/internal/domain/registration"
	"github.com/ecofest/accreditation-api/internal/logger"
	"github.com/ecofest/accreditation-api/internal/mailer"
	"github.com/ecofest/accreditation-api/internal/notify"
	"github.com/ecofest/accreditation-api/internal/queue"
	"github.com/ecofest/accreditation-api/internal/render"
	"github.com/ecofest/accreditation-api/internal/storage/blob"
	"github.com/ecofest/accreditation-api/internal/storage/postgres"
)

// Jobs is the slice of the queue the controller needs. Nil means no queue
// is configured and notification work runs synchronously.
type Jobs interface {
	Enqueue(ctx context.Context, jobType queue.JobType, registrationID uuid.UUID) error
}

// Renderer produces the approval artifacts. Satisfied by *render.Renderer.
type Renderer interface {
	Badge(reg *registration.Registration) (*render.Artifact, error)
	Letter(reg *registration.Registration) (*render.Artifact, error)
}

// SubmitRequest carries everything a public submission provides.
type SubmitRequest struct {
	ParticipantID *uuid.UUID
	Organization  string
	EventID       *uuid.UUID

	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Nationality string
	Origin      string
	Address     string
	BirthDate   *time.Time
	Profile     registration.Profile
}

// SideEffects reports what happened after an approval was committed. The
// approval itself is durable regardless of what this says.
type SideEffects struct {
	Badge  notify.Result `json:"badge"`
	Letter notify.Result `json:"letter"`
	Email  notify.Result `json:"email"`
}

// Warnings flattens the failed side effects into human-readable strings.
func (s *SideEffects) Warnings() []string {
	var warnings []string
	if !s.Badge.OK {
		warnings = append(warnings, "badge: "+s.Badge.Reason)
	}
	if !s.Letter.OK {
		warnings = append(warnings, "letter: "+s.Letter.Reason)
	}
	if !s.Email.OK {
		warnings = append(warnings, "email: "+s.Email.Reason)
	}
	return warnings
}

// Controller coordina el ciclo de vida de las inscripciones.
type Controller struct {
	registrations postgres.RegistrationRepository
	participants  postgres.ParticipantRepository
	badges        postgres.BadgeRepository
	renderer      Renderer
	notifier      *notify.Notifier
	store         blob.Store
	jobs          Jobs
	log           *log.Logger

	// per-registration locks so concurrent decisions on the same
	// registration serialize instead of interleaving side effects
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewController wires the lifecycle controller. jobs may be nil.
func NewController(
	registrations postgres.RegistrationRepository,
	participants postgres.ParticipantRepository,
	badges postgres.BadgeRepository,
	renderer Renderer,
	notifier *notify.Notifier,
	store blob.Store,
	jobs Jobs,
) *Controller {
	return &Controller{
		registrations: registrations,
		participants:  participants,
		badges:        badges,
		renderer:      renderer,
		notifier:      notifier,
		store:         store,
		jobs:          jobs,
		log:           logger.Service("lifecycle"),
		locks:         make(map[uuid.UUID]*sync.Mutex),
	}
}

func (c *Controller) lock(id uuid.UUID) func() {
	c.mu.Lock()
	m, ok := c.locks[id]
	if !ok {
		m = &sync.Mutex{}
		c.locks[id] = m
	}
	c.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// Submit creates a Pending registration. The confirmation email and the
// admin heads-up are best effort: their failure never blocks creation.
func (c *Controller) Submit(ctx context.Context, req SubmitRequest) (*registration.Registration, error) {
	participantID := uuid.Nil
	if req.ParticipantID != nil {
		p, err := c.participants.GetByID(*req.ParticipantID)
		if err != nil {
			return nil, err
		}
		participantID = p.ID
	} else {
		p := participant.New(nil, req.Organization)
		if err := c.participants.Create(p); err != nil {
			return nil, fmt.Errorf("creating participant: %w", err)
		}
		participantID = p.ID
	}

	reg := registration.New(participantID, req.FirstName, req.LastName, req.Email, req.Profile)
	reg.Phone = req.Phone
	reg.Nationality = req.Nationality
	reg.Origin = req.Origin
	reg.Address = req.Address
	reg.BirthDate = req.BirthDate
	reg.EventID = req.EventID

	if err := reg.Validate(); err != nil {
		return nil, err
	}

	if err := c.registrations.Create(reg); err != nil {
		return nil, fmt.Errorf("creating registration: %w", err)
	}

	c.log.Info("Inscripción creada", "registration_id", reg.ID, "email", reg.Email, "profile", reg.Profile.String())

	// mejor esfuerzo: la inscripción ya está persistida
	if c.jobs != nil {
		if err := c.jobs.Enqueue(ctx, queue.JobTypeConfirmation, reg.ID); err != nil {
			c.log.Warn("No se pudo encolar la confirmación", "registration_id", reg.ID, "error", err)
		}
	} else if result := c.notifier.Confirmation(ctx, reg); !result.OK {
		c.log.Warn("Confirmación no entregada", "registration_id", reg.ID, "reason", result.Reason)
	}

	if result := c.notifier.AdminNew(ctx, reg); !result.OK {
		c.log.Warn("Aviso al equipo no entregado", "registration_id", reg.ID, "reason", result.Reason)
	}

	return reg, nil
}

// Approve commits the Approved status, then generates the badge and the
// invitation letter and dispatches the package email. With a queue
// configured the generate-and-send work is offloaded to the worker; the
// returned SideEffects describes the post-commit work either way, and the
// decision itself never depends on it. Re-approving regenerates artifacts
// and re-sends the email.
func (c *Controller) Approve(ctx context.Context, id uuid.UUID, remark string) (*registration.Registration, *SideEffects, error) {
	unlock := c.lock(id)
	defer unlock()

	reg, err := c.registrations.GetByID(id)
	if err != nil {
		return nil, nil, err
	}

	if err := c.registrations.UpdateStatus(id, registration.StatusApproved, remark); err != nil {
		return nil, nil, fmt.Errorf("persisting approval: %w", err)
	}
	reg.Status = registration.StatusApproved
	reg.AdminRemark = remark

	c.log.Info("Inscripción aprobada", "registration_id", id)

	if c.jobs != nil {
		if err := c.jobs.Enqueue(ctx, queue.JobTypePackage, id); err == nil {
			queued := notify.Result{OK: true, Channel: "queued"}
			return reg, &SideEffects{Badge: queued, Letter: queued, Email: queued}, nil
		} else {
			// la aprobación ya está persistida: degradar a envío síncrono
			c.log.Warn("No se pudo encolar el paquete, se envía en línea", "registration_id", id, "error", err)
		}
	}

	effects := c.deliverPackage(ctx, reg)
	return reg, effects, nil
}

// Reject commits the Rejected status. No artifacts, no notification.
func (c *Controller) Reject(ctx context.Context, id uuid.UUID, remark string) (*registration.Registration, error) {
	unlock := c.lock(id)
	defer unlock()

	reg, err := c.registrations.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := c.registrations.UpdateStatus(id, registration.StatusRejected, remark); err != nil {
		return nil, fmt.Errorf("persisting rejection: %w", err)
	}
	reg.Status = registration.StatusRejected
	reg.AdminRemark = remark

	c.log.Info("Inscripción rechazada", "registration_id", id)
	return reg, nil
}

// ResendConfirmation re-sends the submission confirmation without touching
// the registration state.
func (c *Controller) ResendConfirmation(ctx context.Context, id uuid.UUID) error {
	reg, err := c.registrations.GetByID(id)
	if err != nil {
		return err
	}

	if c.jobs != nil {
		return c.jobs.Enqueue(ctx, queue.JobTypeConfirmation, reg.ID)
	}

	if result := c.notifier.Confirmation(ctx, reg); !result.OK {
		return fmt.Errorf("confirmation not delivered: %s", result.Reason)
	}
	return nil
}

// SendConfirmation is the worker entry point for confirmation jobs.
func (c *Controller) SendConfirmation(ctx context.Context, id uuid.UUID) notify.Result {
	reg, err := c.registrations.GetByID(id)
	if err != nil {
		return notify.Result{OK: false, Reason: err.Error()}
	}
	return c.notifier.Confirmation(ctx, reg)
}

// SendPackage is the worker entry point for package jobs. It re-runs the
// full generate-and-send sequence for an approved registration.
func (c *Controller) SendPackage(ctx context.Context, id uuid.UUID) notify.Result {
	unlock := c.lock(id)
	defer unlock()

	reg, err := c.registrations.GetByID(id)
	if err != nil {
		return notify.Result{OK: false, Reason: err.Error()}
	}
	if !reg.IsApproved() {
		return notify.Result{OK: false, Reason: "registration is not approved"}
	}

	effects := c.deliverPackage(ctx, reg)
	if warnings := effects.Warnings(); len(warnings) > 0 {
		reason := warnings[0]
		for _, w := range warnings[1:] {
			reason += "; " + w
		}
		return notify.Result{OK: effects.Email.OK, Channel: effects.Email.Channel, Reason: reason}
	}
	return effects.Email
}

// deliverPackage generates both artifacts, persists them, and dispatches
// the package email with whatever rendered successfully. Caller holds the
// per-registration lock.
func (c *Controller) deliverPackage(ctx context.Context, reg *registration.Registration) *SideEffects {
	effects := &SideEffects{}
	var attachments []mailer.Attachment

	badgePath := reg.BadgePath
	letterPath := reg.LetterPath

	if art, err := c.renderer.Badge(reg); err != nil {
		effects.Badge = notify.Result{OK: false, Reason: err.Error()}
		c.log.Error("Generación del badge falló", "registration_id", reg.ID, "error", err)
	} else if err := c.store.Write(ctx, art.Path, art.Bytes, art.MIME); err != nil {
		effects.Badge = notify.Result{OK: false, Reason: fmt.Sprintf("storing badge: %v", err)}
		c.log.Error("No se pudo guardar el badge", "registration_id", reg.ID, "error", err)
	} else {
		effects.Badge = notify.Result{OK: true}
		badgePath = art.Path
		attachments = append(attachments, mailer.Attachment{
			Filename: fmt.Sprintf("badge_%s.png", reg.ID),
			Content:  art.Bytes,
			MIMEType: art.MIME,
		})
		c.recordBadge(reg, art.Path)
	}

	if art, err := c.renderer.Letter(reg); err != nil {
		effects.Letter = notify.Result{OK: false, Reason: err.Error()}
		c.log.Error("Generación de la carta falló", "registration_id", reg.ID, "error", err)
	} else if err := c.store.Write(ctx, art.Path, art.Bytes, art.MIME); err != nil {
		effects.Letter = notify.Result{OK: false, Reason: fmt.Sprintf("storing letter: %v", err)}
		c.log.Error("No se pudo guardar la carta", "registration_id", reg.ID, "error", err)
	} else {
		effects.Letter = notify.Result{OK: true}
		letterPath = art.Path
		attachments = append(attachments, mailer.Attachment{
			Filename: fmt.Sprintf("invitation_%s.pdf", reg.ID),
			Content:  art.Bytes,
			MIMEType: art.MIME,
		})
	}

	if badgePath != reg.BadgePath || letterPath != reg.LetterPath {
		if err := c.registrations.UpdateArtifacts(reg.ID, badgePath, letterPath); err != nil {
			c.log.Error("No se pudieron guardar las rutas de artefactos", "registration_id", reg.ID, "error", err)
		} else {
			reg.BadgePath = badgePath
			reg.LetterPath = letterPath
		}
	}

	// the email goes out even with partial attachments
	effects.Email = c.notifier.Package(ctx, reg, attachments)
	return effects
}

// recordBadge upserts the issued-badge row. The access token survives
// re-issues so already-printed QR codes stay valid.
func (c *Controller) recordBadge(reg *registration.Registration, pngPath string) {
	zones := reg.Profile.AccessZones()
	level := reg.Profile.String()

	existing, err := c.badges.GetByRegistrationID(reg.ID)
	if err != nil && !postgres.IsNotFound(err) {
		c.log.Warn("No se pudo consultar el badge emitido", "registration_id", reg.ID, "error", err)
		return
	}

	var b *badge.Badge
	if existing != nil {
		existing.Reissue(pngPath, level, zones)
		b = existing
	} else {
		b = badge.New(reg.ID, pngPath, level, zones)
	}

	if err := c.badges.Upsert(b); err != nil {
		c.log.Warn("No se pudo registrar el badge emitido", "registration_id", reg.ID, "error", err)
	}
}
