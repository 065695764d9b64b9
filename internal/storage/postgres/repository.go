package postgres

import (
	"errors"

	"github.com/google/uuid"

	"github.com/ecofest/accreditation-api/internal/domain/badge"
	"github.com/ecofest/accreditation-api/internal/domain/event"
	"github.com/ecofest/accreditation-api/internal/domain/participant"
	"github.com/ecofest/accreditation-api/internal/domain/registration"
)

// RegistrationRepository define los metodos para interactuar con las
// inscripciones en la DB.
type RegistrationRepository interface {
	Create(reg *registration.Registration) error
	GetByID(id uuid.UUID) (*registration.Registration, error)
	GetAll() ([]*registration.Registration, error)
	GetByStatus(status registration.Status) ([]*registration.Registration, error)
	GetByParticipant(participantID uuid.UUID) ([]*registration.Registration, error)
	Update(reg *registration.Registration) error
	UpdateStatus(id uuid.UUID, status registration.Status, remark string) error
	UpdateArtifacts(id uuid.UUID, badgePath, letterPath string) error
}

// ParticipantRepository define los métodos para interactuar con los
// participantes en la DB.
type ParticipantRepository interface {
	Create(p *participant.Participant) error
	GetByID(id uuid.UUID) (*participant.Participant, error)
	GetAll() ([]*participant.Participant, error)
}

// BadgeRepository define los métodos para interactuar con los badges emitidos.
type BadgeRepository interface {
	Upsert(b *badge.Badge) error
	GetByRegistrationID(registrationID uuid.UUID) (*badge.Badge, error)
	GetByToken(token uuid.UUID) (*badge.Badge, error)
}

// EventRepository define los métodos para interactuar con los eventos en la DB.
type EventRepository interface {
	Create(e *event.Event) error
	GetByID(id uuid.UUID) (*event.Event, error)
	GetAll() ([]*event.Event, error)
}

// NotFoundError distingue "no existe" de fallos de almacenamiento.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// IsNotFound reports whether err is a repository not-found condition.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
