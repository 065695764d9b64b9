package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecofest/accreditation-api/internal/domain/event"
	"github.com/ecofest/accreditation-api/internal/logger"
)

// PostgresEventRepository implements EventRepository using GORM
type PostgresEventRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresEventRepository creates a new PostgreSQL event repository
func NewPostgresEventRepository(db *gorm.DB) *PostgresEventRepository {
	return &PostgresEventRepository{
		db:  db,
		log: logger.Repository("event"),
	}
}

func (r *PostgresEventRepository) Create(e *event.Event) error {
	if err := e.Validate(); err != nil {
		r.log.Error("Event validation failed", "error", err)
		return fmt.Errorf("event validation failed: %w", err)
	}

	if err := r.db.Create(e).Error; err != nil {
		r.log.Error("Failed to create event", "error", err, "name", e.Name)
		return fmt.Errorf("failed to create event: %w", err)
	}

	r.log.Info("Event created successfully", "id", e.ID, "name", e.Name)
	return nil
}

func (r *PostgresEventRepository) GetByID(id uuid.UUID) (*event.Event, error) {
	var e event.Event
	if err := r.db.First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("Event not found", "id", id)
			return nil, &NotFoundError{Entity: "event"}
		}
		r.log.Error("Failed to get event by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get event by ID: %w", err)
	}

	return &e, nil
}

func (r *PostgresEventRepository) GetAll() ([]*event.Event, error) {
	var events []*event.Event
	if err := r.db.Order("created_at DESC").Find(&events).Error; err != nil {
		r.log.Error("Failed to get all events", "error", err)
		return nil, fmt.Errorf("failed to get all events: %w", err)
	}

	r.log.Debug("Retrieved all events", "count", len(events))
	return events, nil
}
