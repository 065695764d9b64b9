package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecofest/accreditation-api/internal/domain/participant"
	"github.com/ecofest/accreditation-api/internal/logger"
)

// PostgresParticipantRepository implements ParticipantRepository using GORM
type PostgresParticipantRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresParticipantRepository creates a new PostgreSQL participant repository
func NewPostgresParticipantRepository(db *gorm.DB) *PostgresParticipantRepository {
	return &PostgresParticipantRepository{
		db:  db,
		log: logger.Repository("participant"),
	}
}

func (r *PostgresParticipantRepository) Create(p *participant.Participant) error {
	if err := r.db.Create(p).Error; err != nil {
		r.log.Error("Failed to create participant", "error", err)
		return fmt.Errorf("failed to create participant: %w", err)
	}

	r.log.Info("Participant created successfully", "id", p.ID)
	return nil
}

func (r *PostgresParticipantRepository) GetByID(id uuid.UUID) (*participant.Participant, error) {
	var p participant.Participant
	if err := r.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("Participant not found", "id", id)
			return nil, &NotFoundError{Entity: "participant"}
		}
		r.log.Error("Failed to get participant by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get participant by ID: %w", err)
	}

	return &p, nil
}

func (r *PostgresParticipantRepository) GetAll() ([]*participant.Participant, error) {
	var participants []*participant.Participant
	if err := r.db.Find(&participants).Error; err != nil {
		r.log.Error("Failed to get all participants", "error", err)
		return nil, fmt.Errorf("failed to get all participants: %w", err)
	}

	r.log.Debug("Retrieved all participants", "count", len(participants))
	return participants, nil
}
