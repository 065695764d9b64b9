package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ecofest/accreditation-api/internal/domain/registration"
	"github.com/ecofest/accreditation-api/internal/logger"
)

// PostgresRegistrationRepository implements RegistrationRepository using GORM
type PostgresRegistrationRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresRegistrationRepository creates a new PostgreSQL registration repository
func NewPostgresRegistrationRepository(db *gorm.DB) *PostgresRegistrationRepository {
	return &PostgresRegistrationRepository{
		db:  db,
		log: logger.Repository("registration"),
	}
}

func (r *PostgresRegistrationRepository) Create(reg *registration.Registration) error {
	r.log.Debug("Creating registration", "email", reg.Email, "profile", reg.Profile.String())

	if err := reg.Validate(); err != nil {
		r.log.Error("Registration validation failed", "error", err)
		return fmt.Errorf("registration validation failed: %w", err)
	}

	if err := r.db.Create(reg).Error; err != nil {
		r.log.Error("Failed to create registration", "error", err, "email", reg.Email)
		return fmt.Errorf("failed to create registration: %w", err)
	}

	r.log.Info("Registration created successfully", "id", reg.ID, "email", reg.Email)
	return nil
}

func (r *PostgresRegistrationRepository) GetByID(id uuid.UUID) (*registration.Registration, error) {
	var reg registration.Registration
	if err := r.db.First(&reg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("Registration not found", "id", id)
			return nil, &NotFoundError{Entity: "registration"}
		}
		r.log.Error("Failed to get registration by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get registration by ID: %w", err)
	}

	return &reg, nil
}

func (r *PostgresRegistrationRepository) GetAll() ([]*registration.Registration, error) {
	var regs []*registration.Registration
	if err := r.db.Order("created_at DESC").Find(&regs).Error; err != nil {
		r.log.Error("Failed to get all registrations", "error", err)
		return nil, fmt.Errorf("failed to get all registrations: %w", err)
	}

	r.log.Debug("Retrieved all registrations", "count", len(regs))
	return regs, nil
}

func (r *PostgresRegistrationRepository) GetByStatus(status registration.Status) ([]*registration.Registration, error) {
	var regs []*registration.Registration
	if err := r.db.Where("status = ?", status).Order("created_at DESC").Find(&regs).Error; err != nil {
		r.log.Error("Failed to get registrations by status", "status", status.String(), "error", err)
		return nil, fmt.Errorf("failed to get registrations by status: %w", err)
	}

	return regs, nil
}

func (r *PostgresRegistrationRepository) GetByParticipant(participantID uuid.UUID) ([]*registration.Registration, error) {
	var regs []*registration.Registration
	if err := r.db.Where("participant_id = ?", participantID).Order("created_at DESC").Find(&regs).Error; err != nil {
		r.log.Error("Failed to get registrations by participant", "participant_id", participantID, "error", err)
		return nil, fmt.Errorf("failed to get registrations by participant: %w", err)
	}

	return regs, nil
}

func (r *PostgresRegistrationRepository) Update(reg *registration.Registration) error {
	if err := r.db.Save(reg).Error; err != nil {
		r.log.Error("Failed to update registration", "id", reg.ID, "error", err)
		return fmt.Errorf("failed to update registration: %w", err)
	}

	r.log.Debug("Registration updated", "id", reg.ID)
	return nil
}

// UpdateStatus persists a status transition together with the reviewer's
// remark. The write is deliberately narrow so a transition commits even
// when later artifact columns are untouched.
func (r *PostgresRegistrationRepository) UpdateStatus(id uuid.UUID, status registration.Status, remark string) error {
	result := r.db.Model(&registration.Registration{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"admin_remark": remark,
		})
	if result.Error != nil {
		r.log.Error("Failed to update registration status", "id", id, "status", status.String(), "error", result.Error)
		return fmt.Errorf("failed to update registration status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Entity: "registration"}
	}

	r.log.Info("Registration status updated", "id", id, "status", status.String())
	return nil
}

// UpdateArtifacts records the generated artifact references. Empty values
// are written as-is: a failed generation clears nothing that a previous
// successful run produced only when the caller passes the previous paths.
func (r *PostgresRegistrationRepository) UpdateArtifacts(id uuid.UUID, badgePath, letterPath string) error {
	result := r.db.Model(&registration.Registration{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"badge_path":  badgePath,
			"letter_path": letterPath,
		})
	if result.Error != nil {
		r.log.Error("Failed to update registration artifacts", "id", id, "error", result.Error)
		return fmt.Errorf("failed to update registration artifacts: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Entity: "registration"}
	}

	return nil
}
