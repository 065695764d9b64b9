package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ecofest/accreditation-api/internal/domain/badge"
	"github.com/ecofest/accreditation-api/internal/logger"
)

// PostgresBadgeRepository implements BadgeRepository using GORM
type PostgresBadgeRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresBadgeRepository creates a new PostgreSQL badge repository
func NewPostgresBadgeRepository(db *gorm.DB) *PostgresBadgeRepository {
	return &PostgresBadgeRepository{
		db:  db,
		log: logger.Repository("badge"),
	}
}

// Upsert creates the badge record on first approval and refreshes it on
// re-approval, keyed by registration_id so a registration never holds two
// badges.
func (r *PostgresBadgeRepository) Upsert(b *badge.Badge) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "registration_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"png_path", "issued_at", "access_level", "zones",
		}),
	}).Create(b).Error
	if err != nil {
		r.log.Error("Failed to upsert badge", "registration_id", b.RegistrationID, "error", err)
		return fmt.Errorf("failed to upsert badge: %w", err)
	}

	r.log.Info("Badge upserted", "registration_id", b.RegistrationID, "png_path", b.PNGPath)
	return nil
}

func (r *PostgresBadgeRepository) GetByRegistrationID(registrationID uuid.UUID) (*badge.Badge, error) {
	var b badge.Badge
	if err := r.db.First(&b, "registration_id = ?", registrationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "badge"}
		}
		r.log.Error("Failed to get badge by registration ID", "registration_id", registrationID, "error", err)
		return nil, fmt.Errorf("failed to get badge by registration ID: %w", err)
	}

	return &b, nil
}

func (r *PostgresBadgeRepository) GetByToken(token uuid.UUID) (*badge.Badge, error) {
	var b badge.Badge
	if err := r.db.First(&b, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "badge"}
		}
		r.log.Error("Failed to get badge by token", "error", err)
		return nil, fmt.Errorf("failed to get badge by token: %w", err)
	}

	return &b, nil
}
