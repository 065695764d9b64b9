package badge

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Badge records an issued badge for an approved registration: where the
// rendered image lives, the stable token used to verify the badge at
// check-in, and the access the holder is granted. One-to-one with a
// registration; re-approval refreshes the existing record rather than
// issuing a second badge.
type Badge struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	RegistrationID uuid.UUID      `json:"registration_id" gorm:"type:uuid;not null;uniqueIndex"`
	PNGPath        string         `json:"png_path"`
	Token          uuid.UUID      `json:"token" gorm:"type:uuid;not null;uniqueIndex"`
	IssuedAt       *time.Time     `json:"issued_at,omitempty"`
	AccessLevel    string         `json:"access_level"`
	Zones          pq.StringArray `json:"zones" gorm:"type:text[]"`
}

// TableName overrides the table name used by GORM
func (Badge) TableName() string {
	return "badges"
}

// BeforeCreate sets UUIDs before creating the record
func (b *Badge) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Token == uuid.Nil {
		b.Token = uuid.New()
	}
	return nil
}

// New creates a badge record for a registration.
func New(registrationID uuid.UUID, pngPath, accessLevel string, zones []string) *Badge {
	now := time.Now()
	return &Badge{
		ID:             uuid.New(),
		RegistrationID: registrationID,
		PNGPath:        pngPath,
		Token:          uuid.New(),
		IssuedAt:       &now,
		AccessLevel:    accessLevel,
		Zones:          zones,
	}
}

// Reissue refreshes the badge after regeneration, keeping the same token.
func (b *Badge) Reissue(pngPath, accessLevel string, zones []string) {
	now := time.Now()
	b.PNGPath = pngPath
	b.AccessLevel = accessLevel
	b.Zones = zones
	b.IssuedAt = &now
}
