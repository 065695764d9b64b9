package participant

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Participant groups one or more registrations under a single person.
// It may exist without an authenticated account: public submissions create
// an anonymous participant on the fly.
type Participant struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	AccountID    *uuid.UUID `json:"account_id,omitempty" gorm:"type:uuid"`
	Organization string     `json:"organization"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (Participant) TableName() string {
	return "participants"
}

// BeforeCreate sets a UUID before creating the record
func (p *Participant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// New creates a participant, optionally linked to an external account.
func New(accountID *uuid.UUID, organization string) *Participant {
	return &Participant{
		ID:           uuid.New(),
		AccountID:    accountID,
		Organization: organization,
		CreatedAt:    time.Now(),
	}
}

// NewAnonymous creates a participant with no linked account, as produced
// by public registration submissions.
func NewAnonymous() *Participant {
	return New(nil, "")
}
