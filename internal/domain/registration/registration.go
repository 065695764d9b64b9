package registration

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Registration is an accreditation request for one person at the festival.
// Its lifecycle is owned by the lifecycle controller: it is created Pending
// and only moves to Approved or Rejected through a controller transition.
type Registration struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ParticipantID uuid.UUID  `json:"participant_id" gorm:"type:uuid;not null"`
	EventID       *uuid.UUID `json:"event_id,omitempty" gorm:"type:uuid"`
	FirstName     string     `json:"first_name" gorm:"not null"`
	LastName      string     `json:"last_name" gorm:"not null"`
	Email         string     `json:"email" gorm:"not null"`
	Phone         string     `json:"phone"`
	Nationality   string     `json:"nationality"`
	Origin        string     `json:"origin"`
	Profile       Profile    `json:"profile" gorm:"type:accreditation_profile;not null"`
	Address       string     `json:"address"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	Status        Status     `json:"status" gorm:"type:registration_status;not null;default:'pending'"`
	AdminRemark   string     `json:"admin_remark"`

	// Uploaded identity documents. Each slot is independently optional;
	// DocumentPaths collects the ones that are present.
	PassportPath  string `json:"passport_path,omitempty"`
	IDCardPath    string `json:"id_card_path,omitempty"`
	PressCardPath string `json:"press_card_path,omitempty"`

	// Generated artifact references, empty until the registration is approved.
	BadgePath  string `json:"badge_path,omitempty"`
	LetterPath string `json:"letter_path,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the table name used by GORM
func (Registration) TableName() string {
	return "registrations"
}

// BeforeCreate sets a UUID before creating the record
func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// New creates a pending registration for the given participant.
func New(participantID uuid.UUID, firstName, lastName, email string, profile Profile) *Registration {
	return &Registration{
		ID:            uuid.New(),
		ParticipantID: participantID,
		FirstName:     firstName,
		LastName:      lastName,
		Email:         email,
		Profile:       profile,
		Status:        StatusPending,
		CreatedAt:     time.Now(),
	}
}

// FullName returns the name printed on badges and letters.
func (r *Registration) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
}

// IsApproved reports whether the registration has been approved.
func (r *Registration) IsApproved() bool {
	return r.Status == StatusApproved
}

// HasArtifacts reports whether both generated artifacts are referenced.
func (r *Registration) HasArtifacts() bool {
	return r.BadgePath != "" && r.LetterPath != ""
}

// DocumentSlot names an uploaded identity-document slot.
type DocumentSlot string

const (
	SlotPassport  DocumentSlot = "passport"
	SlotIDCard    DocumentSlot = "id_card"
	SlotPressCard DocumentSlot = "press_card"
)

// SetDocument stores the blob path for a named document slot.
func (r *Registration) SetDocument(slot DocumentSlot, path string) bool {
	switch slot {
	case SlotPassport:
		r.PassportPath = path
	case SlotIDCard:
		r.IDCardPath = path
	case SlotPressCard:
		r.PressCardPath = path
	default:
		return false
	}
	return true
}

// DocumentPaths maps the present document slots to their stored paths.
// Absent slots are simply omitted.
func (r *Registration) DocumentPaths() map[DocumentSlot]string {
	docs := make(map[DocumentSlot]string, 3)
	if r.PassportPath != "" {
		docs[SlotPassport] = r.PassportPath
	}
	if r.IDCardPath != "" {
		docs[SlotIDCard] = r.IDCardPath
	}
	if r.PressCardPath != "" {
		docs[SlotPressCard] = r.PressCardPath
	}
	return docs
}

// Validate checks if the registration data is valid
func (r *Registration) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" && strings.TrimSpace(r.LastName) == "" {
		return ErrNameRequired
	}
	if !strings.Contains(r.Email, "@") {
		return ErrEmailInvalid
	}
	if !r.Profile.Valid() {
		return ErrProfileInvalid
	}
	return nil
}
