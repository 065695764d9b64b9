package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event is a descriptive grouping referenced by registrations. It has an
// independent lifecycle and is never mutated by the registration pipeline.
type Event struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name      string     `json:"name" gorm:"not null"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Location  string     `json:"location"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (Event) TableName() string {
	return "events"
}

// BeforeCreate sets a UUID before creating the record
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// NewEvent creates a new event with the given parameters
func NewEvent(name, location string, startDate, endDate *time.Time) *Event {
	return &Event{
		ID:        uuid.New(),
		Name:      name,
		Location:  location,
		StartDate: startDate,
		EndDate:   endDate,
		CreatedAt: time.Now(),
	}
}

// Validate checks if the event data is valid
func (e *Event) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("name is required")
	}
	if e.StartDate != nil && e.EndDate != nil && e.EndDate.Before(*e.StartDate) {
		return fmt.Errorf("end_date must be after start_date")
	}
	return nil
}

// Dates returns a printable date range, empty when no dates are set.
func (e *Event) Dates() string {
	switch {
	case e.StartDate == nil:
		return ""
	case e.EndDate == nil:
		return e.StartDate.Format("2 January 2006")
	default:
		return e.StartDate.Format("2 January 2006") + " – " + e.EndDate.Format("2 January 2006")
	}
}
