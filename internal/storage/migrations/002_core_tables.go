package migrations

import (
	"gorm.io/gorm"

	"github.com/ecofest/accreditation-api/internal/domain/badge"
	"github.com/ecofest/accreditation-api/internal/domain/event"
	"github.com/ecofest/accreditation-api/internal/domain/participant"
	"github.com/ecofest/accreditation-api/internal/domain/registration"
)

// AllModels returns every model migrated by the core-tables migration,
// ordered so foreign-key targets are created first.
func AllModels() []interface{} {
	return []interface{}{
		&participant.Participant{},
		&event.Event{},
		&registration.Registration{},
		&badge.Badge{},
	}
}

// migration002Up creates all core tables using GORM AutoMigrate
func migration002Up(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

// migration002Down drops all core tables
func migration002Down(db *gorm.DB) error {
	tables := []string{
		"badges",
		"registrations",
		"events",
		"participants",
	}

	for _, table := range tables {
		if err := db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE").Error; err != nil {
			return err
		}
	}

	return nil
}
