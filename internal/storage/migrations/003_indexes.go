package migrations

import "gorm.io/gorm"

// migration003Up creates indexes used by the admin listing and the
// lifecycle lookups
func migration003Up(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_registrations_status ON registrations(status)",
		"CREATE INDEX IF NOT EXISTS idx_registrations_participant ON registrations(participant_id)",
		"CREATE INDEX IF NOT EXISTS idx_registrations_created_at ON registrations(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_registrations_email ON registrations(email)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return err
		}
	}

	return nil
}

// migration003Down drops the indexes
func migration003Down(db *gorm.DB) error {
	indexes := []string{
		"DROP INDEX IF EXISTS idx_registrations_status",
		"DROP INDEX IF EXISTS idx_registrations_participant",
		"DROP INDEX IF EXISTS idx_registrations_created_at",
		"DROP INDEX IF EXISTS idx_registrations_email",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return err
		}
	}

	return nil
}
