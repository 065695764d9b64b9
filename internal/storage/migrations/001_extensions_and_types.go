package migrations

import "gorm.io/gorm"

// migration001Up creates extensions and custom types
func migration001Up(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return err
	}

	if err := db.Exec(`
        CREATE TYPE registration_status AS ENUM (
            'pending',
            'approved',
            'rejected'
        )
    `).Error; err != nil {
		return err
	}

	if err := db.Exec(`
        CREATE TYPE accreditation_profile AS ENUM (
            'all_access',
            'technical_crew',
            'press',
            'staff',
            'vip'
        )
    `).Error; err != nil {
		return err
	}

	return nil
}

// migration001Down drops extensions and custom types
func migration001Down(db *gorm.DB) error {
	if err := db.Exec("DROP TYPE IF EXISTS accreditation_profile CASCADE").Error; err != nil {
		return err
	}

	if err := db.Exec("DROP TYPE IF EXISTS registration_status CASCADE").Error; err != nil {
		return err
	}

	// NOTE: We don't drop the UUID extension as it might be used by other applications
	return nil
}
