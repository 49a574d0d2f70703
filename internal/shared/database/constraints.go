package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds constraints AutoMigrate cannot express. The
// partial unique index is the database-level backstop for the "one active
// booking per user per event" invariant: the repository checks it inside a
// locked transaction, and the index catches anything that slips past.
func MigrateConstraints(db *gorm.DB) error {
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_active_user_event
		ON bookings (user_id, event_id)
		WHERE status <> 'CANCELLED';
	`).Error
	if err != nil {
		return err
	}

	// Occupancy counts filter on (event_id, status) for every booking attempt
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_event_status
		ON bookings (event_id, status);
	`).Error
	if err != nil {
		return err
	}

	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_payments_user_created
		ON payments (user_id, created_at DESC);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
