package database

import (
	"eventhub/internal/bookings"
	"eventhub/internal/events"
	"eventhub/internal/payments"
	"eventhub/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&events.Event{},
		&bookings.Booking{},
		&payments.Payment{},
	)
}
