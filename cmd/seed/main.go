package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"eventhub/internal/events"
	"eventhub/internal/shared/config"
	"eventhub/internal/shared/database"
	"eventhub/internal/users"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting EventHub database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("Seeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"payments",
		"bookings",
		"events",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll inserts demo users and events.
func (s *Seeder) SeedAll() error {
	admin, err := s.createUser("Ava", "Admin", "admin@eventhub.dev", "admin12345", users.RoleAdmin)
	if err != nil {
		return err
	}
	organizer, err := s.createUser("Olga", "Organizer", "organizer@eventhub.dev", "organizer123", users.RoleOrganizer)
	if err != nil {
		return err
	}
	if _, err := s.createUser("Andy", "Attendee", "attendee@eventhub.dev", "attendee123", users.RoleAttendee); err != nil {
		return err
	}

	fmt.Printf("  Created users: admin=%s organizer=%s\n", admin.Email, organizer.Email)

	demoEvents := []events.Event{
		{
			ID:          uuid.New(),
			OrganizerID: organizer.ID,
			Title:       "Go Meetup: Concurrency Patterns",
			Description: "An evening of talks on channels, worker pools and backpressure.",
			Date:        time.Now().AddDate(0, 0, 14),
			Mode:        events.ModePhysical,
			Location:    "San Francisco, CA",
			Price:       0,
			Capacity:    120,
		},
		{
			ID:          uuid.New(),
			OrganizerID: organizer.ID,
			Title:       "Distributed Systems Workshop",
			Description: "Hands-on workshop covering consensus, replication and failure modes.",
			Date:        time.Now().AddDate(0, 1, 0),
			Mode:        events.ModeOnline,
			MeetingLink: "https://meet.eventhub.dev/dsw-2026",
			Price:       49.99,
			Capacity:    200,
		},
		{
			ID:          uuid.New(),
			OrganizerID: organizer.ID,
			Title:       "Jazz Under the Stars",
			Description: "Open-air concert at the waterfront amphitheater.",
			Date:        time.Now().AddDate(0, 2, 0),
			Mode:        events.ModePhysical,
			Location:    "Austin, TX",
			Price:       25,
			Capacity:    500,
		},
	}

	for _, event := range demoEvents {
		if err := s.db.PostgreSQL.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to seed event %q: %w", event.Title, err)
		}
		fmt.Printf("  Created event: %s\n", event.Title)
	}

	return nil
}

func (s *Seeder) createUser(firstName, lastName, email, password string, role users.Role) (*users.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &users.User{
		ID:        uuid.New(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  string(hashed),
		Role:      role,
	}
	if err := s.db.PostgreSQL.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", email, err)
	}
	return user, nil
}
