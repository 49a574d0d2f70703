package users

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAttendee  Role = "ATTENDEE"
	RoleOrganizer Role = "ORGANIZER"
	RoleAdmin     Role = "ADMIN"
)

type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Password  string    `json:"-" gorm:"not null"` // hide in json
	Role      Role      `json:"role" gorm:"not null;default:'ATTENDEE'"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`

	// Password reset flow
	ResetToken       *string    `json:"-" gorm:"index"`
	ResetTokenExpiry *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func IsValidRole(role string) bool {
	switch role {
	case string(RoleAttendee), string(RoleOrganizer), string(RoleAdmin):
		return true
	default:
		return false
	}
}

// FullName joins first and last name for display and email templates.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
