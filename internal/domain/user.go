package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Role gates access to the researcher-only surfaces (connections, chat).
type Role string

const (
	RoleUnset      Role = ""
	RolePatient    Role = "patient"
	RoleResearcher Role = "researcher"
)

func (r Role) Valid() bool {
	return r == RolePatient || r == RoleResearcher
}

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password string    `gorm:"column:password" json:"-"` // empty for OAuth-only accounts

	FirstName string `gorm:"not null;column:first_name" json:"first_name"`
	LastName  string `gorm:"not null;column:last_name" json:"last_name"`

	// Set once via the explicit role-selection step.
	Role Role `gorm:"column:role;not null;default:'';index" json:"role"`

	Bio         string `gorm:"column:bio;type:text" json:"bio,omitempty"`
	Institution string `gorm:"column:institution" json:"institution,omitempty"`
	Location    string `gorm:"column:location" json:"location,omitempty"`

	// JSON string arrays. Replaces the comma-joined columns of the legacy
	// schema so list entries survive round-trips without re-splitting.
	Specialties datatypes.JSON `gorm:"type:jsonb;column:specialties;not null;default:'[]'" json:"specialties,omitempty"`
	Interests   datatypes.JSON `gorm:"type:jsonb;column:interests;not null;default:'[]'" json:"interests,omitempty"`
	Conditions  datatypes.JSON `gorm:"type:jsonb;column:conditions;not null;default:'[]'" json:"conditions,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }

// PublicUser is the identity shape exposed to other users (connection
// listings, conversations, the researcher directory).
type PublicUser struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Role        Role      `json:"role"`
	Institution string    `json:"institution,omitempty"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		Institution: u.Institution,
	}
}
