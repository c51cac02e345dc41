package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role of a user. Set once during provisioning and never changed afterwards.
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
)

// IsValid reports whether the role is one of the supported values.
func (r Role) IsValid() bool {
	return r == RolePatient || r == RoleDoctor
}

// User represents the centralized identity table. A user is created on first
// successful authentication and owns at most one profile matching its role.
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name  string    `gorm:"type:varchar(255);not null" json:"name"`
	Role  Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	Image string    `gorm:"type:text" json:"image,omitempty"`
	// Password is only populated for the seeded demo identities.
	Password  string    `gorm:"type:text" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	DoctorProfile  *DoctorProfile  `gorm:"foreignKey:UserID" json:"doctor_profile,omitempty"`
	PatientProfile *PatientProfile `gorm:"foreignKey:UserID" json:"patient_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// DisplayNameFor picks a display name for a newly provisioned user: the
// provider-supplied name when present, otherwise the local part of the email.
func DisplayNameFor(name, email string) string {
	if name != "" {
		return name
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return "User"
}
