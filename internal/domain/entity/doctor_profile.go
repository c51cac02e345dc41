package entity

import (
	"time"

	"github.com/google/uuid"
)

// DoctorProfile represents doctor-specific profile data.
type DoctorProfile struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Specialty  string    `gorm:"type:varchar(100)" json:"specialty,omitempty"`
	ClinicName string    `gorm:"type:varchar(255)" json:"clinic_name,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	// Patients is the doctor's roster.
	Patients []PatientProfile `gorm:"foreignKey:DoctorID" json:"patients,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}
