package entity

import (
	"time"

	"github.com/google/uuid"
)

// PatientProfile represents patient-specific profile data. A profile is
// created lazily during provisioning; DoctorID says which doctor may view
// this patient's diary.
type PatientProfile struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	DoctorID    *uuid.UUID `gorm:"type:uuid;index" json:"doctor_id,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User         User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Doctor       *DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	SleepEntries []SleepEntry   `gorm:"foreignKey:PatientID" json:"sleep_entries,omitempty"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}
