package entity

import (
	"time"

	"github.com/google/uuid"
)

// SleepEntry is a single night's diary record. Entries are append-only: the
// API exposes no update or delete for them.
type SleepEntry struct {
	ID                          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID                   uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	Date                        time.Time `gorm:"type:date;not null;index" json:"date"`
	Bedtime                     time.Time `gorm:"not null" json:"bedtime"`
	WakeUpTime                  time.Time `gorm:"not null" json:"wake_up_time"`
	TimeToFallAsleepMinutes     int       `gorm:"not null;default:0" json:"time_to_fall_asleep_minutes"`
	TimesWokenUp                int       `gorm:"not null;default:0" json:"times_woken_up"`
	TimeAwakeDuringNightMinutes int       `gorm:"not null;default:0" json:"time_awake_during_night_minutes"`
	SleepQualityRating          int       `gorm:"not null" json:"sleep_quality_rating"`
	RestedRating                int       `gorm:"not null" json:"rested_rating"`
	Notes                       string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt                   time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Patient PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (SleepEntry) TableName() string {
	return "sleep_entries"
}
