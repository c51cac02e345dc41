package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateSleepEntryRequest is one night's diary submission. Date uses
// YYYY-MM-DD; bedtime and wake-up time are RFC 3339 timestamps. Rating
// bounds are enforced against the configured scale, not here.
type CreateSleepEntryRequest struct {
	Date                        string `json:"date" validate:"required"`
	Bedtime                     string `json:"bedtime" validate:"required"`
	WakeUpTime                  string `json:"wake_up_time" validate:"required"`
	TimeToFallAsleepMinutes     int    `json:"time_to_fall_asleep_minutes" validate:"gte=0"`
	TimesWokenUp                int    `json:"times_woken_up" validate:"gte=0"`
	TimeAwakeDuringNightMinutes int    `json:"time_awake_during_night_minutes" validate:"gte=0"`
	SleepQualityRating          *int   `json:"sleep_quality_rating" validate:"required"`
	RestedRating                *int   `json:"rested_rating" validate:"required"`
	Notes                       string `json:"notes" validate:"omitempty"`
}

type SleepEntryResponse struct {
	ID                          uuid.UUID `json:"id"`
	PatientID                   uuid.UUID `json:"patient_id"`
	Date                        time.Time `json:"date"`
	Bedtime                     time.Time `json:"bedtime"`
	WakeUpTime                  time.Time `json:"wake_up_time"`
	TimeToFallAsleepMinutes     int       `json:"time_to_fall_asleep_minutes"`
	TimesWokenUp                int       `json:"times_woken_up"`
	TimeAwakeDuringNightMinutes int       `json:"time_awake_during_night_minutes"`
	SleepQualityRating          int       `json:"sleep_quality_rating"`
	RestedRating                int       `json:"rested_rating"`
	Notes                       string    `json:"notes,omitempty"`
	CreatedAt                   time.Time `json:"created_at"`
}
