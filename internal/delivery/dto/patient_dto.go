package dto

import (
	"time"

	"github.com/google/uuid"
)

// SleepData summarizes a patient's recent entries for the doctor dashboard.
type SleepData struct {
	AverageQuality float64    `json:"average_quality"`
	AverageRested  float64    `json:"average_rested"`
	SleepTrend     string     `json:"sleep_trend"`
	LastEntry      *time.Time `json:"last_entry"`
	EntryCount     int        `json:"entry_count"`
}

// PatientSummaryResponse is one roster entry in the patients list.
type PatientSummaryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     string    `json:"image,omitempty"`
	SleepData SleepData `json:"sleep_data"`
}
