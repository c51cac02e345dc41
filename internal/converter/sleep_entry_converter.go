package converter

import (
	"sleepdiary/internal/delivery/dto"
	"sleepdiary/internal/domain/entity"
)

// SleepEntryToResponse converts a SleepEntry entity to its response DTO
func SleepEntryToResponse(entry *entity.SleepEntry) *dto.SleepEntryResponse {
	if entry == nil {
		return nil
	}

	return &dto.SleepEntryResponse{
		ID:                          entry.ID,
		PatientID:                   entry.PatientID,
		Date:                        entry.Date,
		Bedtime:                     entry.Bedtime,
		WakeUpTime:                  entry.WakeUpTime,
		TimeToFallAsleepMinutes:     entry.TimeToFallAsleepMinutes,
		TimesWokenUp:                entry.TimesWokenUp,
		TimeAwakeDuringNightMinutes: entry.TimeAwakeDuringNightMinutes,
		SleepQualityRating:          entry.SleepQualityRating,
		RestedRating:                entry.RestedRating,
		Notes:                       entry.Notes,
		CreatedAt:                   entry.CreatedAt,
	}
}

// SleepEntriesToResponse converts a slice of entries preserving order
func SleepEntriesToResponse(entries []entity.SleepEntry) []dto.SleepEntryResponse {
	responses := make([]dto.SleepEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, *SleepEntryToResponse(&entries[i]))
	}
	return responses
}
