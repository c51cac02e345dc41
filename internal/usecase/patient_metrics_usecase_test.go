package usecase

import (
	"context"
	"testing"
	"time"

	"sleepdiary/internal/delivery/http/middleware"
	"sleepdiary/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func entriesWithQuality(qualities ...int) []entity.SleepEntry {
	entries := make([]entity.SleepEntry, 0, len(qualities))
	date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	for i, q := range qualities {
		entries = append(entries, entity.SleepEntry{
			Date:               date.AddDate(0, 0, -i),
			SleepQualityRating: q,
			RestedRating:       q,
		})
	}
	return entries
}

func TestSummarizeEntries(t *testing.T) {
	tests := []struct {
		name          string
		qualities     []int
		wantAvg       float64
		wantTrend     string
		wantCount     int
		wantLastEntry bool
	}{
		{"no entries", nil, 0, TrendNeutral, 0, false},
		{"single entry stays neutral", []int{7}, 7, TrendNeutral, 1, true},
		{"two entries stay neutral", []int{2, 9}, 5.5, TrendNeutral, 2, true},
		{"improving", []int{5, 3, 2}, 3.3, TrendImproving, 3, true},
		{"declining", []int{2, 3, 5}, 3.3, TrendDeclining, 3, true},
		{"flat", []int{4, 4, 4}, 4, TrendNeutral, 3, true},
		{"average rounds to one decimal", []int{5, 4, 4}, 4.3, TrendImproving, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := summarizeEntries(entriesWithQuality(tt.qualities...))

			assert.Equal(t, tt.wantAvg, data.AverageQuality)
			assert.Equal(t, tt.wantAvg, data.AverageRested)
			assert.Equal(t, tt.wantTrend, data.SleepTrend)
			assert.Equal(t, tt.wantCount, data.EntryCount)
			if tt.wantLastEntry {
				assert.NotNil(t, data.LastEntry)
				assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), *data.LastEntry)
			} else {
				assert.Nil(t, data.LastEntry)
			}
		})
	}
}

func TestListPatientsRequiresDoctorProfile(t *testing.T) {
	doctorProfileRepo := new(MockDoctorProfileRepository)
	patientProfileRepo := new(MockPatientProfileRepository)
	sleepEntryRepo := new(MockSleepEntryRepository)
	u := NewPatientMetricsUsecase(nil, testLogger(), doctorProfileRepo, patientProfileRepo, sleepEntryRepo)

	userID := uuid.New()
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, userID)
	doctorProfileRepo.On("FindByUserID", mock.Anything, mock.Anything, userID).Return(nil, nil)

	_, err := u.ListPatients(ctx)

	assert.ErrorIs(t, err, ErrDoctorProfileNotFound)
}

func TestListPatientsSummarizesRoster(t *testing.T) {
	doctorProfileRepo := new(MockDoctorProfileRepository)
	patientProfileRepo := new(MockPatientProfileRepository)
	sleepEntryRepo := new(MockSleepEntryRepository)
	u := NewPatientMetricsUsecase(nil, testLogger(), doctorProfileRepo, patientProfileRepo, sleepEntryRepo)

	userID := uuid.New()
	doctorID := uuid.New()
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, userID)

	doctorProfileRepo.On("FindByUserID", mock.Anything, mock.Anything, userID).Return(&entity.DoctorProfile{ID: doctorID, UserID: userID}, nil)

	active := entity.PatientProfile{
		ID:       uuid.New(),
		DoctorID: &doctorID,
		User:     entity.User{Name: "Bob The Patient", Email: "patient@example.com"},
	}
	fresh := entity.PatientProfile{
		ID:       uuid.New(),
		DoctorID: &doctorID,
		User:     entity.User{Name: "Carol", Email: "carol@example.com"},
	}
	patientProfileRepo.On("FindByDoctorID", mock.Anything, mock.Anything, doctorID).Return([]entity.PatientProfile{active, fresh}, nil)

	sleepEntryRepo.On("FindRecentByPatientID", mock.Anything, mock.Anything, active.ID, 10).Return(entriesWithQuality(8, 6, 5), nil)
	sleepEntryRepo.On("FindRecentByPatientID", mock.Anything, mock.Anything, fresh.ID, 10).Return([]entity.SleepEntry{}, nil)

	summaries, err := u.ListPatients(ctx)

	assert.NoError(t, err)
	assert.Len(t, summaries, 2)

	assert.Equal(t, "Bob The Patient", summaries[0].Name)
	assert.Equal(t, 6.3, summaries[0].SleepData.AverageQuality)
	assert.Equal(t, TrendImproving, summaries[0].SleepData.SleepTrend)
	assert.Equal(t, 3, summaries[0].SleepData.EntryCount)

	// A patient with no diary yet still appears on the roster.
	assert.Equal(t, "Carol", summaries[1].Name)
	assert.Equal(t, 0, summaries[1].SleepData.EntryCount)
	assert.Equal(t, TrendNeutral, summaries[1].SleepData.SleepTrend)
	assert.Nil(t, summaries[1].SleepData.LastEntry)
}
