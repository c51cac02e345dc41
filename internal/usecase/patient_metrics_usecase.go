package usecase

import (
	"context"
	"errors"
	"math"

	"sleepdiary/internal/delivery/dto"
	"sleepdiary/internal/delivery/http/middleware"
	"sleepdiary/internal/domain/entity"
	"sleepdiary/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorProfileNotFound = errors.New("doctor profile not found")
)

// recentEntryWindow is how many of the newest entries feed the per-patient
// summary.
const recentEntryWindow = 10

const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendNeutral   = "neutral"
)

type PatientMetricsUsecase interface {
	// ListPatients returns a summary for every patient on the calling
	// doctor's roster, in storage order.
	ListPatients(ctx context.Context) ([]dto.PatientSummaryResponse, error)
}

type patientMetricsUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	sleepEntryRepo     repository.SleepEntryRepository
}

func NewPatientMetricsUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	sleepEntryRepo repository.SleepEntryRepository,
) PatientMetricsUsecase {
	return &patientMetricsUsecase{
		db:                 db,
		log:                log,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		sleepEntryRepo:     sleepEntryRepo,
	}
}

func (u *patientMetricsUsecase) ListPatients(ctx context.Context) ([]dto.PatientSummaryResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	doctorProfile, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if doctorProfile == nil {
		return nil, ErrDoctorProfileNotFound
	}

	roster, err := u.patientProfileRepo.FindByDoctorID(ctx, u.db, doctorProfile.ID)
	if err != nil {
		u.log.Warnf("Failed to load patient roster: %+v", err)
		return nil, err
	}

	summaries := make([]dto.PatientSummaryResponse, 0, len(roster))
	for i := range roster {
		patient := &roster[i]

		entries, err := u.sleepEntryRepo.FindRecentByPatientID(ctx, u.db, patient.ID, recentEntryWindow)
		if err != nil {
			u.log.Warnf("Failed to load sleep entries for patient %s: %+v", patient.ID, err)
			return nil, err
		}

		summaries = append(summaries, dto.PatientSummaryResponse{
			ID:        patient.ID,
			Name:      patient.User.Name,
			Email:     patient.User.Email,
			Image:     patient.User.Image,
			SleepData: summarizeEntries(entries),
		})
	}

	return summaries, nil
}

// summarizeEntries computes the dashboard summary from a newest-first entry
// window: 1-decimal averages, last entry date and the 3-point trend.
func summarizeEntries(entries []entity.SleepEntry) dto.SleepData {
	data := dto.SleepData{
		SleepTrend: TrendNeutral,
		EntryCount: len(entries),
	}

	if len(entries) == 0 {
		return data
	}

	totalQuality := 0
	totalRested := 0
	for _, entry := range entries {
		totalQuality += entry.SleepQualityRating
		totalRested += entry.RestedRating
	}

	data.AverageQuality = round1(float64(totalQuality) / float64(len(entries)))
	data.AverageRested = round1(float64(totalRested) / float64(len(entries)))

	lastEntry := entries[0].Date
	data.LastEntry = &lastEntry

	// The trend compares the newest entry against the 3rd-newest; fewer
	// than 3 entries stays neutral.
	if len(entries) >= 3 {
		recent := entries[0].SleepQualityRating
		older := entries[2].SleepQualityRating
		if recent > older {
			data.SleepTrend = TrendImproving
		} else if recent < older {
			data.SleepTrend = TrendDeclining
		}
	}

	return data
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
