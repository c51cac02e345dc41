package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sleepdiary/config"
	"sleepdiary/internal/converter"
	"sleepdiary/internal/delivery/dto"
	"sleepdiary/internal/delivery/http/middleware"
	"sleepdiary/internal/domain/entity"
	"sleepdiary/internal/domain/repository"
	"sleepdiary/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientProfileNotFound = errors.New("patient profile not found")
	ErrPatientAccessDenied    = errors.New("access denied to this patient")
	ErrPatientIDRequired      = errors.New("patientId is required for doctors")
	ErrInvalidDateFormat      = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidTimestampFormat = errors.New("invalid timestamp format, use RFC 3339")
	ErrInvalidRole            = errors.New("invalid role for this operation")
)

// RatingOutOfRangeError carries the configured bounds for the error message.
type RatingOutOfRangeError struct {
	Field string
	Min   int
	Max   int
}

func (e *RatingOutOfRangeError) Error() string {
	return fmt.Sprintf("%s must be between %d and %d", e.Field, e.Min, e.Max)
}

const defaultEntryLimit = 50

type SleepEntryUsecase interface {
	// ListEntries returns the caller's own entries (patient) or a roster
	// patient's entries (doctor, patientID required). Ordered by date
	// descending.
	ListEntries(ctx context.Context, limit, offset int, patientID *uuid.UUID) ([]dto.SleepEntryResponse, error)
	// CreateEntry appends one diary record for the calling patient.
	CreateEntry(ctx context.Context, req *dto.CreateSleepEntryRequest) (*dto.SleepEntryResponse, error)
}

type sleepEntryUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	ratings            config.RatingsConfig
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
	sleepEntryRepo     repository.SleepEntryRepository
	auditService       service.AuditService
}

func NewSleepEntryUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	ratings config.RatingsConfig,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
	sleepEntryRepo repository.SleepEntryRepository,
	auditService service.AuditService,
) SleepEntryUsecase {
	return &sleepEntryUsecase{
		db:                 db,
		log:                log,
		ratings:            ratings,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
		sleepEntryRepo:     sleepEntryRepo,
		auditService:       auditService,
	}
}

func (u *sleepEntryUsecase) ListEntries(ctx context.Context, limit, offset int, patientID *uuid.UUID) ([]dto.SleepEntryResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	role, ok := middleware.GetRoleFromContext(ctx)
	if !ok {
		return nil, errors.New("role not found in context")
	}

	if limit <= 0 {
		limit = defaultEntryLimit
	}
	if offset < 0 {
		offset = 0
	}

	switch role {
	case entity.RoleDoctor:
		if patientID == nil {
			return nil, ErrPatientIDRequired
		}
		return u.listForDoctor(ctx, userID, *patientID, limit, offset)
	case entity.RolePatient:
		return u.listForPatient(ctx, userID, limit, offset)
	default:
		return nil, ErrInvalidRole
	}
}

// listForDoctor checks roster membership before exposing any entries. The
// check fails identically for unknown patients and for patients of another
// doctor.
func (u *sleepEntryUsecase) listForDoctor(ctx context.Context, userID, patientID uuid.UUID, limit, offset int) ([]dto.SleepEntryResponse, error) {
	doctorProfile, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if doctorProfile == nil {
		return nil, ErrDoctorProfileNotFound
	}

	patient, err := u.patientProfileRepo.FindByID(ctx, u.db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if patient == nil || patient.DoctorID == nil || *patient.DoctorID != doctorProfile.ID {
		return nil, ErrPatientAccessDenied
	}

	entries, err := u.sleepEntryRepo.FindByPatientID(ctx, u.db, patientID, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to load sleep entries: %+v", err)
		return nil, err
	}

	return converter.SleepEntriesToResponse(entries), nil
}

func (u *sleepEntryUsecase) listForPatient(ctx context.Context, userID uuid.UUID, limit, offset int) ([]dto.SleepEntryResponse, error) {
	profile, err := u.patientProfileRepo.FindByUserID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientProfileNotFound
	}

	entries, err := u.sleepEntryRepo.FindByPatientID(ctx, u.db, profile.ID, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to load sleep entries: %+v", err)
		return nil, err
	}

	return converter.SleepEntriesToResponse(entries), nil
}

func (u *sleepEntryUsecase) CreateEntry(ctx context.Context, req *dto.CreateSleepEntryRequest) (*dto.SleepEntryResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	if err := u.checkRating("sleep_quality_rating", *req.SleepQualityRating); err != nil {
		return nil, err
	}
	if err := u.checkRating("rested_rating", *req.RestedRating); err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	bedtime, err := time.Parse(time.RFC3339, req.Bedtime)
	if err != nil {
		return nil, ErrInvalidTimestampFormat
	}
	wakeUpTime, err := time.Parse(time.RFC3339, req.WakeUpTime)
	if err != nil {
		return nil, ErrInvalidTimestampFormat
	}

	profile, err := u.patientProfileRepo.FindByUserID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find patient profile: %+v", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrPatientProfileNotFound
	}

	entry := &entity.SleepEntry{
		PatientID:                   profile.ID,
		Date:                        date,
		Bedtime:                     bedtime,
		WakeUpTime:                  wakeUpTime,
		TimeToFallAsleepMinutes:     req.TimeToFallAsleepMinutes,
		TimesWokenUp:                req.TimesWokenUp,
		TimeAwakeDuringNightMinutes: req.TimeAwakeDuringNightMinutes,
		SleepQualityRating:          *req.SleepQualityRating,
		RestedRating:                *req.RestedRating,
		Notes:                       req.Notes,
	}

	if err := u.sleepEntryRepo.Create(ctx, u.db, entry); err != nil {
		u.log.Warnf("Failed to create sleep entry: %+v", err)
		return nil, err
	}

	if auditErr := u.auditService.LogCreate(ctx, u.db, &userID, entity.AuditActionSleepEntryCreate, "sleep_entry", entry.ID.String(), converter.SleepEntryToResponse(entry)); auditErr != nil {
		u.log.Warnf("Failed to audit sleep entry creation: %+v", auditErr)
	}

	return converter.SleepEntryToResponse(entry), nil
}

func (u *sleepEntryUsecase) checkRating(field string, value int) error {
	if value < u.ratings.Min || value > u.ratings.Max {
		return &RatingOutOfRangeError{Field: field, Min: u.ratings.Min, Max: u.ratings.Max}
	}
	return nil
}
