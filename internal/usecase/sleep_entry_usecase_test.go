package usecase

import (
	"context"
	"testing"

	"sleepdiary/config"
	"sleepdiary/internal/delivery/dto"
	"sleepdiary/internal/delivery/http/middleware"
	"sleepdiary/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type sleepEntryMocks struct {
	doctorProfileRepo  *MockDoctorProfileRepository
	patientProfileRepo *MockPatientProfileRepository
	sleepEntryRepo     *MockSleepEntryRepository
	auditService       *MockAuditService
}

func newSleepEntryUsecaseForTest(ratings config.RatingsConfig) (SleepEntryUsecase, *sleepEntryMocks) {
	m := &sleepEntryMocks{
		doctorProfileRepo:  new(MockDoctorProfileRepository),
		patientProfileRepo: new(MockPatientProfileRepository),
		sleepEntryRepo:     new(MockSleepEntryRepository),
		auditService:       new(MockAuditService),
	}
	u := NewSleepEntryUsecase(nil, testLogger(), ratings, m.doctorProfileRepo, m.patientProfileRepo, m.sleepEntryRepo, m.auditService)
	return u, m
}

func sleepEntryCtx(userID uuid.UUID, role entity.Role) context.Context {
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, userID)
	return context.WithValue(ctx, middleware.RoleKey, role)
}

func intPtr(v int) *int {
	return &v
}

func validCreateRequest() *dto.CreateSleepEntryRequest {
	return &dto.CreateSleepEntryRequest{
		Date:                        "2026-08-29",
		Bedtime:                     "2026-08-29T22:30:00Z",
		WakeUpTime:                  "2026-08-30T06:45:00Z",
		TimeToFallAsleepMinutes:     20,
		TimesWokenUp:                1,
		TimeAwakeDuringNightMinutes: 10,
		SleepQualityRating:          intPtr(7),
		RestedRating:                intPtr(6),
		Notes:                       "slept with the window open",
	}
}

func TestCreateEntryRejectsRatingOutOfRange(t *testing.T) {
	u, _ := newSleepEntryUsecaseForTest(config.RatingsConfig{Min: 1, Max: 10})
	ctx := sleepEntryCtx(uuid.New(), entity.RolePatient)

	req := validCreateRequest()
	req.SleepQualityRating = intPtr(11)

	_, err := u.CreateEntry(ctx, req)

	var ratingErr *RatingOutOfRangeError
	assert.ErrorAs(t, err, &ratingErr)
	assert.Equal(t, "sleep_quality_rating", ratingErr.Field)
	assert.Equal(t, "sleep_quality_rating must be between 1 and 10", ratingErr.Error())
}

func TestCreateEntryHonorsConfiguredScale(t *testing.T) {
	u, _ := newSleepEntryUsecaseForTest(config.RatingsConfig{Min: 1, Max: 5})
	ctx := sleepEntryCtx(uuid.New(), entity.RolePatient)

	req := validCreateRequest()
	req.RestedRating = intPtr(3)
	req.SleepQualityRating = intPtr(7)

	_, err := u.CreateEntry(ctx, req)

	var ratingErr *RatingOutOfRangeError
	assert.ErrorAs(t, err, &ratingErr)
	assert.Equal(t, 5, ratingErr.Max)
}

func TestCreateEntryRejectsMalformedDate(t *testing.T) {
	u, _ := newSleepEntryUsecaseForTest(config.RatingsConfig{Min: 1, Max: 10})
	ctx := sleepEntryCtx(uuid.New(), entity.RolePatient)

	req := validCreateRequest()
	req.Date = "29-08-2026"

	_, err := u.CreateEntry(ctx, req)

	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestCreateEntryRejectsMalformedBedtime(t *testing.T) {
	u, _ := newSleepEntryUsecaseForTest(config.RatingsConfig{Min: 1, Max: 10})
	ctx := sleepEntryCtx(uuid.New(), entity.RolePatient)

	req := validCreateRequest()
	req.Bedtime = "22:30"

	_, err := u.CreateEntry(ctx, req)

	assert.ErrorIs(t, err, ErrInvalidTimestampFormat)
}

func TestCreateEntryRequiresPatientProfile(t *testing.T) {
	u, m := newSleepEntryUsecaseForTest(config.RatingsConfig{Min: 1, Max: 10})
	userID := uuid.New()
	ctx := sleepEntryCtx(userID, entity.RolePatient)

	m.patientProfileRepo.On("FindByUserID", mock.Anything, mock.Anything, userID).Return(nil, nil)

	_, err := u.CreateEntry(ctx, validCreateRequest())

	assert.ErrorIs(t, err, ErrPatientProfileNotFound)
}

func TestCreateEntryAppendsForOwnProfile(t *testing.T) {
	u, m := newSleepEntryUsecaseForTest(config.RatingsConfig{Min: 1, Max: 10})
	userID := uuid.New()
	profileID := uuid.New()
	ctx := sleepEntryCtx(userID, entity.RolePatient)

	m.patientProfileRepo.On("FindByUserID", mock.Anything, mock.Anything, userID).Return(&entity.PatientProfile{ID: profileID, UserID: userID}, nil)
	m.sleepEntryRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(e *entity.SleepEntry) bool {
		return e.PatientID == profileID && e.SleepQualityRating == 7 && e.RestedRating == 6
	})).Return(nil)
	m.auditService.On("LogCreate", mock.Anything, mock.Anything, mock.Anything, entity.AuditActionSleepEntryCreate, "sleep_entry", mock.Anything, mock.Anything).Return(nil)

	resp, err := u.CreateEntry(ctx, validCreateRequest())

	assert.NoError(t, err)
	assert.Equal(t, profileID, resp.PatientID)
	assert.Equal(t, 7, resp.SleepQualityRating)
	assert.Equal(t, "slept with the window open", resp.Notes)
	m.sleepEntryRepo.AssertExpectations(t)
	m.auditService.AssertExpectations(t)
}

func TestListEntriesDoctorRequiresPatientID(t *testing.T) {
	u, _ := newSleepEntryUsecaseForTest(config.RatingsConfig{Min: 1, Max: 10})
	ctx := sleepEntryCtx(uuid.New(), entity.RoleDoctor)

	_, err := u.ListEntries(ctx, 0, 0, nil)

	assert.ErrorIs(t, err, ErrPatientIDRequired)
}

func TestListEntriesDeniesPatientOutsideRoster(t *testing.T) {
	u, m := newSleepEntryUsecaseForTest(config.RatingsConfig{Min: 1, Max: 10})
	userID := uuid.New()
	doctorID := uuid.New()
	otherDoctorID := uuid.New()
	patientID := uuid.New()
	ctx := sleepEntryCtx(userID, entity.RoleDoctor)

	m.doctorProfileRepo.On("FindByUserID", mock.Anything, mock.Anything, userID).Return(&entity.DoctorProfile{ID: doctorID, UserID: userID}, nil)
	m.patientProfileRepo.On("FindByID", mock.Anything, mock.Anything, patientID).Return(&entity.PatientProfile{ID: patientID, DoctorID: &otherDoctorID}, nil)

	_, err := u.ListEntries(ctx, 0, 0, &patientID)

	assert.ErrorIs(t, err, ErrPatientAccessDenied)
	m.sleepEntryRepo.AssertNotCalled(t, "FindByPatientID", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListEntriesDeniesUnknownPatientIdentically(t *testing.T) {
	u, m := newSleepEntryUsecaseForTest(config.RatingsConfig{Min: 1, Max: 10})
	userID := uuid.New()
	patientID := uuid.New()
	ctx := sleepEntryCtx(userID, entity.RoleDoctor)

	m.doctorProfileRepo.On("FindByUserID", mock.Anything, mock.Anything, userID).Return(&entity.DoctorProfile{ID: uuid.New(), UserID: userID}, nil)
	m.patientProfileRepo.On("FindByID", mock.Anything, mock.Anything, patientID).Return(nil, nil)

	_, err := u.ListEntries(ctx, 0, 0, &patientID)

	assert.ErrorIs(t, err, ErrPatientAccessDenied)
}

func TestListEntriesDoctorReadsRosterPatient(t *testing.T) {
	u, m := newSleepEntryUsecaseForTest(config.RatingsConfig{Min: 1, Max: 10})
	userID := uuid.New()
	doctorID := uuid.New()
	patientID := uuid.New()
	ctx := sleepEntryCtx(userID, entity.RoleDoctor)

	m.doctorProfileRepo.On("FindByUserID", mock.Anything, mock.Anything, userID).Return(&entity.DoctorProfile{ID: doctorID, UserID: userID}, nil)
	m.patientProfileRepo.On("FindByID", mock.Anything, mock.Anything, patientID).Return(&entity.PatientProfile{ID: patientID, DoctorID: &doctorID}, nil)
	m.sleepEntryRepo.On("FindByPatientID", mock.Anything, mock.Anything, patientID, 50, 0).Return(entriesWithQuality(6, 7), nil)

	entries, err := u.ListEntries(ctx, 0, 0, &patientID)

	assert.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestListEntriesPatientIgnoresPatientIDParam(t *testing.T) {
	u, m := newSleepEntryUsecaseForTest(config.RatingsConfig{Min: 1, Max: 10})
	userID := uuid.New()
	ownProfileID := uuid.New()
	otherPatientID := uuid.New()
	ctx := sleepEntryCtx(userID, entity.RolePatient)

	m.patientProfileRepo.On("FindByUserID", mock.Anything, mock.Anything, userID).Return(&entity.PatientProfile{ID: ownProfileID, UserID: userID}, nil)
	m.sleepEntryRepo.On("FindByPatientID", mock.Anything, mock.Anything, ownProfileID, 25, 5).Return(entriesWithQuality(8), nil)

	entries, err := u.ListEntries(ctx, 25, 5, &otherPatientID)

	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	m.sleepEntryRepo.AssertCalled(t, "FindByPatientID", mock.Anything, mock.Anything, ownProfileID, 25, 5)
}
