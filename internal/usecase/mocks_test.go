package usecase

import (
	"context"
	"io"

	"sleepdiary/internal/domain/entity"
	"sleepdiary/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockUserRepository is a mock implementation of repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	args := m.Called(ctx, db, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	args := m.Called(ctx, db, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmailWithProfiles(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	args := m.Called(ctx, db, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, db *gorm.DB, user *entity.User) error {
	args := m.Called(ctx, db, user)
	return args.Error(0)
}

// MockDoctorProfileRepository is a mock implementation of repository.DoctorProfileRepository
type MockDoctorProfileRepository struct {
	mock.Mock
}

func (m *MockDoctorProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.DoctorProfile) error {
	args := m.Called(ctx, db, profile)
	return args.Error(0)
}

func (m *MockDoctorProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	args := m.Called(ctx, db, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DoctorProfile), args.Error(1)
}

// MockPatientProfileRepository is a mock implementation of repository.PatientProfileRepository
type MockPatientProfileRepository struct {
	mock.Mock
}

func (m *MockPatientProfileRepository) Create(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	args := m.Called(ctx, db, profile)
	return args.Error(0)
}

func (m *MockPatientProfileRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.PatientProfile, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PatientProfile), args.Error(1)
}

func (m *MockPatientProfileRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.PatientProfile, error) {
	args := m.Called(ctx, db, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PatientProfile), args.Error(1)
}

func (m *MockPatientProfileRepository) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.PatientProfile, error) {
	args := m.Called(ctx, db, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PatientProfile), args.Error(1)
}

func (m *MockPatientProfileRepository) Update(ctx context.Context, db *gorm.DB, profile *entity.PatientProfile) error {
	args := m.Called(ctx, db, profile)
	return args.Error(0)
}

// MockSleepEntryRepository is a mock implementation of repository.SleepEntryRepository
type MockSleepEntryRepository struct {
	mock.Mock
}

func (m *MockSleepEntryRepository) Create(ctx context.Context, db *gorm.DB, entry *entity.SleepEntry) error {
	args := m.Called(ctx, db, entry)
	return args.Error(0)
}

func (m *MockSleepEntryRepository) FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID, limit, offset int) ([]entity.SleepEntry, error) {
	args := m.Called(ctx, db, patientID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SleepEntry), args.Error(1)
}

func (m *MockSleepEntryRepository) FindRecentByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID, limit int) ([]entity.SleepEntry, error) {
	args := m.Called(ctx, db, patientID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SleepEntry), args.Error(1)
}

// MockRegistrationStore is a mock implementation of service.RegistrationStore
type MockRegistrationStore struct {
	mock.Mock
}

func (m *MockRegistrationStore) Stash(ctx context.Context, email string, reg *service.PendingRegistration) error {
	args := m.Called(ctx, email, reg)
	return args.Error(0)
}

func (m *MockRegistrationStore) Consume(ctx context.Context, email string) (*service.PendingRegistration, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PendingRegistration), args.Error(1)
}

// MockLoginTokenStore is a mock implementation of service.LoginTokenStore
type MockLoginTokenStore struct {
	mock.Mock
}

func (m *MockLoginTokenStore) IssueLoginToken(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockLoginTokenStore) ConsumeLoginToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockLoginTokenStore) RemoveLoginToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockLoginTokenStore) IssueOAuthState(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockLoginTokenStore) ConsumeOAuthState(ctx context.Context, state string) (bool, error) {
	args := m.Called(ctx, state)
	return args.Bool(0), args.Error(1)
}

// MockMailer is a mock implementation of service.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendMagicLink(ctx context.Context, to, link string) error {
	args := m.Called(ctx, to, link)
	return args.Error(0)
}

// MockGoogleOAuth is a mock implementation of service.GoogleOAuth
type MockGoogleOAuth struct {
	mock.Mock
}

func (m *MockGoogleOAuth) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockGoogleOAuth) FetchProfile(ctx context.Context, code string) (*service.VerifiedProfile, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VerifiedProfile), args.Error(1)
}

// MockAuditService is a mock implementation of service.AuditService
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) LogCreate(ctx context.Context, db *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, newValue interface{}) error {
	args := m.Called(ctx, db, userID, action, entityName, entityID, newValue)
	return args.Error(0)
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
