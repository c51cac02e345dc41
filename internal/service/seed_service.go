package service

import (
	"context"

	"sleepdiary/internal/domain/entity"
	"sleepdiary/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	DemoDoctorEmail  = "doctor@example.com"
	DemoPatientEmail = "patient@example.com"
)

// SeedService creates the two demo identities on startup: a doctor and a
// patient on the doctor's roster. Seeding is idempotent; existing rows are
// left untouched.
type SeedService struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	doctorProfileRepo  repository.DoctorProfileRepository
	patientProfileRepo repository.PatientProfileRepository
}

func NewSeedService(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	patientProfileRepo repository.PatientProfileRepository,
) *SeedService {
	return &SeedService{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		doctorProfileRepo:  doctorProfileRepo,
		patientProfileRepo: patientProfileRepo,
	}
}

// SeedDemoAccounts creates the demo doctor and patient with the shared demo
// password.
func (s *SeedService) SeedDemoAccounts(ctx context.Context, demoPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tx := s.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctorProfile, err := s.seedDoctor(ctx, tx, string(hashedPassword))
	if err != nil {
		return err
	}

	if err := s.seedPatient(ctx, tx, string(hashedPassword), doctorProfile); err != nil {
		return err
	}

	return tx.Commit().Error
}

func (s *SeedService) seedDoctor(ctx context.Context, tx *gorm.DB, passwordHash string) (*entity.DoctorProfile, error) {
	user, err := s.userRepo.FindByEmail(ctx, tx, DemoDoctorEmail)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &entity.User{
			Email:    DemoDoctorEmail,
			Name:     "Dr. Alice Wonderland",
			Role:     entity.RoleDoctor,
			Password: passwordHash,
		}
		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			return nil, err
		}
		s.log.Infof("Seeded demo doctor %s", DemoDoctorEmail)
	}

	profile, err := s.doctorProfileRepo.FindByUserID(ctx, tx, user.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &entity.DoctorProfile{
			UserID:     user.ID,
			Specialty:  "Sleep Medicine",
			ClinicName: "General Hospital",
		}
		if err := s.doctorProfileRepo.Create(ctx, tx, profile); err != nil {
			return nil, err
		}
	}

	return profile, nil
}

func (s *SeedService) seedPatient(ctx context.Context, tx *gorm.DB, passwordHash string, doctorProfile *entity.DoctorProfile) error {
	user, err := s.userRepo.FindByEmail(ctx, tx, DemoPatientEmail)
	if err != nil {
		return err
	}

	if user == nil {
		user = &entity.User{
			Email:    DemoPatientEmail,
			Name:     "Bob The Patient",
			Role:     entity.RolePatient,
			Password: passwordHash,
		}
		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			return err
		}
		s.log.Infof("Seeded demo patient %s", DemoPatientEmail)
	}

	profile, err := s.patientProfileRepo.FindByUserID(ctx, tx, user.ID)
	if err != nil {
		return err
	}
	if profile == nil {
		profile = &entity.PatientProfile{
			UserID:   user.ID,
			DoctorID: &doctorProfile.ID,
		}
		if err := s.patientProfileRepo.Create(ctx, tx, profile); err != nil {
			return err
		}
	}

	return nil
}
