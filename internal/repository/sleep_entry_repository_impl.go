package repository

import (
	"context"

	"sleepdiary/internal/domain/entity"
	domainRepo "sleepdiary/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type sleepEntryRepository struct{}

func NewSleepEntryRepository() domainRepo.SleepEntryRepository {
	return &sleepEntryRepository{}
}

func (r *sleepEntryRepository) Create(ctx context.Context, db *gorm.DB, entry *entity.SleepEntry) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *sleepEntryRepository) FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID, limit, offset int) ([]entity.SleepEntry, error) {
	var entries []entity.SleepEntry
	err := db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("date DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *sleepEntryRepository) FindRecentByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID, limit int) ([]entity.SleepEntry, error) {
	var entries []entity.SleepEntry
	err := db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("date DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
