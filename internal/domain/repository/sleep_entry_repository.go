package repository

import (
	"context"

	"sleepdiary/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SleepEntryRepository interface {
	Create(ctx context.Context, db *gorm.DB, entry *entity.SleepEntry) error
	// FindByPatientID returns entries ordered by date descending.
	FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID, limit, offset int) ([]entity.SleepEntry, error)
	// FindRecentByPatientID returns the most recent entries by date
	// descending, capped at limit.
	FindRecentByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID, limit int) ([]entity.SleepEntry, error)
}
