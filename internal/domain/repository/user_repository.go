package repository

import (
	"context"

	"sleepdiary/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, db *gorm.DB, user *entity.User) error
	// FindByEmail returns (nil, nil) when no user exists for the email.
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error)
	// FindByEmailWithProfiles preloads both role profiles.
	FindByEmailWithProfiles(ctx context.Context, db *gorm.DB, email string) (*entity.User, error)
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error)
	Update(ctx context.Context, db *gorm.DB, user *entity.User) error
}
