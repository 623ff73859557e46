package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"slip-payment-backend/internal/model"
)

var ErrUserNotFound = errors.New("user not found")

type UserProfileRepository interface {
	// Upsert registers a verified phone, keeping existing profile fields when
	// the user re-verifies.
	Upsert(ctx context.Context, profile *model.UserProfile) error
	FindByPhone(ctx context.Context, phone string) (*model.UserProfile, error)
	Update(ctx context.Context, phone string, fields map[string]interface{}) error
}

type userProfileRepoImpl struct {
	db *gorm.DB
}

func NewUserProfileRepository(db *gorm.DB) UserProfileRepository {
	return &userProfileRepoImpl{
		db: db,
	}
}

func (r *userProfileRepoImpl) Upsert(ctx context.Context, profile *model.UserProfile) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "phone"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"birthday":   profile.Birthday,
			"updated_at": time.Now(),
		}),
	}).Create(profile).Error
}

func (r *userProfileRepoImpl) FindByPhone(ctx context.Context, phone string) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&profile).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &profile, nil
}

func (r *userProfileRepoImpl) Update(ctx context.Context, phone string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(&model.UserProfile{}).
		Where("phone = ?", phone).
		Updates(fields)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
