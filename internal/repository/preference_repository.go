package repository

import (
	"context"

	"github.com/yukikurage/folder-tasks/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPreferenceRepository is a GORM implementation of PreferenceRepository
type GormPreferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository creates a new PreferenceRepository
func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &GormPreferenceRepository{db: db}
}

// Get finds a single preference
func (r *GormPreferenceRepository) Get(ctx context.Context, userID uint64, key string) (*models.Preference, error) {
	var pref models.Preference
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND pref_key = ?", userID, key).
		First(&pref).Error; err != nil {
		return nil, err
	}
	return &pref, nil
}

// Set inserts or replaces a preference value
func (r *GormPreferenceRepository) Set(ctx context.Context, userID uint64, key, value string) error {
	pref := models.Preference{
		UserID: userID,
		Key:    key,
		Value:  value,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "pref_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&pref).Error
}

// Delete removes a preference
func (r *GormPreferenceRepository) Delete(ctx context.Context, userID uint64, key string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND pref_key = ?", userID, key).
		Delete(&models.Preference{}).Error
}
