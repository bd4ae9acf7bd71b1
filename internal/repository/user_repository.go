package repository

import (
	"context"
	"strings"

	"github.com/yukikurage/folder-tasks/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts the user and its initial preferences in one transaction
func (r *GormUserRepository) Create(ctx context.Context, user *models.User, prefs map[string]string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Folders", "Tasks", "Preferences").Create(user).Error; err != nil {
			return err
		}
		if len(prefs) == 0 {
			return nil
		}

		rows := make([]models.Preference, 0, len(prefs))
		for key, value := range prefs {
			rows = append(rows, models.Preference{UserID: user.ID, Key: key, Value: value})
		}
		return tx.Create(&rows).Error
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username, ignoring case
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = ?", strings.ToLower(username)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
