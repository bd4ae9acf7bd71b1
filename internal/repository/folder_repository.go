package repository

import (
	"context"
	"strconv"

	"github.com/yukikurage/folder-tasks/internal/constants"
	"github.com/yukikurage/folder-tasks/internal/database"
	"github.com/yukikurage/folder-tasks/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFolderRepository is a GORM implementation of FolderRepository
type GormFolderRepository struct {
	db *gorm.DB
}

// NewFolderRepository creates a new FolderRepository
func NewFolderRepository(db *gorm.DB) FolderRepository {
	return &GormFolderRepository{db: db}
}

// Create creates a new folder
func (r *GormFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	return r.db.WithContext(ctx).Create(folder).Error
}

// FindByID finds a folder by ID
func (r *GormFolderRepository) FindByID(ctx context.Context, id uint64) (*models.Folder, error) {
	var folder models.Folder
	if err := r.db.WithContext(ctx).First(&folder, id).Error; err != nil {
		return nil, err
	}
	return &folder, nil
}

// FindOwned finds a folder by ID only if it belongs to userID
func (r *GormFolderRepository) FindOwned(ctx context.Context, id, userID uint64) (*models.Folder, error) {
	var folder models.Folder
	if err := r.db.WithContext(ctx).
		Scopes(database.OwnedBy("folders", userID)).
		First(&folder, id).Error; err != nil {
		return nil, err
	}
	return &folder, nil
}

// ListByUser lists a user's folders ordered by name
func (r *GormFolderRepository) ListByUser(ctx context.Context, userID uint64) ([]models.Folder, error) {
	var folders []models.Folder
	if err := r.db.WithContext(ctx).
		Scopes(database.OwnedBy("folders", userID)).
		Order("folders.name ASC").
		Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

// Update updates a folder
func (r *GormFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(folder).Error
}

// Delete deletes a folder and all references to it in a transaction
func (r *GormFolderRepository) Delete(ctx context.Context, folder *models.Folder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Move the folder's tasks to General
		if err := tx.Model(&models.Task{}).
			Where("folder_id = ?", folder.ID).
			Update("folder_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ? AND pref_key = ? AND value = ?",
			folder.UserID,
			constants.PrefCurrentFolderID,
			strconv.FormatUint(folder.ID, 10),
		).Delete(&models.Preference{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Folder{}, folder.ID).Error
	})
}
