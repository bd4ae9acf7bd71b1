package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/folder-tasks/internal/constants"
	"github.com/yukikurage/folder-tasks/internal/models"
	"github.com/yukikurage/folder-tasks/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrFolderNameRequired = errors.New("folder name is required")
	ErrFolderNameTooLong  = errors.New("folder name must not exceed 255 characters")
)

// FolderService handles folder business logic
type FolderService struct {
	folderRepo repository.FolderRepository
}

// NewFolderService creates a new FolderService
func NewFolderService(folderRepo repository.FolderRepository) *FolderService {
	return &FolderService{folderRepo: folderRepo}
}

// FolderInput holds the editable fields of a folder
type FolderInput struct {
	Name        string
	Description string
}

func (in FolderInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrFolderNameRequired
	}
	if utf8.RuneCountInString(in.Name) > constants.MaxTitleLength {
		return ErrFolderNameTooLong
	}
	return nil
}

// ListFolders lists the user's folders
func (s *FolderService) ListFolders(ctx context.Context, userID uint64) ([]models.Folder, error) {
	folders, err := s.folderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	return folders, nil
}

// GetOwnedFolder returns a folder only when it belongs to userID
func (s *FolderService) GetOwnedFolder(ctx context.Context, folderID, userID uint64) (*models.Folder, error) {
	folder, err := s.folderRepo.FindByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFolderNotFound
		}
		return nil, fmt.Errorf("failed to find folder: %w", err)
	}

	if !folder.BelongsTo(userID) {
		return nil, ErrFolderNotFound
	}

	return folder, nil
}

// CreateFolder creates a folder owned by userID
func (s *FolderService) CreateFolder(ctx context.Context, userID uint64, input FolderInput) (*models.Folder, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	folder := &models.Folder{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		UserID:      userID,
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	return folder, nil
}

// UpdateFolder renames or re-describes a folder
func (s *FolderService) UpdateFolder(ctx context.Context, folder *models.Folder, userID uint64, input FolderInput) (*models.Folder, error) {
	if !folder.BelongsTo(userID) {
		return nil, ErrFolderNotFound
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	folder.Name = strings.TrimSpace(input.Name)
	folder.Description = input.Description

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to update folder: %w", err)
	}

	return folder, nil
}

// DeleteFolder deletes a folder; its tasks move to General
func (s *FolderService) DeleteFolder(ctx context.Context, folder *models.Folder, userID uint64) error {
	if !folder.BelongsTo(userID) {
		return ErrFolderNotFound
	}

	if err := s.folderRepo.Delete(ctx, folder); err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}

	return nil
}

// OpenFolder makes folder the current folder of its owner's task listing
func (s *FolderService) OpenFolder(ctx context.Context, prefs PreferenceStore, folder *models.Folder, userID uint64) error {
	if !folder.BelongsTo(userID) {
		return ErrFolderNotFound
	}
	return prefs.Set(ctx, constants.PrefCurrentFolderID, strconv.FormatUint(folder.ID, 10))
}

// OpenGeneral switches the task listing back to unfiled tasks
func (s *FolderService) OpenGeneral(ctx context.Context, prefs PreferenceStore) error {
	return prefs.Forget(ctx, constants.PrefCurrentFolderID)
}
