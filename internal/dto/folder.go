package dto

import (
	"time"

	"github.com/yukikurage/folder-tasks/internal/models"
)

// FolderDTO represents a folder in responses
type FolderDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// FolderListResponse is the primary payload of the folder listing
type FolderListResponse struct {
	Folders         []FolderDTO `json:"folders"`
	CurrentFolderID *uint64     `json:"current_folder_id"`
}

// ToFolderDTO converts a Folder model to FolderDTO
func ToFolderDTO(folder models.Folder) FolderDTO {
	return FolderDTO{
		ID:          folder.ID,
		Name:        folder.Name,
		Description: folder.Description,
		CreatedAt:   folder.CreatedAt,
	}
}

// ToFolderDTOs converts a slice of folders
func ToFolderDTOs(folders []models.Folder) []FolderDTO {
	items := make([]FolderDTO, len(folders))
	for i, folder := range folders {
		items[i] = ToFolderDTO(folder)
	}
	return items
}
