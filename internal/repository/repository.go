package repository

import (
	"context"

	"github.com/yukikurage/folder-tasks/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// CreateBatch creates several tasks in one statement
	CreateBatch(ctx context.Context, tasks []models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// List executes a task query and returns one page plus the total match count
	List(ctx context.Context, query TaskQuery) ([]models.Task, int64, error)

	// Update saves every field of a task
	Update(ctx context.Context, task *models.Task) error

	// SetCompleted updates only the completion flag
	SetCompleted(ctx context.Context, task *models.Task, completed bool) error

	// Delete permanently deletes a task
	Delete(ctx context.Context, id uint64) error

	// Columns lists the columns of the tasks table
	Columns(ctx context.Context) ([]string, error)
}

// FolderRepository defines the interface for folder data access
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// FindByID finds a folder by ID
	FindByID(ctx context.Context, id uint64) (*models.Folder, error)

	// FindOwned finds a folder by ID only if it belongs to userID
	FindOwned(ctx context.Context, id, userID uint64) (*models.Folder, error)

	// ListByUser lists a user's folders ordered by name
	ListByUser(ctx context.Context, userID uint64) ([]models.Folder, error)

	// Update updates a folder
	Update(ctx context.Context, folder *models.Folder) error

	// Delete deletes a folder, moves its tasks to General and clears
	// the owner's current folder preference when it points at the folder
	Delete(ctx context.Context, folder *models.Folder) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a user together with its initial preferences
	Create(ctx context.Context, user *models.User, prefs map[string]string) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username, ignoring case
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// PreferenceRepository defines the interface for per-user settings
type PreferenceRepository interface {
	// Get finds a single preference
	Get(ctx context.Context, userID uint64, key string) (*models.Preference, error)

	// Set inserts or replaces a preference value
	Set(ctx context.Context, userID uint64, key, value string) error

	// Delete removes a preference so readers fall back to their default
	Delete(ctx context.Context, userID uint64, key string) error
}
