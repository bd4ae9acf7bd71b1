package dto

import (
	"time"

	"github.com/yukikurage/folder-tasks/internal/constants"
	"github.com/yukikurage/folder-tasks/internal/models"
	"github.com/yukikurage/folder-tasks/internal/utils"
)

// TaskDTO represents a task in responses
type TaskDTO struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	DueDate     *string    `json:"due_date"`
	DueTime     *string    `json:"due_time"`
	IsCompleted bool       `json:"is_completed"`
	UserID      uint64     `json:"user_id"`
	FolderID    *uint64    `json:"folder_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Folder      *FolderDTO `json:"folder,omitempty"`
}

// TaskListResponse is the primary payload of the task listing
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Query      string                   `json:"q,omitempty"`
	Completed  bool                     `json:"completed"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// TaskFormResponse is the primary payload of the edit form
type TaskFormResponse struct {
	Task    TaskDTO     `json:"task"`
	Folders []FolderDTO `json:"folders"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Content:     task.Content,
		DueTime:     task.DueTime,
		IsCompleted: task.IsCompleted,
		UserID:      task.UserID,
		FolderID:    task.FolderID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.DueDate != nil {
		date := task.DueDate.Format(constants.DueDateLayout)
		dto.DueDate = &date
	}

	// Include folder if preloaded
	if task.Folder != nil {
		folder := ToFolderDTO(*task.Folder)
		dto.Folder = &folder
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ToTaskListResponse converts one listing page
func ToTaskListResponse(tasks []models.Task, query string, completed bool, pagination utils.PaginationResponse) TaskListResponse {
	return TaskListResponse{
		Tasks:      ToTaskDTOs(tasks),
		Query:      query,
		Completed:  completed,
		Pagination: pagination,
	}
}
