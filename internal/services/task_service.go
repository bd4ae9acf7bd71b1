package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/folder-tasks/internal/constants"
	"github.com/yukikurage/folder-tasks/internal/models"
	"github.com/yukikurage/folder-tasks/internal/repository"
	"github.com/yukikurage/folder-tasks/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrFolderNotFound         = errors.New("folder not found")
	ErrTitleRequired          = errors.New("title is required")
	ErrTitleTooLong           = errors.New("title must not exceed 255 characters")
	ErrDueTimeTooLong         = errors.New("due time must not exceed 9 characters")
	ErrDueDateRequired        = errors.New("due date is required when a due time is given")
	ErrInvalidSortColumn      = errors.New("unknown sort column")
	ErrInvalidSortDirection   = errors.New("sort direction must be ASC or DESC")
	ErrTextRequired           = errors.New("text is required")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// GeneralFolderTitle is the listing title when no folder is selected
const GeneralFolderTitle = "General"

// TaskService handles task business logic
type TaskService struct {
	taskRepo   repository.TaskRepository
	folderRepo repository.FolderRepository
	aiService  *AIService

	columnsMu sync.Mutex
	columns   []string
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, folderRepo repository.FolderRepository, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		folderRepo: folderRepo,
		aiService:  aiService,
	}
}

// TaskFields are the user-editable fields of a task
type TaskFields struct {
	Title       string
	Content     string
	DueDate     *time.Time
	DueTime     *string
	IsCompleted bool
}

func (f TaskFields) validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(f.Title) > constants.MaxTitleLength {
		return ErrTitleTooLong
	}
	if f.DueTime != nil {
		if utf8.RuneCountInString(*f.DueTime) > constants.MaxDueTimeLength {
			return ErrDueTimeTooLong
		}
		if *f.DueTime != "" && f.DueDate == nil {
			return ErrDueDateRequired
		}
	}
	return nil
}

// UpdateTaskInput represents input for a full task update
type UpdateTaskInput struct {
	TaskFields
	// FolderID is the folder the task is filed in; nil files it under General
	FolderID *uint64
}

// ListTasksInput represents the request side of a task listing
type ListTasksInput struct {
	UserID   uint64
	Prefs    PreferenceStore
	Search   string
	Page     int
	PageSize int
}

// TaskListing is one page of the task list and its heading
type TaskListing struct {
	Tasks  []models.Task
	Total  int64
	Folder *models.Folder
	Title  string
	Query  repository.TaskQuery
}

// SortOption is a selectable sort column
type SortOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ComposeListQuery builds the task query for a listing from the user's preferences
func (s *TaskService) ComposeListQuery(ctx context.Context, input ListTasksInput) (repository.TaskQuery, error) {
	folderID, err := s.currentFolderID(ctx, input.Prefs, input.UserID)
	if err != nil {
		return repository.TaskQuery{}, err
	}

	completed, err := input.Prefs.Bool(ctx, constants.PrefTasksCompletionFilter, false)
	if err != nil {
		return repository.TaskQuery{}, err
	}

	column, direction, err := s.resolveOrder(ctx, input.Prefs)
	if err != nil {
		return repository.TaskQuery{}, err
	}

	return repository.NewTaskQuery(input.UserID).
		InFolder(folderID).
		WithCompletion(completed).
		TitleContains(input.Search).
		OrderBy(column, direction).
		Paginate(input.Page, input.PageSize), nil
}

// ListTasks returns one page of the user's tasks in the current folder
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) (*TaskListing, error) {
	query, err := s.ComposeListQuery(ctx, input)
	if err != nil {
		return nil, err
	}

	listing := &TaskListing{
		Title: GeneralFolderTitle,
		Query: query,
	}

	if query.FolderID() != nil {
		folder, err := s.folderRepo.FindOwned(ctx, *query.FolderID(), input.UserID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to find current folder: %w", err)
		}
		if folder != nil {
			listing.Folder = folder
			listing.Title = folder.Name
		}
	}

	tasks, total, err := s.taskRepo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	listing.Tasks = tasks
	listing.Total = total
	return listing, nil
}

// GetOwnedTask returns a task only when it belongs to userID
func (s *TaskService) GetOwnedTask(ctx context.Context, taskID, userID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, "Folder")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	// Someone else's task is reported as missing
	if !task.BelongsTo(userID) {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// CreateTask creates a task owned by userID in the current folder
func (s *TaskService) CreateTask(ctx context.Context, prefs PreferenceStore, userID uint64, fields TaskFields) (*models.Task, error) {
	if err := fields.validate(); err != nil {
		return nil, err
	}

	folderID, err := s.currentFolderID(ctx, prefs, userID)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       fields.Title,
		Content:     fields.Content,
		DueDate:     fields.DueDate,
		DueTime:     fields.DueTime,
		IsCompleted: fields.IsCompleted,
		UserID:      userID,
		FolderID:    folderID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTask replaces the editable fields of a task
func (s *TaskService) UpdateTask(ctx context.Context, task *models.Task, userID uint64, input UpdateTaskInput) (*models.Task, error) {
	if !task.BelongsTo(userID) {
		return nil, ErrTaskNotFound
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	if input.FolderID != nil {
		if _, err := s.folderRepo.FindOwned(ctx, *input.FolderID, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrFolderNotFound
			}
			return nil, fmt.Errorf("failed to find folder: %w", err)
		}
	}
	task.FolderID = input.FolderID
	task.Folder = nil

	task.Title = input.Title
	task.Content = input.Content
	task.DueDate = input.DueDate
	task.DueTime = input.DueTime
	task.IsCompleted = input.IsCompleted

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// ToggleCompletion flips is_completed
func (s *TaskService) ToggleCompletion(ctx context.Context, task *models.Task, userID uint64) (*models.Task, error) {
	if !task.BelongsTo(userID) {
		return nil, ErrTaskNotFound
	}

	if err := s.taskRepo.SetCompleted(ctx, task, !task.IsCompleted); err != nil {
		return nil, fmt.Errorf("failed to toggle completion: %w", err)
	}

	return task, nil
}

// DeleteTask deletes a task owned by userID
func (s *TaskService) DeleteTask(ctx context.Context, task *models.Task, userID uint64) error {
	if !task.BelongsTo(userID) {
		return ErrTaskNotFound
	}

	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// SortableColumns lists the task columns a listing may be ordered by.
// The schema is read once per service.
func (s *TaskService) SortableColumns(ctx context.Context) ([]string, error) {
	s.columnsMu.Lock()
	defer s.columnsMu.Unlock()

	if s.columns != nil {
		return s.columns, nil
	}

	columns, err := s.taskRepo.Columns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list task columns: %w", err)
	}

	s.columns = columns
	return columns, nil
}

// SortOptions returns the sortable columns with display labels
func (s *TaskService) SortOptions(ctx context.Context) ([]SortOption, error) {
	columns, err := s.SortableColumns(ctx)
	if err != nil {
		return nil, err
	}

	options := make([]SortOption, len(columns))
	for i, column := range columns {
		options[i] = SortOption{
			Value: column,
			Label: utils.Headline(column),
		}
	}
	return options, nil
}

// ApplyPreferences stores the listing order
func (s *TaskService) ApplyPreferences(ctx context.Context, prefs PreferenceStore, column, direction string) error {
	columns, err := s.SortableColumns(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(columns, column) {
		return ErrInvalidSortColumn
	}

	dir, ok := repository.ParseSortDirection(direction)
	if !ok {
		return ErrInvalidSortDirection
	}

	if err := prefs.Set(ctx, constants.PrefTasksOrderColumn, column); err != nil {
		return err
	}
	return prefs.Set(ctx, constants.PrefTasksOrderDirection, string(dir))
}

// ApplyFilters stores the completion filter of the listing
func (s *TaskService) ApplyFilters(ctx context.Context, prefs PreferenceStore, completed bool) error {
	return prefs.Set(ctx, constants.PrefTasksCompletionFilter, strconv.FormatBool(completed))
}

// GenerateTasks asks the AI service for tasks found in text and stores them
// as incomplete tasks in the current folder
func (s *TaskService) GenerateTasks(ctx context.Context, prefs PreferenceStore, userID uint64, text string) ([]models.Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrTextRequired
	}
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	generated, err := s.aiService.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(generated) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(generated) > constants.MaxAIGeneratedTasks {
		return nil, fmt.Errorf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	folderID, err := s.currentFolderID(ctx, prefs, userID)
	if err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(generated))
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, g := range generated {
		fields := TaskFields{
			Title:   strings.TrimSpace(g.Title),
			Content: g.Content,
			DueDate: g.DueDate,
		}
		if fields.DueDate != nil {
			if fields.DueDate.Before(cutoff) {
				fields.DueDate = nil
			} else {
				day := calendarDay(*fields.DueDate)
				fields.DueDate = &day
			}
		}
		if fields.validate() != nil {
			continue
		}

		tasks = append(tasks, models.Task{
			Title:    fields.Title,
			Content:  fields.Content,
			DueDate:  fields.DueDate,
			UserID:   userID,
			FolderID: folderID,
		})
	}

	if len(tasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	if err := s.taskRepo.CreateBatch(ctx, tasks); err != nil {
		return nil, fmt.Errorf("failed to store generated tasks: %w", err)
	}

	return tasks, nil
}

// calendarDay keeps the date of t as written and moves it to UTC midnight
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// resolveOrder reads the order preferences, falling back to due_date DESC for unusable values
func (s *TaskService) resolveOrder(ctx context.Context, prefs PreferenceStore) (string, repository.SortDirection, error) {
	column, err := prefs.Get(ctx, constants.PrefTasksOrderColumn, constants.DefaultTasksOrderColumn)
	if err != nil {
		return "", "", err
	}
	rawDirection, err := prefs.Get(ctx, constants.PrefTasksOrderDirection, constants.DefaultTasksOrderDirection)
	if err != nil {
		return "", "", err
	}

	columns, err := s.SortableColumns(ctx)
	if err != nil {
		return "", "", err
	}
	if !slices.Contains(columns, column) {
		column = constants.DefaultTasksOrderColumn
	}

	direction, ok := repository.ParseSortDirection(rawDirection)
	if !ok {
		direction = repository.SortDesc
	}

	return column, direction, nil
}

// currentFolderID returns the selected folder if it still belongs to userID.
// A stale selection is forgotten and the task goes to General.
func (s *TaskService) currentFolderID(ctx context.Context, prefs PreferenceStore, userID uint64) (*uint64, error) {
	folderID, err := prefs.CurrentFolderID(ctx)
	if err != nil || folderID == nil {
		return nil, err
	}

	if _, err := s.folderRepo.FindOwned(ctx, *folderID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, prefs.Forget(ctx, constants.PrefCurrentFolderID)
		}
		return nil, fmt.Errorf("failed to find current folder: %w", err)
	}

	return folderID, nil
}
