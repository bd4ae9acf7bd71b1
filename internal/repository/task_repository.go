package repository

import (
	"context"

	"github.com/yukikurage/folder-tasks/internal/database"
	"github.com/yukikurage/folder-tasks/internal/models"
	"github.com/yukikurage/folder-tasks/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// CreateBatch creates several tasks in one statement
func (r *GormTaskRepository) CreateBatch(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&tasks).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List executes a task query
func (r *GormTaskRepository) List(ctx context.Context, q TaskQuery) ([]models.Task, int64, error) {
	var tasks []models.Task

	// The owner filter is applied first and unconditionally
	query := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("tasks.user_id = ?", q.UserID())

	if q.FolderID() != nil {
		query = query.Where("tasks.folder_id = ?", *q.FolderID())
	} else {
		query = query.Where("tasks.folder_id IS NULL")
	}
	if q.IsCompleted() != nil {
		query = query.Where("tasks.is_completed = ?", *q.IsCompleted())
	}
	if q.Search() != "" {
		query = query.Where("LOWER(tasks.title) LIKE ? ESCAPE '"+likeEscape+"'", likePattern(q.Search()))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query
	if q.OrderColumn() != "" {
		listQuery = listQuery.Order(clause.OrderByColumn{
			Column: clause.Column{Table: "tasks", Name: q.OrderColumn()},
			Desc:   q.Direction() == SortDesc,
		})
	}
	// Stable order inside equal sort keys so pages do not overlap
	listQuery = listQuery.Order("tasks.id ASC")

	if q.Page() > 0 && q.PageSize() > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   q.Page(),
			Limit:  q.PageSize(),
			Offset: (q.Page() - 1) * q.PageSize(),
		}))
	}

	if err := listQuery.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update saves every field of a task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error
}

// SetCompleted updates only the completion flag
func (r *GormTaskRepository) SetCompleted(ctx context.Context, task *models.Task, completed bool) error {
	if err := r.db.WithContext(ctx).Model(task).Omit(clause.Associations).Update("is_completed", completed).Error; err != nil {
		return err
	}
	task.IsCompleted = completed
	return nil
}

// Delete permanently deletes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Columns lists the columns of the tasks table
func (r *GormTaskRepository) Columns(ctx context.Context) ([]string, error) {
	return database.ColumnListing(r.db.WithContext(ctx), &models.Task{})
}
