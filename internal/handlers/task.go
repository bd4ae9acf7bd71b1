package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/folder-tasks/internal/constants"
	"github.com/yukikurage/folder-tasks/internal/dto"
	apierrors "github.com/yukikurage/folder-tasks/internal/errors"
	"github.com/yukikurage/folder-tasks/internal/middleware"
	"github.com/yukikurage/folder-tasks/internal/models"
	"github.com/yukikurage/folder-tasks/internal/resource"
	"github.com/yukikurage/folder-tasks/internal/services"
	"github.com/yukikurage/folder-tasks/internal/utils"
)

// TaskHandler serves the task resource
type TaskHandler struct {
	taskService   *services.TaskService
	folderService *services.FolderService
	rowsPerPage   int
	resource      resource.Descriptor
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService, folderService *services.FolderService, rowsPerPage int) *TaskHandler {
	useFormFieldNames()
	return &TaskHandler{
		taskService:   taskService,
		folderService: folderService,
		rowsPerPage:   rowsPerPage,
		resource:      resource.Tasks,
	}
}

type taskRequest struct {
	Title       string  `form:"title" json:"title" binding:"required,max=255"`
	Content     string  `form:"content" json:"content"`
	DueDate     string  `form:"due_date" json:"due_date" binding:"required_with=DueTime"`
	DueTime     string  `form:"due_time" json:"due_time" binding:"max=9"`
	IsCompleted *bool   `form:"is_completed" json:"is_completed" binding:"required"`
	FolderID    *uint64 `form:"folder_id" json:"folder_id"`
}

func (r taskRequest) fields() (services.TaskFields, map[string]string) {
	fields := services.TaskFields{
		Title:       r.Title,
		Content:     r.Content,
		IsCompleted: *r.IsCompleted,
	}

	if r.DueDate != "" {
		// due dates are calendar days stored at UTC midnight
		date, err := time.ParseInLocation(constants.DueDateLayout, r.DueDate, time.UTC)
		if err != nil {
			return fields, map[string]string{"due_date": "The due_date field must be a valid date (YYYY-MM-DD)."}
		}
		fields.DueDate = &date
	}
	if r.DueTime != "" {
		dueTime := r.DueTime
		fields.DueTime = &dueTime
	}

	return fields, nil
}

// updateActionRequest selects a partial update. Older forms name the field method.
type updateActionRequest struct {
	Action string `form:"action" json:"action"`
	Method string `form:"method" json:"method"`
}

func (r updateActionRequest) is(action string) bool {
	return r.Action == action || r.Method == action
}

type preferencesRequest struct {
	OrderColumn    string `form:"order_column" json:"order_column" binding:"required,max=255"`
	OrderDirection string `form:"order_direction" json:"order_direction" binding:"required,max=255"`
}

type filtersRequest struct {
	CompletionStatus *bool `form:"completion_status" json:"completion_status" binding:"required"`
}

type generateRequest struct {
	Text string `form:"text" json:"text" binding:"required"`
}

// Index lists one page of tasks in the current folder
func (h *TaskHandler) Index(c *gin.Context) {
	userID, prefs, ok := currentUser(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c, h.rowsPerPage)
	listing, err := h.taskService.ListTasks(c.Request.Context(), services.ListTasksInput{
		UserID:   userID,
		Prefs:    prefs,
		Search:   c.Query("q"),
		Page:     params.Page,
		PageSize: params.Limit,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	completed := listing.Query.IsCompleted() != nil && *listing.Query.IsCompleted()
	pagination := utils.NewPaginationResponse(c.Request.URL, params, listing.Total)
	primary := dto.ToTaskListResponse(listing.Tasks, listing.Query.Search(), completed, pagination)

	render(c, http.StatusOK, h.resource.View("index"), newView(c, h.resource, listing.Title, primary))
}

// Create shows the new task form
func (h *TaskHandler) Create(c *gin.Context) {
	render(c, http.StatusOK, h.resource.View("create"),
		newView(c, h.resource, h.resource.ActionTitle("Create"), nil))
}

// Store creates a task in the current folder
func (h *TaskHandler) Store(c *gin.Context) {
	userID, prefs, ok := currentUser(c)
	if !ok {
		return
	}

	formView := func() dto.View {
		return newView(c, h.resource, h.resource.ActionTitle("Create"), nil)
	}

	var req taskRequest
	if err := bindRequest(c, &req); err != nil {
		respondBindError(c, h.resource.View("create"), formView, err)
		return
	}

	fields, invalid := req.fields()
	if invalid != nil {
		renderInvalid(c, h.resource.View("create"), formView, invalid)
		return
	}

	if _, err := h.taskService.CreateTask(c.Request.Context(), prefs, userID, fields); err != nil {
		if details := taskFieldErrors(err); details != nil {
			renderInvalid(c, h.resource.View("create"), formView, details)
			return
		}
		respondTaskError(c, err)
		return
	}

	redirectWithFlash(c, h.resource.IndexPath(), h.resource.Flash("created"))
}

// Show has no page of its own and sends the client to the edit form
func (h *TaskHandler) Show(c *gin.Context) {
	task, ok := h.task(c)
	if !ok {
		return
	}

	c.Redirect(http.StatusSeeOther, h.resource.Path(task.ID, "edit"))
}

// Edit shows the edit form of an owned task
func (h *TaskHandler) Edit(c *gin.Context) {
	task, ok := h.task(c)
	if !ok {
		return
	}

	primary, err := h.formResponse(c, task)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	render(c, http.StatusOK, h.resource.View("edit"),
		newView(c, h.resource, h.resource.ActionTitle("Edit"), primary))
}

// Update either toggles the completion status (action=toggleCompletionStatus)
// or replaces the task's fields
func (h *TaskHandler) Update(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	task, ok := h.task(c)
	if !ok {
		return
	}

	var action updateActionRequest
	if err := bindRequest(c, &action); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if action.is(constants.ActionToggleCompletion) {
		h.toggle(c, task, userID)
		return
	}

	formView := func() dto.View {
		primary, err := h.formResponse(c, task)
		if err != nil {
			log.Printf("failed to load edit form data: %v", err)
		}
		return newView(c, h.resource, h.resource.ActionTitle("Edit"), primary)
	}

	var req taskRequest
	if err := bindRequest(c, &req); err != nil {
		respondBindError(c, h.resource.View("edit"), formView, err)
		return
	}

	fields, invalid := req.fields()
	if invalid != nil {
		renderInvalid(c, h.resource.View("edit"), formView, invalid)
		return
	}

	input := services.UpdateTaskInput{TaskFields: fields}
	// an absent, null or empty folder_id moves the task to General
	if req.FolderID != nil && *req.FolderID != 0 {
		input.FolderID = req.FolderID
	}

	if _, err := h.taskService.UpdateTask(c.Request.Context(), task, userID, input); err != nil {
		if details := taskFieldErrors(err); details != nil {
			renderInvalid(c, h.resource.View("edit"), formView, details)
			return
		}
		respondTaskError(c, err)
		return
	}

	redirectWithFlash(c, h.resource.IndexPath(), h.resource.Flash("updated"))
}

func (h *TaskHandler) toggle(c *gin.Context, task *models.Task, userID uint64) {
	updated, err := h.taskService.ToggleCompletion(c.Request.Context(), task, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	message := h.resource.Flash("completion cancelled")
	if updated.IsCompleted {
		message = h.resource.Flash("completed")
	}
	redirectWithFlash(c, backURL(c, h.resource.IndexPath()), message)
}

// Delete shows the delete confirmation
func (h *TaskHandler) Delete(c *gin.Context) {
	task, ok := h.task(c)
	if !ok {
		return
	}

	render(c, http.StatusOK, h.resource.View("delete"),
		newView(c, h.resource, h.resource.ActionTitle("Delete"), dto.ToTaskDTO(*task)))
}

// Destroy deletes an owned task
func (h *TaskHandler) Destroy(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	task, ok := h.task(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), task, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	redirectWithFlash(c, h.resource.IndexPath(), h.resource.Flash("deleted"))
}

// Preferences lists the columns tasks can be ordered by
func (h *TaskHandler) Preferences(c *gin.Context) {
	options, err := h.taskService.SortOptions(c.Request.Context())
	if err != nil {
		respondTaskError(c, err)
		return
	}

	render(c, http.StatusOK, h.resource.View("preferences"),
		newView(c, h.resource, h.resource.Title()+" preferences", options))
}

// ApplyPreferences stores the listing order
func (h *TaskHandler) ApplyPreferences(c *gin.Context) {
	_, prefs, ok := currentUser(c)
	if !ok {
		return
	}

	formView := func() dto.View {
		options, err := h.taskService.SortOptions(c.Request.Context())
		if err != nil {
			log.Printf("failed to load sort options: %v", err)
		}
		return newView(c, h.resource, h.resource.Title()+" preferences", options)
	}

	var req preferencesRequest
	if err := bindRequest(c, &req); err != nil {
		respondBindError(c, h.resource.View("preferences"), formView, err)
		return
	}

	if err := h.taskService.ApplyPreferences(c.Request.Context(), prefs, req.OrderColumn, req.OrderDirection); err != nil {
		if details := taskFieldErrors(err); details != nil {
			renderInvalid(c, h.resource.View("preferences"), formView, details)
			return
		}
		respondTaskError(c, err)
		return
	}

	redirectWithFlash(c, h.resource.IndexPath(), "Preferences updated.")
}

// Search shows the search form; results are rendered by Index with ?q=
func (h *TaskHandler) Search(c *gin.Context) {
	render(c, http.StatusOK, h.resource.View("search"),
		newView(c, h.resource, "Search "+h.resource.Name, nil))
}

// ApplyFilters stores the completion status filter
func (h *TaskHandler) ApplyFilters(c *gin.Context) {
	_, prefs, ok := currentUser(c)
	if !ok {
		return
	}

	var req filtersRequest
	if err := bindRequest(c, &req); err != nil {
		respondBindError(c, h.resource.View("search"), func() dto.View {
			return newView(c, h.resource, "Search "+h.resource.Name, nil)
		}, err)
		return
	}

	if err := h.taskService.ApplyFilters(c.Request.Context(), prefs, *req.CompletionStatus); err != nil {
		respondTaskError(c, err)
		return
	}

	redirectWithFlash(c, h.resource.IndexPath(), "Filters updated.")
}

// Generate turns free text into tasks in the current folder
func (h *TaskHandler) Generate(c *gin.Context) {
	userID, prefs, ok := currentUser(c)
	if !ok {
		return
	}

	var req generateRequest
	if err := bindRequest(c, &req); err != nil {
		respondBindError(c, h.resource.View("create"), func() dto.View {
			return newView(c, h.resource, h.resource.ActionTitle("Create"), nil)
		}, err)
		return
	}

	tasks, err := h.taskService.GenerateTasks(c.Request.Context(), prefs, userID, req.Text)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	message := fmt.Sprintf("%d tasks generated.", len(tasks))
	if len(tasks) == 1 {
		message = "1 task generated."
	}
	redirectWithFlash(c, h.resource.IndexPath(), message)
}

func (h *TaskHandler) task(c *gin.Context) (*models.Task, bool) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return nil, false
	}
	return task, true
}

func (h *TaskHandler) formResponse(c *gin.Context, task *models.Task) (dto.TaskFormResponse, error) {
	folders, err := h.folderService.ListFolders(c.Request.Context(), task.UserID)
	if err != nil {
		return dto.TaskFormResponse{Task: dto.ToTaskDTO(*task)}, err
	}
	return dto.TaskFormResponse{
		Task:    dto.ToTaskDTO(*task),
		Folders: dto.ToFolderDTOs(folders),
	}, nil
}

// taskFieldErrors maps service validation errors to the request field they concern
func taskFieldErrors(err error) map[string]string {
	switch {
	case errors.Is(err, services.ErrTitleRequired):
		return map[string]string{"title": "The title field is required."}
	case errors.Is(err, services.ErrTitleTooLong):
		return map[string]string{"title": "The title field must not be greater than 255 characters."}
	case errors.Is(err, services.ErrDueTimeTooLong):
		return map[string]string{"due_time": "The due_time field must not be greater than 9 characters."}
	case errors.Is(err, services.ErrDueDateRequired):
		return map[string]string{"due_date": "The due_date field is required when due_time is present."}
	case errors.Is(err, services.ErrFolderNotFound):
		return map[string]string{"folder_id": "The selected folder_id is invalid."}
	case errors.Is(err, services.ErrInvalidSortColumn):
		return map[string]string{"order_column": "The selected order_column is invalid."}
	case errors.Is(err, services.ErrInvalidSortDirection):
		return map[string]string{"order_direction": "The selected order_direction is invalid."}
	default:
		return nil
	}
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrFolderNotFound):
		apierrors.NotFound(c, "Folder not found")
	case errors.Is(err, services.ErrTextRequired),
		errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.UnprocessableEntity(c, map[string]string{"text": err.Error()})
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())
	default:
		log.Printf("task request failed: %v", err)
		apierrors.InternalError(c, "")
	}
}
