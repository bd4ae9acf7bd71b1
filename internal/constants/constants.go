package constants

// Session and context keys
const (
	SessionCookieName     = "folder_tasks_session"
	ContextKeyUserID      = "user_id"
	ContextKeyTask        = "task"
	ContextKeyFolder      = "folder"
	ContextKeyPreferences = "preferences"
	SessionKeyFlash       = "flash"
)

// Authentication
const (
	MinPasswordLength = 8
	// bcrypt rejects longer passwords
	MaxPasswordBytes = 72
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 15
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*pageSize far from overflowing
	MaxPage = 1_000_000
)

// Preference keys
const (
	PrefCurrentFolderID        = "currentFolderId"
	PrefTasksOrderColumn       = "tasks.order.column"
	PrefTasksOrderDirection    = "tasks.order.direction"
	PrefTasksCompletionFilter  = "tasks.filters.completionStatus"
	DefaultTasksOrderColumn    = "due_date"
	DefaultTasksOrderDirection = "DESC"
)

// Task fields
const (
	MaxTitleLength   = 255
	MaxDueTimeLength = 9
	DueDateLayout    = "2006-01-02"
)

// AI
const (
	MaxAIGeneratedTasks = 20
)

// Task update actions
const (
	ActionToggleCompletion = "toggleCompletionStatus"
)
