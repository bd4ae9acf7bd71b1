package repository

import (
	"strings"
)

// SortDirection is the direction of the task listing order
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ParseSortDirection accepts asc/desc in any case
func ParseSortDirection(s string) (SortDirection, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(SortAsc):
		return SortAsc, true
	case string(SortDesc):
		return SortDesc, true
	default:
		return "", false
	}
}

// likeEscape is the LIKE escape character; it is accepted by mysql, postgres and sqlite alike
const likeEscape = "!"

// TaskQuery describes one listing of a user's tasks. It is built step by step
// and executed once by TaskRepository.List. The owner filter cannot be removed.
type TaskQuery struct {
	userID         uint64
	folderID       *uint64
	isCompleted    *bool
	titleContains  string
	orderColumn    string
	orderDirection SortDirection
	page           int
	pageSize       int
}

// NewTaskQuery starts a query over the tasks owned by userID
func NewTaskQuery(userID uint64) TaskQuery {
	return TaskQuery{userID: userID}
}

// InFolder restricts the query to one folder; nil selects unfiled tasks
func (q TaskQuery) InFolder(folderID *uint64) TaskQuery {
	q.folderID = folderID
	return q
}

// WithCompletion restricts the query to completed or incomplete tasks
func (q TaskQuery) WithCompletion(completed bool) TaskQuery {
	q.isCompleted = &completed
	return q
}

// TitleContains adds a case-insensitive substring match on the title. Blank terms are ignored.
func (q TaskQuery) TitleContains(term string) TaskQuery {
	q.titleContains = strings.TrimSpace(term)
	return q
}

// OrderBy sets the sort column and direction
func (q TaskQuery) OrderBy(column string, direction SortDirection) TaskQuery {
	q.orderColumn = column
	q.orderDirection = direction
	return q
}

// Paginate selects one page of pageSize rows
func (q TaskQuery) Paginate(page, pageSize int) TaskQuery {
	q.page = page
	q.pageSize = pageSize
	return q
}

func (q TaskQuery) UserID() uint64           { return q.userID }
func (q TaskQuery) FolderID() *uint64        { return q.folderID }
func (q TaskQuery) IsCompleted() *bool       { return q.isCompleted }
func (q TaskQuery) Search() string           { return q.titleContains }
func (q TaskQuery) OrderColumn() string      { return q.orderColumn }
func (q TaskQuery) Direction() SortDirection { return q.orderDirection }
func (q TaskQuery) Page() int                { return q.page }
func (q TaskQuery) PageSize() int            { return q.pageSize }

// likePattern lowercases term, escapes LIKE wildcards and wraps it in %...%
func likePattern(term string) string {
	replacer := strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	)
	return "%" + replacer.Replace(strings.ToLower(term)) + "%"
}
