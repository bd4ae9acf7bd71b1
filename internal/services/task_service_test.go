package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/folder-tasks/internal/constants"
	"github.com/yukikurage/folder-tasks/internal/models"
	"github.com/yukikurage/folder-tasks/internal/repository"
	"gorm.io/gorm"
)

type TaskServiceTestSuite struct {
	suite.Suite
	db          *gorm.DB
	service     *TaskService
	prefService *PreferenceService
	user        *models.User
	other       *models.User
	prefs       PreferenceStore
	ctx         context.Context
}

func (s *TaskServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.ctx = context.Background()

	s.service = NewTaskService(
		repository.NewTaskRepository(s.db),
		repository.NewFolderRepository(s.db),
		nil,
	)
	s.prefService = NewPreferenceService(repository.NewPreferenceRepository(s.db))

	s.user = createTestUser(s.T(), s.db, "owner")
	s.other = createTestUser(s.T(), s.db, "other")
	s.prefs = s.prefService.For(s.user.ID)
}

func (s *TaskServiceTestSuite) createFolder(userID uint64, name string) *models.Folder {
	folder := &models.Folder{Name: name, UserID: userID}
	s.Require().NoError(s.db.Create(folder).Error)
	return folder
}

func (s *TaskServiceTestSuite) createTask(task models.Task) *models.Task {
	s.Require().NoError(s.db.Create(&task).Error)
	return &task
}

func (s *TaskServiceTestSuite) TestComposeListQuery_Defaults() {
	q, err := s.service.ComposeListQuery(s.ctx, ListTasksInput{
		UserID: s.user.ID, Prefs: s.prefs, Page: 1, PageSize: 15,
	})
	s.Require().NoError(err)

	s.Equal(s.user.ID, q.UserID())
	s.Nil(q.FolderID())
	s.Require().NotNil(q.IsCompleted())
	s.False(*q.IsCompleted())
	s.Empty(q.Search())
	s.Equal("due_date", q.OrderColumn())
	s.Equal(repository.SortDesc, q.Direction())
	s.Equal(1, q.Page())
	s.Equal(15, q.PageSize())
}

func (s *TaskServiceTestSuite) TestComposeListQuery_FromPreferences() {
	folder := s.createFolder(s.user.ID, "Home")
	s.Require().NoError(s.prefs.Set(s.ctx, constants.PrefCurrentFolderID, strconv.FormatUint(folder.ID, 10)))
	s.Require().NoError(s.prefs.Set(s.ctx, constants.PrefTasksCompletionFilter, "true"))
	s.Require().NoError(s.service.ApplyPreferences(s.ctx, s.prefs, "title", "asc"))

	q, err := s.service.ComposeListQuery(s.ctx, ListTasksInput{
		UserID: s.user.ID, Prefs: s.prefs, Search: " milk ", Page: 2, PageSize: 5,
	})
	s.Require().NoError(err)

	s.Require().NotNil(q.FolderID())
	s.Equal(folder.ID, *q.FolderID())
	s.True(*q.IsCompleted())
	s.Equal("milk", q.Search())
	s.Equal("title", q.OrderColumn())
	s.Equal(repository.SortAsc, q.Direction())
}

func (s *TaskServiceTestSuite) TestComposeListQuery_IgnoresUnusableOrder() {
	s.Require().NoError(s.prefs.Set(s.ctx, constants.PrefTasksOrderColumn, "password_hash"))
	s.Require().NoError(s.prefs.Set(s.ctx, constants.PrefTasksOrderDirection, "sideways"))

	q, err := s.service.ComposeListQuery(s.ctx, ListTasksInput{UserID: s.user.ID, Prefs: s.prefs})
	s.Require().NoError(err)
	s.Equal(constants.DefaultTasksOrderColumn, q.OrderColumn())
	s.Equal(repository.SortDesc, q.Direction())
}

func (s *TaskServiceTestSuite) TestListTasks_TitleAndOrdering() {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	s.createTask(models.Task{Title: "early", DueDate: &early, UserID: s.user.ID})
	s.createTask(models.Task{Title: "late", DueDate: &late, UserID: s.user.ID})
	s.createTask(models.Task{Title: "someone else's", DueDate: &late, UserID: s.other.ID})

	listing, err := s.service.ListTasks(s.ctx, ListTasksInput{UserID: s.user.ID, Prefs: s.prefs, Page: 1, PageSize: 15})
	s.Require().NoError(err)
	s.Equal(GeneralFolderTitle, listing.Title)
	s.Equal(int64(2), listing.Total)
	s.Require().Len(listing.Tasks, 2)
	s.Equal("late", listing.Tasks[0].Title)

	s.Require().NoError(s.service.ApplyPreferences(s.ctx, s.prefs, "due_date", "ASC"))
	listing, err = s.service.ListTasks(s.ctx, ListTasksInput{UserID: s.user.ID, Prefs: s.prefs, Page: 1, PageSize: 15})
	s.Require().NoError(err)
	s.Equal("early", listing.Tasks[0].Title)

	folder := s.createFolder(s.user.ID, "Garden")
	s.Require().NoError(s.prefs.Set(s.ctx, constants.PrefCurrentFolderID, strconv.FormatUint(folder.ID, 10)))
	listing, err = s.service.ListTasks(s.ctx, ListTasksInput{UserID: s.user.ID, Prefs: s.prefs, Page: 1, PageSize: 15})
	s.Require().NoError(err)
	s.Equal("Garden", listing.Title)
	s.Empty(listing.Tasks)
}

func (s *TaskServiceTestSuite) TestListTasks_StaleFolderShowsGeneral() {
	s.createTask(models.Task{Title: "unfiled", UserID: s.user.ID})
	s.Require().NoError(s.prefs.Set(s.ctx, constants.PrefCurrentFolderID, "9999"))

	listing, err := s.service.ListTasks(s.ctx, ListTasksInput{UserID: s.user.ID, Prefs: s.prefs, Page: 1, PageSize: 15})
	s.Require().NoError(err)
	s.Equal(GeneralFolderTitle, listing.Title)
	s.Nil(listing.Query.FolderID())
	s.Require().Len(listing.Tasks, 1)
	s.Equal("unfiled", listing.Tasks[0].Title)
}

func (s *TaskServiceTestSuite) TestCreateTask_UsesCurrentFolder() {
	folder := s.createFolder(s.user.ID, "Work")
	s.Require().NoError(s.prefs.Set(s.ctx, constants.PrefCurrentFolderID, strconv.FormatUint(folder.ID, 10)))

	task, err := s.service.CreateTask(s.ctx, s.prefs, s.user.ID, TaskFields{Title: "Write report"})
	s.Require().NoError(err)
	s.Equal(s.user.ID, task.UserID)
	s.Require().NotNil(task.FolderID)
	s.Equal(folder.ID, *task.FolderID)
	s.False(task.IsCompleted)
}

func (s *TaskServiceTestSuite) TestCreateTask_StaleFolderFallsBackToGeneral() {
	foreign := s.createFolder(s.other.ID, "Not yours")
	s.Require().NoError(s.prefs.Set(s.ctx, constants.PrefCurrentFolderID, strconv.FormatUint(foreign.ID, 10)))

	task, err := s.service.CreateTask(s.ctx, s.prefs, s.user.ID, TaskFields{Title: "Loose task"})
	s.Require().NoError(err)
	s.Nil(task.FolderID)

	id, err := s.prefs.CurrentFolderID(s.ctx)
	s.Require().NoError(err)
	s.Nil(id)
}

func (s *TaskServiceTestSuite) TestCreateTask_Validation() {
	dueTime := "10:00"
	tooLong := "0123456789"
	longTitle := make([]byte, constants.MaxTitleLength+1)
	for i := range longTitle {
		longTitle[i] = 'a'
	}

	cases := []struct {
		name   string
		fields TaskFields
		want   error
	}{
		{"blank title", TaskFields{Title: "   "}, ErrTitleRequired},
		{"long title", TaskFields{Title: string(longTitle)}, ErrTitleTooLong},
		{"due time without date", TaskFields{Title: "x", DueTime: &dueTime}, ErrDueDateRequired},
		{"long due time", TaskFields{Title: "x", DueTime: &tooLong}, ErrDueTimeTooLong},
	}

	for _, tc := range cases {
		_, err := s.service.CreateTask(s.ctx, s.prefs, s.user.ID, tc.fields)
		s.ErrorIs(err, tc.want, tc.name)
	}

	var count int64
	s.Require().NoError(s.db.Model(&models.Task{}).Count(&count).Error)
	s.Zero(count)
}

func (s *TaskServiceTestSuite) TestGetOwnedTask_HidesForeignTasks() {
	task := s.createTask(models.Task{Title: "private", UserID: s.other.ID})

	_, err := s.service.GetOwnedTask(s.ctx, task.ID, s.user.ID)
	s.ErrorIs(err, ErrTaskNotFound)

	_, err = s.service.GetOwnedTask(s.ctx, task.ID+100, s.user.ID)
	s.ErrorIs(err, ErrTaskNotFound)

	found, err := s.service.GetOwnedTask(s.ctx, task.ID, s.other.ID)
	s.Require().NoError(err)
	s.Equal("private", found.Title)
}

func (s *TaskServiceTestSuite) TestUpdateTask() {
	home := s.createFolder(s.user.ID, "Home")
	foreign := s.createFolder(s.other.ID, "Theirs")
	task := s.createTask(models.Task{Title: "old", UserID: s.user.ID, FolderID: &home.ID})

	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	dueTime := "09:30"
	updated, err := s.service.UpdateTask(s.ctx, task, s.user.ID, UpdateTaskInput{
		TaskFields: TaskFields{Title: "new", DueDate: &date, DueTime: &dueTime, IsCompleted: true},
		FolderID:   &home.ID,
	})
	s.Require().NoError(err)
	s.Equal("new", updated.Title)
	s.Require().NotNil(updated.FolderID)
	s.Equal(home.ID, *updated.FolderID)

	var reloaded models.Task
	s.Require().NoError(s.db.First(&reloaded, task.ID).Error)
	s.Equal("new", reloaded.Title)
	s.True(reloaded.IsCompleted)
	s.Require().NotNil(reloaded.DueTime)
	s.Equal("09:30", *reloaded.DueTime)

	_, err = s.service.UpdateTask(s.ctx, task, s.user.ID, UpdateTaskInput{
		TaskFields: TaskFields{Title: "moved"},
		FolderID:   &foreign.ID,
	})
	s.ErrorIs(err, ErrFolderNotFound)

	unfiled, err := s.service.UpdateTask(s.ctx, task, s.user.ID, UpdateTaskInput{
		TaskFields: TaskFields{Title: "unfiled"},
	})
	s.Require().NoError(err)
	s.Nil(unfiled.FolderID)

	var general models.Task
	s.Require().NoError(s.db.First(&general, task.ID).Error)
	s.Nil(general.FolderID)

	_, err = s.service.UpdateTask(s.ctx, task, s.other.ID, UpdateTaskInput{TaskFields: TaskFields{Title: "hijack"}})
	s.ErrorIs(err, ErrTaskNotFound)
}

func (s *TaskServiceTestSuite) TestToggleCompletion_TwiceRestores() {
	task := s.createTask(models.Task{Title: "flip", UserID: s.user.ID})

	toggled, err := s.service.ToggleCompletion(s.ctx, task, s.user.ID)
	s.Require().NoError(err)
	s.True(toggled.IsCompleted)

	toggled, err = s.service.ToggleCompletion(s.ctx, toggled, s.user.ID)
	s.Require().NoError(err)
	s.False(toggled.IsCompleted)

	var reloaded models.Task
	s.Require().NoError(s.db.First(&reloaded, task.ID).Error)
	s.False(reloaded.IsCompleted)
}

func (s *TaskServiceTestSuite) TestDeleteTask_SecondDeleteNotFound() {
	task := s.createTask(models.Task{Title: "bye", UserID: s.user.ID})

	s.Require().NoError(s.service.DeleteTask(s.ctx, task, s.user.ID))
	s.ErrorIs(s.service.DeleteTask(s.ctx, task, s.user.ID), ErrTaskNotFound)
}

func (s *TaskServiceTestSuite) TestApplyPreferences_RejectsInvalid() {
	s.ErrorIs(s.service.ApplyPreferences(s.ctx, s.prefs, "nope", "ASC"), ErrInvalidSortColumn)
	s.ErrorIs(s.service.ApplyPreferences(s.ctx, s.prefs, "title", "UP"), ErrInvalidSortDirection)

	v, err := s.prefs.Get(s.ctx, constants.PrefTasksOrderColumn, "unset")
	s.Require().NoError(err)
	s.Equal("unset", v)
}

func (s *TaskServiceTestSuite) TestSortOptions() {
	options, err := s.service.SortOptions(s.ctx)
	s.Require().NoError(err)
	s.Contains(options, SortOption{Value: "due_date", Label: "Due Date"})
	s.Contains(options, SortOption{Value: "title", Label: "Title"})
}

func (s *TaskServiceTestSuite) TestGenerateTasks() {
	_, err := s.service.GenerateTasks(s.ctx, s.prefs, s.user.ID, "buy milk")
	s.ErrorIs(err, ErrAIServiceNotConfigured)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content := "```json\n[{\"title\":\"Call the plumber\",\"content\":\"kitchen sink\",\"due_date\":null},{\"title\":\"  \",\"content\":\"\",\"due_date\":null}]\n```"
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o","choices":[{"index":0,"message":{"role":"assistant","content":%q},"finish_reason":"stop"}]}`, content)
	}))
	defer server.Close()

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"
	s.service = NewTaskService(
		repository.NewTaskRepository(s.db),
		repository.NewFolderRepository(s.db),
		NewAIServiceWithConfig(cfg),
	)

	_, err = s.service.GenerateTasks(s.ctx, s.prefs, s.user.ID, "  ")
	s.ErrorIs(err, ErrTextRequired)

	tasks, err := s.service.GenerateTasks(s.ctx, s.prefs, s.user.ID, "The kitchen sink leaks, call the plumber")
	s.Require().NoError(err)
	s.Require().Len(tasks, 1)
	s.Equal("Call the plumber", tasks[0].Title)
	s.Equal(s.user.ID, tasks[0].UserID)
	s.False(tasks[0].IsCompleted)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}

func TestCalendarDay(t *testing.T) {
	west := time.FixedZone("UTC-5", -5*60*60)
	day := calendarDay(time.Date(2024, 5, 1, 23, 30, 0, 0, west))

	assert.True(t, day.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)), day.String())
}
