package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/folder-tasks/internal/constants"
	"github.com/yukikurage/folder-tasks/internal/database"
	"github.com/yukikurage/folder-tasks/internal/dto"
	"github.com/yukikurage/folder-tasks/internal/middleware"
	"github.com/yukikurage/folder-tasks/internal/models"
	"github.com/yukikurage/folder-tasks/internal/repository"
	"github.com/yukikurage/folder-tasks/internal/services"
	"github.com/yukikurage/folder-tasks/internal/views"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testRowsPerPage = 2

// testApp is the full application wired to an in-memory database
type testApp struct {
	t        *testing.T
	db       *gorm.DB
	handler  http.Handler
	services Services
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	require.NoError(t, database.Migrate(db))

	taskRepo := repository.NewTaskRepository(db)
	folderRepo := repository.NewFolderRepository(db)
	svc := Services{
		Auth:        services.NewAuthService(repository.NewUserRepository(db)),
		Tasks:       services.NewTaskService(taskRepo, folderRepo, nil),
		Folders:     services.NewFolderService(folderRepo),
		Preferences: services.NewPreferenceService(repository.NewPreferenceRepository(db)),
	}

	r := gin.New()
	r.SetHTMLTemplate(views.MustLoad())
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	RegisterRoutes(r, svc, testRowsPerPage)

	return &testApp{
		t:        t,
		db:       db,
		handler:  middleware.MethodOverride(r),
		services: svc,
	}
}

// client is a browser-like session against a testApp
type client struct {
	app     *testApp
	cookies map[string]*http.Cookie
	user    *models.User
	html    bool
}

// signIn creates a user and logs in through the login route
func (a *testApp) signIn(username string) *client {
	a.t.Helper()

	user, err := a.services.Auth.Signup(context.Background(), services.SignupInput{
		Username: username,
		Password: "supersecret",
	})
	require.NoError(a.t, err)

	c := &client{app: a, cookies: map[string]*http.Cookie{}, user: user}
	w := c.do(http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": "supersecret",
	})
	require.Equal(a.t, http.StatusOK, w.Code)
	return c
}

// anonymous returns a client without a session
func (a *testApp) anonymous() *client {
	return &client{app: a, cookies: map[string]*http.Cookie{}}
}

// do sends body as JSON (maps, structs) or as a form (url.Values)
func (c *client) do(method, target string, body any, headers ...string) *httptest.ResponseRecorder {
	c.app.t.Helper()

	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case url.Values:
		reader = strings.NewReader(b.Encode())
		contentType = "application/x-www-form-urlencoded"
	default:
		raw, err := json.Marshal(b)
		require.NoError(c.app.t, err)
		reader = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if !c.html {
		req.Header.Set("Accept", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.app.handler.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return w
}

// viewResponse mirrors dto.View with a typed primary payload
type viewResponse[T any] struct {
	Resource string            `json:"resource"`
	Title    string            `json:"title"`
	Primary  T                 `json:"primary"`
	Flash    *dto.Flash        `json:"flash"`
	Errors   map[string]string `json:"errors"`
}

func decodeView[T any](t *testing.T, w *httptest.ResponseRecorder) viewResponse[T] {
	t.Helper()
	var v viewResponse[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	return e
}
