package handlers

import (
	"log"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/folder-tasks/internal/dto"
	apierrors "github.com/yukikurage/folder-tasks/internal/errors"
	"github.com/yukikurage/folder-tasks/internal/middleware"
	"github.com/yukikurage/folder-tasks/internal/resource"
	"github.com/yukikurage/folder-tasks/internal/services"
)

var registerTagNames sync.Once

// useFormFieldNames makes validation errors report the request field name
// (title, due_date) instead of the Go field name.
func useFormFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
}

// wantsJSON reports whether the client prefers JSON over HTML
func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

// newView builds the object every template receives and consumes the pending flash
func newView(c *gin.Context, res resource.Descriptor, title string, primary any) dto.View {
	return dto.View{
		Resource: res.Name,
		Title:    title,
		Primary:  primary,
		Flash:    middleware.TakeFlash(c),
	}
}

func render(c *gin.Context, status int, name string, view dto.View) {
	if wantsJSON(c) {
		c.JSON(status, view)
		return
	}
	c.HTML(status, name, view)
}

// renderInvalid answers 422. HTML clients get the form back with the errors
// and their previous input; buildView only runs for them.
func renderInvalid(c *gin.Context, name string, buildView func() dto.View, details map[string]string) {
	if wantsJSON(c) {
		apierrors.UnprocessableEntity(c, details)
		return
	}

	view := buildView()
	view.Errors = details
	view.Old = oldInput(c)
	c.HTML(http.StatusUnprocessableEntity, name, view)
}

// respondBindError answers 422 for validation failures and 400 for unreadable bodies
func respondBindError(c *gin.Context, name string, buildView func() dto.View, err error) {
	if details := apierrors.FieldErrors(err); details != nil {
		renderInvalid(c, name, buildView, details)
		return
	}
	apierrors.BadRequest(c, "Invalid request body")
}

func oldInput(c *gin.Context) map[string]string {
	old := make(map[string]string, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			old[key] = values[0]
		}
	}
	return old
}

// bindRequest binds a JSON or form body. JSON bodies are cached so a handler
// may bind the same request more than once.
func bindRequest(c *gin.Context, obj any) error {
	if c.ContentType() == binding.MIMEJSON {
		return c.ShouldBindBodyWith(obj, binding.JSON)
	}
	return c.ShouldBindWith(obj, binding.Form)
}

// redirectWithFlash stores a success message and answers 303 See Other
func redirectWithFlash(c *gin.Context, location, message string) {
	if err := middleware.SetFlash(c, dto.SuccessFlash(message)); err != nil {
		log.Printf("failed to store flash message: %v", err)
	}
	c.Redirect(http.StatusSeeOther, location)
}

// backURL returns the path of a same-host Referer, or fallback
func backURL(c *gin.Context, fallback string) string {
	ref, err := url.Parse(c.Request.Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return fallback
	}
	if ref.Host != "" && ref.Host != c.Request.Host {
		return fallback
	}

	back := url.URL{Path: ref.Path, RawQuery: ref.RawQuery}
	return back.String()
}

// currentUser returns the authenticated user and their preference store,
// answering 401 when either is missing
func currentUser(c *gin.Context) (uint64, services.PreferenceStore, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, nil, false
	}

	prefs, ok := middleware.GetPreferences(c)
	if !ok {
		apierrors.InternalError(c, "Preferences not available")
		return 0, nil, false
	}

	return userID, prefs, true
}
