package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/folder-tasks/internal/dto"
	apierrors "github.com/yukikurage/folder-tasks/internal/errors"
	"github.com/yukikurage/folder-tasks/internal/middleware"
	"github.com/yukikurage/folder-tasks/internal/models"
	"github.com/yukikurage/folder-tasks/internal/resource"
	"github.com/yukikurage/folder-tasks/internal/services"
)

// FolderHandler serves the folder resource and switches the current folder
type FolderHandler struct {
	folderService *services.FolderService
	resource      resource.Descriptor
}

// NewFolderHandler creates a new FolderHandler
func NewFolderHandler(folderService *services.FolderService) *FolderHandler {
	useFormFieldNames()
	return &FolderHandler{
		folderService: folderService,
		resource:      resource.Folders,
	}
}

type folderRequest struct {
	Name        string `form:"name" json:"name" binding:"required,max=255"`
	Description string `form:"description" json:"description"`
}

// Index lists the user's folders
func (h *FolderHandler) Index(c *gin.Context) {
	view, err := h.indexView(c)
	if err != nil {
		respondFolderError(c, err)
		return
	}
	render(c, http.StatusOK, h.resource.View("index"), view)
}

// Store creates a folder
func (h *FolderHandler) Store(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var req folderRequest
	if err := bindRequest(c, &req); err != nil {
		h.bindFailed(c, err)
		return
	}

	_, err := h.folderService.CreateFolder(c.Request.Context(), userID, services.FolderInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.serviceFailed(c, err)
		return
	}

	redirectWithFlash(c, h.resource.IndexPath(), h.resource.Flash("created"))
}

// Update renames a folder
func (h *FolderHandler) Update(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	folder, ok := h.folder(c)
	if !ok {
		return
	}

	var req folderRequest
	if err := bindRequest(c, &req); err != nil {
		h.bindFailed(c, err)
		return
	}

	_, err := h.folderService.UpdateFolder(c.Request.Context(), folder, userID, services.FolderInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.serviceFailed(c, err)
		return
	}

	redirectWithFlash(c, h.resource.IndexPath(), h.resource.Flash("updated"))
}

// Destroy deletes a folder and moves its tasks to General
func (h *FolderHandler) Destroy(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	folder, ok := h.folder(c)
	if !ok {
		return
	}

	if err := h.folderService.DeleteFolder(c.Request.Context(), folder, userID); err != nil {
		respondFolderError(c, err)
		return
	}

	redirectWithFlash(c, h.resource.IndexPath(), h.resource.Flash("deleted"))
}

// Open makes the folder the current folder of the task listing
func (h *FolderHandler) Open(c *gin.Context) {
	userID, prefs, ok := currentUser(c)
	if !ok {
		return
	}
	folder, ok := h.folder(c)
	if !ok {
		return
	}

	if err := h.folderService.OpenFolder(c.Request.Context(), prefs, folder, userID); err != nil {
		respondFolderError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, resource.Tasks.IndexPath())
}

// OpenGeneral switches the task listing back to unfiled tasks
func (h *FolderHandler) OpenGeneral(c *gin.Context) {
	_, prefs, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.folderService.OpenGeneral(c.Request.Context(), prefs); err != nil {
		respondFolderError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, resource.Tasks.IndexPath())
}

func (h *FolderHandler) indexView(c *gin.Context) (dto.View, error) {
	userID, prefs, ok := currentUser(c)
	if !ok {
		return dto.View{}, errUnauthenticated
	}

	folders, err := h.folderService.ListFolders(c.Request.Context(), userID)
	if err != nil {
		return dto.View{}, err
	}
	current, err := prefs.CurrentFolderID(c.Request.Context())
	if err != nil {
		return dto.View{}, err
	}

	primary := dto.FolderListResponse{
		Folders:         dto.ToFolderDTOs(folders),
		CurrentFolderID: current,
	}
	return newView(c, h.resource, h.resource.Title(), primary), nil
}

// bindFailed answers 422 for validation failures and 400 for unreadable bodies
func (h *FolderHandler) bindFailed(c *gin.Context, err error) {
	details := apierrors.FieldErrors(err)
	if details == nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	h.renderInvalid(c, details)
}

// serviceFailed answers 422 for folder validation errors
func (h *FolderHandler) serviceFailed(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrFolderNameRequired):
		h.renderInvalid(c, map[string]string{"name": "The name field is required."})
	case errors.Is(err, services.ErrFolderNameTooLong):
		h.renderInvalid(c, map[string]string{"name": "The name field must not be greater than 255 characters."})
	default:
		respondFolderError(c, err)
	}
}

func (h *FolderHandler) renderInvalid(c *gin.Context, details map[string]string) {
	if wantsJSON(c) {
		apierrors.UnprocessableEntity(c, details)
		return
	}

	view, err := h.indexView(c)
	if err != nil {
		respondFolderError(c, err)
		return
	}
	renderInvalid(c, h.resource.View("index"), func() dto.View { return view }, details)
}

func (h *FolderHandler) folder(c *gin.Context) (*models.Folder, bool) {
	folder, ok := middleware.GetFolder(c)
	if !ok {
		apierrors.InternalError(c, "Folder not found in context")
		return nil, false
	}
	return folder, true
}

var errUnauthenticated = errors.New("not authenticated")

func respondFolderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errUnauthenticated):
		// currentUser has already answered
	case errors.Is(err, services.ErrFolderNotFound):
		apierrors.NotFound(c, "Folder not found")
	default:
		log.Printf("folder request failed: %v", err)
		apierrors.InternalError(c, "")
	}
}
