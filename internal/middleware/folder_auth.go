package middleware

import (
	"errors"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/folder-tasks/internal/constants"
	apierrors "github.com/yukikurage/folder-tasks/internal/errors"
	"github.com/yukikurage/folder-tasks/internal/models"
	"github.com/yukikurage/folder-tasks/internal/services"
)

// RequireFolderAccess loads the folder named by :id if the current user owns it
func RequireFolderAccess(folderService *services.FolderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		folderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.NotFound(c, "Folder not found")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		folder, err := folderService.GetOwnedFolder(c.Request.Context(), folderID, userID)
		if err != nil {
			if errors.Is(err, services.ErrFolderNotFound) {
				apierrors.NotFound(c, "Folder not found")
			} else {
				log.Printf("failed to load folder %d: %v", folderID, err)
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyFolder, folder)
		c.Next()
	}
}

// GetFolder returns the folder loaded by RequireFolderAccess
func GetFolder(c *gin.Context) (*models.Folder, bool) {
	v, exists := c.Get(constants.ContextKeyFolder)
	if !exists {
		return nil, false
	}
	folder, ok := v.(*models.Folder)
	return folder, ok
}
