package middleware

import (
	"encoding/json"
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/folder-tasks/internal/constants"
	"github.com/yukikurage/folder-tasks/internal/dto"
)

// SetFlash stores a message for the next rendered view
func SetFlash(c *gin.Context, flash dto.Flash) error {
	raw, err := json.Marshal(flash)
	if err != nil {
		return err
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyFlash, string(raw))
	return session.Save()
}

// TakeFlash returns the pending message, if any, and removes it from the session
func TakeFlash(c *gin.Context) *dto.Flash {
	session := sessions.Default(c)
	raw, ok := session.Get(constants.SessionKeyFlash).(string)
	if !ok {
		return nil
	}

	session.Delete(constants.SessionKeyFlash)
	if err := session.Save(); err != nil {
		log.Printf("failed to clear flash message: %v", err)
	}

	var flash dto.Flash
	if err := json.Unmarshal([]byte(raw), &flash); err != nil {
		return nil
	}
	return &flash
}
