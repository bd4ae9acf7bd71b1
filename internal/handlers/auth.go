package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/folder-tasks/internal/constants"
	"github.com/yukikurage/folder-tasks/internal/dto"
	apierrors "github.com/yukikurage/folder-tasks/internal/errors"
	"github.com/yukikurage/folder-tasks/internal/middleware"
	"github.com/yukikurage/folder-tasks/internal/resource"
	"github.com/yukikurage/folder-tasks/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	useFormFieldNames()
	return &AuthHandler{
		authService: authService,
	}
}

type signupRequest struct {
	Username string `form:"username" json:"username" binding:"required,min=3,max=50"`
	Password string `form:"password" json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// LoginForm shows the login and signup forms.
func (h *AuthHandler) LoginForm(c *gin.Context) {
	view := dto.View{
		Resource: "auth",
		Title:    "Log in",
		Flash:    middleware.TakeFlash(c),
	}
	render(c, http.StatusOK, "auth/login", view)
}

// Signup registers a new user.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := bindRequest(c, &req); err != nil {
		if details := apierrors.FieldErrors(err); details != nil {
			apierrors.UnprocessableEntity(c, details)
			return
		}
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), services.SignupInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	if !wantsJSON(c) {
		redirectWithFlash(c, "/auth/login", "Account created. Please log in.")
		return
	}

	userDTO := dto.ToUserDTO(*user)
	c.JSON(http.StatusCreated, userDTO)
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := bindRequest(c, &req); err != nil {
		if details := apierrors.FieldErrors(err); details != nil {
			apierrors.UnprocessableEntity(c, details)
			return
		}
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	if !wantsJSON(c) {
		c.Redirect(http.StatusSeeOther, resource.Tasks.IndexPath())
		return
	}

	userDTO := dto.ToUserDTO(*user)
	c.JSON(http.StatusOK, userDTO)
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	if !wantsJSON(c) {
		c.Redirect(http.StatusSeeOther, "/auth/login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	userDTO := dto.ToUserDTO(*user)
	c.JSON(http.StatusOK, userDTO)
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUsernameRequired):
		apierrors.UnprocessableEntity(c, map[string]string{"username": "The username field is required."})
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.UnprocessableEntity(c, map[string]string{
			"password": fmt.Sprintf("The password field must be at least %d characters.", constants.MinPasswordLength),
		})
	case errors.Is(err, services.ErrPasswordTooLong):
		apierrors.UnprocessableEntity(c, map[string]string{
			"password": fmt.Sprintf("The password field must not be greater than %d bytes.", constants.MaxPasswordBytes),
		})
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword),
		errors.Is(err, services.ErrFailedToCreateUser):
		log.Printf("auth request failed: %v", err)
		apierrors.InternalError(c, err.Error())
	default:
		log.Printf("auth request failed: %v", err)
		apierrors.InternalError(c, "Internal server error")
	}
}
