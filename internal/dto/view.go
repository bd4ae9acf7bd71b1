package dto

import "github.com/yukikurage/folder-tasks/internal/models"

// FlashTypeSuccess is the only flash type produced today
const FlashTypeSuccess = "success"

// Flash is a one-time message shown on the next rendered page
type Flash struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// SuccessFlash builds a success message
func SuccessFlash(content string) Flash {
	return Flash{Type: FlashTypeSuccess, Content: content}
}

// View is the data object every template receives
type View struct {
	Resource string            `json:"resource"`
	Title    string            `json:"title"`
	Primary  any               `json:"primary,omitempty"`
	Flash    *Flash            `json:"flash,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
	Old      map[string]string `json:"-"`
}

// UserDTO represents a user in responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}
