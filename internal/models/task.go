package models

import (
	"time"
)

type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Content     string     `gorm:"type:text" json:"content"`
	DueDate     *time.Time `gorm:"type:date" json:"due_date"`
	DueTime     *string    `gorm:"type:varchar(9)" json:"due_time"`
	IsCompleted bool       `gorm:"not null;default:false" json:"is_completed"`
	UserID      uint64     `gorm:"not null" json:"user_id"`
	FolderID    *uint64    `json:"folder_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	User   User    `gorm:"foreignKey:UserID" json:"-"`
	Folder *Folder `gorm:"foreignKey:FolderID" json:"folder,omitempty"`
}

// BelongsTo reports whether the task is owned by the given user
func (t *Task) BelongsTo(userID uint64) bool {
	return t.UserID == userID
}
