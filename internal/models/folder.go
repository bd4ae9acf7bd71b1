package models

import "time"

type Folder struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	UserID      uint64    `gorm:"not null" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	User  User   `gorm:"foreignKey:UserID" json:"-"`
	Tasks []Task `gorm:"foreignKey:FolderID" json:"tasks,omitempty"`
}

// BelongsTo reports whether the folder is owned by the given user
func (f *Folder) BelongsTo(userID uint64) bool {
	return f.UserID == userID
}
