package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Folders     []Folder     `gorm:"foreignKey:UserID" json:"-"`
	Tasks       []Task       `gorm:"foreignKey:UserID" json:"-"`
	Preferences []Preference `gorm:"foreignKey:UserID" json:"-"`
}
