package models

import "time"

// Preference is a single per-user setting such as "tasks.order.column".
// The key column is named pref_key because KEY is reserved in MySQL.
type Preference struct {
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	Key       string    `gorm:"primarykey;column:pref_key;type:varchar(191)" json:"key"`
	Value     string    `gorm:"type:varchar(255);not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
