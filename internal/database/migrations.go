package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns string
	unique  bool
}

// AddIndexes adds the indexes used by the task listing and ownership lookups
func AddIndexes(db *gorm.DB) error {
	indexes := []index{
		// Listing: owner, current folder, completion filter
		{table: "tasks", name: "idx_tasks_listing", columns: "user_id, folder_id, is_completed"},
		{table: "tasks", name: "idx_tasks_due_date", columns: "due_date"},
		{table: "tasks", name: "idx_tasks_folder_id", columns: "folder_id"},

		{table: "folders", name: "idx_folders_user_id", columns: "user_id"},
	}

	// Logins match usernames case-insensitively. MySQL's default collation
	// already enforces that on the plain unique index.
	if name := db.Dialector.Name(); name == "sqlite" || name == "postgres" {
		indexes = append(indexes, index{table: "users", name: "idx_users_username_lower", columns: "LOWER(username)", unique: true})
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		create := "CREATE INDEX"
		if idx.unique {
			create = "CREATE UNIQUE INDEX"
		}
		sql := fmt.Sprintf("%s %s ON %s (%s)", create, idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
