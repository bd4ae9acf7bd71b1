package database

import (
	"fmt"

	"gorm.io/gorm"
)

// ColumnListing returns the column names of the table backing model, in schema order
func ColumnListing(db *gorm.DB, model interface{}) ([]string, error) {
	columnTypes, err := db.Migrator().ColumnTypes(model)
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}

	columns := make([]string, 0, len(columnTypes))
	for _, ct := range columnTypes {
		columns = append(columns, ct.Name())
	}
	return columns, nil
}
