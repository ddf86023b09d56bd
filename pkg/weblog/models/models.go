package models

import "gorm.io/gorm"

// Item type discriminators for the shared tag store and the generic
// comment table. Stored in the item_type/target_type columns.
const (
	ItemTypeEntry = "entry"
	ItemTypeLink  = "link"
)

// AllModels returns all models for migration
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Entry{},
		&Link{},
		&Tag{},
		&TaggedItem{},
		&Comment{},
	}
}

// AutoMigrate runs GORM auto-migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
