package models

import (
	"time"

	"gorm.io/gorm"
)

// Category is a named grouping an Entry can belong to.
type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title           string `gorm:"not null" json:"title"`
	Slug            string `gorm:"uniqueIndex;not null" json:"slug"`
	Description     string `gorm:"type:text" json:"description"`
	DescriptionHTML string `gorm:"type:text" json:"description_html"`

	// Relationships
	Entries []Entry `gorm:"many2many:entry_categories;" json:"entries,omitempty"`
}

// AbsoluteURL returns the canonical public path for the category.
func (c *Category) AbsoluteURL() string {
	return "/weblog/categories/" + c.Slug + "/"
}
