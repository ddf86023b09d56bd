package models

import (
	"time"

	"gorm.io/gorm"
)

// Tag is a free-text label that can be attached to entries and links.
type Tag struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"uniqueIndex;not null" json:"name"`
}

// TaggedItem associates a Tag with an entry or link. The association
// is keyed by (item type, item id) so both models share one tag store.
type TaggedItem struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	TagID    uint   `gorm:"not null;uniqueIndex:idx_tagged_items_tag_item" json:"tag_id"`
	ItemType string `gorm:"size:20;not null;uniqueIndex:idx_tagged_items_tag_item;index:idx_tagged_items_item" json:"item_type"`
	ItemID   uint   `gorm:"not null;uniqueIndex:idx_tagged_items_tag_item;index:idx_tagged_items_item" json:"item_id"`

	// Relationships
	Tag Tag `gorm:"foreignKey:TagID" json:"tag,omitempty"`
}
