package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// EntryStatus controls public visibility of an entry. Only live
// entries appear in public listings.
type EntryStatus int

const (
	StatusLive EntryStatus = iota + 1
	StatusDraft
	StatusHidden
)

// Entry is a weblog post.
//
// Slightly denormalized: the excerpt and the body each get a second
// column holding the HTML produced by the markup renderer, so the
// conversion runs once at save time instead of on every display.
// Entries can be grouped by categories, by tags, or not at all.
type Entry struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Metadata
	AuthorID       uint        `gorm:"not null;index" json:"author_id"`
	EnableComments bool        `gorm:"not null" json:"enable_comments"`
	Featured       bool        `gorm:"default:false" json:"featured"`
	PubDate        time.Time   `gorm:"not null;index;uniqueIndex:idx_entries_slug_pub_date" json:"pub_date"`
	Slug           string      `gorm:"not null;uniqueIndex:idx_entries_slug_pub_date" json:"slug"`
	Status         EntryStatus `gorm:"not null;default:1;index" json:"status"`
	Title          string      `gorm:"not null" json:"title"`

	// The actual entry bits.
	Body        string  `gorm:"type:text;not null" json:"body"`
	BodyHTML    string  `gorm:"type:text" json:"body_html"`
	Excerpt     *string `gorm:"type:text" json:"excerpt,omitempty"`
	ExcerptHTML *string `gorm:"type:text" json:"excerpt_html,omitempty"`

	// Relationships
	Author     User       `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Categories []Category `gorm:"many2many:entry_categories;" json:"categories,omitempty"`
}

// AbsoluteURL returns the canonical public path for the entry,
// e.g. /weblog/2008/jun/09/my-post/.
func (e *Entry) AbsoluteURL() string {
	return fmt.Sprintf("/weblog/%s/%s/", strings.ToLower(e.PubDate.Format("2006/Jan/02")), e.Slug)
}
