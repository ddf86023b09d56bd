package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a reader comment on an entry or link, keyed generically
// by (target type, target id). Non-public comments are held for
// review and excluded from listings and ranking queries.
type Comment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	TargetType  string    `gorm:"size:20;not null;index:idx_comments_target" json:"target_type"`
	TargetID    uint      `gorm:"not null;index:idx_comments_target" json:"target_id"`
	AuthorName  string    `gorm:"not null" json:"author_name"`
	AuthorEmail *string   `json:"author_email,omitempty"`
	AuthorURL   *string   `json:"author_url,omitempty"`
	Body        string    `gorm:"type:text;not null" json:"body"`
	IsPublic    bool      `gorm:"not null;index" json:"is_public"`
	PostedAt    time.Time `gorm:"not null" json:"posted_at"`
}
