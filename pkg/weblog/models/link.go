package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Link is a URL posted to the weblog.
//
// Denormalized in the same fashion as Entry, so the text-to-HTML
// conversion of the description runs at save time.
type Link struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Metadata
	PostedByID     uint      `gorm:"not null;index" json:"posted_by_id"`
	EnableComments bool      `gorm:"not null" json:"enable_comments"`
	PostElsewhere  bool      `gorm:"default:false" json:"post_elsewhere"`
	PubDate        time.Time `gorm:"not null;index;uniqueIndex:idx_links_slug_pub_date" json:"pub_date"`
	Slug           string    `gorm:"not null;uniqueIndex:idx_links_slug_pub_date" json:"slug"`
	Title          string    `gorm:"not null" json:"title"`

	// The actual link bits.
	URL             string  `gorm:"uniqueIndex;not null" json:"url"`
	Description     *string `gorm:"type:text" json:"description,omitempty"`
	DescriptionHTML *string `gorm:"type:text" json:"description_html,omitempty"`
	ViaName         *string `json:"via_name,omitempty"`
	ViaURL          *string `json:"via_url,omitempty"`

	// Relationships
	PostedBy User `gorm:"foreignKey:PostedByID" json:"posted_by,omitempty"`
}

// AbsoluteURL returns the canonical public path for the link,
// e.g. /weblog/links/2008/jun/09/some-bookmark/.
func (l *Link) AbsoluteURL() string {
	return fmt.Sprintf("/weblog/links/%s/%s/", strings.ToLower(l.PubDate.Format("2006/Jan/02")), l.Slug)
}
