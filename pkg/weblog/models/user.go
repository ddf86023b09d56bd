package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an author account. Entries and links reference their author
// through it.
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	IsAdmin      bool           `gorm:"default:false" json:"is_admin"`
}
