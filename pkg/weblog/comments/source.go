package comments

import (
	"github.com/inkwell/weblog/pkg/weblog/models"
	"gorm.io/gorm"
)

// Source exposes the comment store to the rest of the weblog. The
// ranking query and the moderation surface depend on this interface
// rather than on comment storage directly.
type Source interface {
	CountPublic(targetType string, targetID uint) (int64, error)
}

// DBSource is the GORM-backed Source over the comments table.
type DBSource struct {
	db *gorm.DB
}

// NewDBSource creates a comment source over the given database.
func NewDBSource(db *gorm.DB) *DBSource {
	return &DBSource{db: db}
}

// CountPublic returns the number of public comments for a target.
func (s *DBSource) CountPublic(targetType string, targetID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Comment{}).
		Where("target_type = ? AND target_id = ? AND is_public = ?", targetType, targetID, true).
		Count(&count).Error
	return count, err
}
