package tags

import (
	"strings"

	"github.com/inkwell/weblog/pkg/weblog/models"
	"gorm.io/gorm"
)

// Store manages the tag associations shared by entries and links,
// keyed by (item type, item id).
type Store struct {
	db *gorm.DB
}

// NewStore creates a tag store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// SetTags replaces the complete tag set for an item. Callers must pass
// the transaction the owning row was saved in, and may only call this
// after the item has a durable id. Empty and duplicate names are
// dropped; names are matched case-insensitively by lowercasing.
func (s *Store) SetTags(tx *gorm.DB, itemType string, itemID uint, names []string) error {
	tagIDs := make([]uint, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		var tag models.Tag
		if err := tx.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
			return err
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	if err := tx.Where("item_type = ? AND item_id = ?", itemType, itemID).
		Delete(&models.TaggedItem{}).Error; err != nil {
		return err
	}

	for _, tagID := range tagIDs {
		item := models.TaggedItem{TagID: tagID, ItemType: itemType, ItemID: itemID}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetTags returns the tags attached to an item, name-ascending.
func (s *Store) GetTags(itemType string, itemID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.
		Joins("JOIN tagged_items ON tagged_items.tag_id = tags.id").
		Where("tagged_items.item_type = ? AND tagged_items.item_id = ?", itemType, itemID).
		Order("tags.name ASC").
		Find(&tags).Error
	return tags, err
}

// ItemIDsWithTag returns the ids of all items of the given type
// carrying the named tag.
func (s *Store) ItemIDsWithTag(itemType, name string) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.TaggedItem{}).
		Joins("JOIN tags ON tags.id = tagged_items.tag_id").
		Where("tags.name = ? AND tagged_items.item_type = ?", strings.ToLower(name), itemType).
		Pluck("tagged_items.item_id", &ids).Error
	return ids, err
}

// RemoveAll drops every tag association for an item. Used when the
// owning row is deleted.
func (s *Store) RemoveAll(tx *gorm.DB, itemType string, itemID uint) error {
	return tx.Where("item_type = ? AND item_id = ?", itemType, itemID).
		Delete(&models.TaggedItem{}).Error
}
