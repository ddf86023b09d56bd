package categories

import (
	"errors"

	"github.com/inkwell/weblog/pkg/weblog/models"
	"github.com/inkwell/weblog/pkg/weblog/render"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateSlug is returned when another category already uses the slug.
var ErrDuplicateSlug = errors.New("a category with this slug already exists")

// Repository persists categories. Saving renders the description so
// reads never touch the markup pipeline.
type Repository struct {
	db       *gorm.DB
	renderer render.Renderer
}

// NewRepository creates a category repository.
func NewRepository(db *gorm.DB, renderer render.Renderer) *Repository {
	return &Repository{db: db, renderer: renderer}
}

// Save creates or updates a category, rendering its description.
func (r *Repository) Save(category *models.Category) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := validateSlug(tx, category); err != nil {
			return err
		}
		category.DescriptionHTML = r.renderer.Render(category.Description)
		return tx.Omit(clause.Associations).Save(category).Error
	})
}

func validateSlug(tx *gorm.DB, category *models.Category) error {
	query := tx.Model(&models.Category{}).Where("slug = ?", category.Slug)
	if category.ID != 0 {
		query = query.Where("id != ?", category.ID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateSlug
	}
	return nil
}

// ByID returns a category by id.
func (r *Repository) ByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// BySlug returns a category by slug.
func (r *Repository) BySlug(slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// All returns all categories ordered by title.
func (r *Repository) All() ([]models.Category, error) {
	var cats []models.Category
	err := r.db.Order("title ASC").Find(&cats).Error
	return cats, err
}

// LiveEntryCount returns the number of live entries in the category.
func (r *Repository) LiveEntryCount(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Entry{}).
		Joins("JOIN entry_categories ON entry_categories.entry_id = entries.id").
		Where("entry_categories.category_id = ? AND entries.status = ?", id, models.StatusLive).
		Count(&count).Error
	return count, err
}

// Delete removes a category. Entries keep existing; only the
// association rows go away.
func (r *Repository) Delete(category *models.Category) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(category).Association("Entries").Clear(); err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
}
