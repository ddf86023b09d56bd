package entries

import (
	"errors"
	"time"

	"github.com/inkwell/weblog/pkg/weblog/models"
	"github.com/inkwell/weblog/pkg/weblog/render"
	"github.com/inkwell/weblog/pkg/weblog/tags"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateSlug is returned when another entry already uses the
// slug on the same publication date.
var ErrDuplicateSlug = errors.New("an entry with this slug already exists for this publication date")

// Repository persists entries. Saving renders the markup fields and
// rewrites tag and category associations inside one transaction, so
// the stored HTML and associations always match the row they belong
// to.
type Repository struct {
	db       *gorm.DB
	renderer render.Renderer
	tags     *tags.Store
}

// NewRepository creates an entry repository.
func NewRepository(db *gorm.DB, renderer render.Renderer, tagStore *tags.Store) *Repository {
	return &Repository{db: db, renderer: renderer, tags: tagStore}
}

// Save creates or updates an entry. Body and excerpt are re-rendered
// on every save. A nil tagNames leaves existing tags untouched; a
// non-nil slice replaces them completely.
func (r *Repository) Save(entry *models.Entry, tagNames []string) error {
	if entry.PubDate.IsZero() {
		entry.PubDate = time.Now()
	}
	// Stored in UTC so the day-window queries and the permalink date
	// agree regardless of the server's location.
	entry.PubDate = entry.PubDate.UTC()
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := validateSlug(tx, entry); err != nil {
			return err
		}

		entry.BodyHTML = r.renderer.Render(entry.Body)
		if entry.Excerpt != nil {
			html := r.renderer.Render(*entry.Excerpt)
			entry.ExcerptHTML = &html
		} else {
			entry.ExcerptHTML = nil
		}

		if err := tx.Omit(clause.Associations).Save(entry).Error; err != nil {
			return err
		}
		if entry.Categories != nil {
			if err := tx.Model(entry).Association("Categories").Replace(entry.Categories); err != nil {
				return err
			}
		}
		if tagNames != nil {
			if err := r.tags.SetTags(tx, models.ItemTypeEntry, entry.ID, tagNames); err != nil {
				return err
			}
		}
		return nil
	})
}

// validateSlug enforces slug uniqueness per calendar day of the
// publication date.
func validateSlug(tx *gorm.DB, entry *models.Entry) error {
	day := dayOf(entry.PubDate)
	query := tx.Model(&models.Entry{}).
		Where("slug = ? AND pub_date >= ? AND pub_date < ?", entry.Slug, day, day.AddDate(0, 0, 1))
	if entry.ID != 0 {
		query = query.Where("id != ?", entry.ID)
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

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ByID returns an entry with its categories preloaded.
func (r *Repository) ByID(id uint) (*models.Entry, error) {
	var entry models.Entry
	if err := r.db.Preload("Categories").First(&entry, id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// Live returns live entries, newest first.
func (r *Repository) Live() ([]models.Entry, error) {
	var entries []models.Entry
	err := r.db.Where("status = ?", models.StatusLive).Order("pub_date DESC").Find(&entries).Error
	return entries, err
}

// Drafts returns draft entries, newest first.
func (r *Repository) Drafts() ([]models.Entry, error) {
	var entries []models.Entry
	err := r.db.Where("status = ?", models.StatusDraft).Order("pub_date DESC").Find(&entries).Error
	return entries, err
}

// Featured returns live featured entries, newest first.
func (r *Repository) Featured() ([]models.Entry, error) {
	var entries []models.Entry
	err := r.db.Where("status = ? AND featured = ?", models.StatusLive, true).
		Order("pub_date DESC").Find(&entries).Error
	return entries, err
}

// ByCategory returns live entries belonging to the category with the
// given slug, newest first.
func (r *Repository) ByCategory(slug string) ([]models.Entry, error) {
	var entries []models.Entry
	err := r.db.
		Joins("JOIN entry_categories ON entry_categories.entry_id = entries.id").
		Joins("JOIN categories ON categories.id = entry_categories.category_id").
		Where("categories.slug = ? AND entries.status = ?", slug, models.StatusLive).
		Order("entries.pub_date DESC").
		Find(&entries).Error
	return entries, err
}

// LiveByDay returns the live entry published on the given day with
// the given slug.
func (r *Repository) LiveByDay(day time.Time, slug string) (*models.Entry, error) {
	var entry models.Entry
	err := r.db.Preload("Categories").
		Where("status = ? AND slug = ? AND pub_date >= ? AND pub_date < ?",
			models.StatusLive, slug, day, day.AddDate(0, 0, 1)).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// MostCommented returns the n entries with the highest public comment
// counts, in descending order. The count runs as a single aggregate
// query over the comment table.
func (r *Repository) MostCommented(n int) ([]models.Entry, error) {
	type row struct {
		TargetID uint
		Score    int64
	}
	var rows []row
	err := r.db.Model(&models.Comment{}).
		Select("target_id, COUNT(*) AS score").
		Where("target_type = ? AND is_public = ?", models.ItemTypeEntry, true).
		Group("target_id").
		Order("score DESC").
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]uint, len(rows))
	for i, rw := range rows {
		ids[i] = rw.TargetID
	}
	var found []models.Entry
	if err := r.db.Find(&found, ids).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Entry, len(found))
	for _, entry := range found {
		byID[entry.ID] = entry
	}

	// Re-order to match the ranking, dropping ids whose entry row is
	// gone.
	ordered := make([]models.Entry, 0, len(rows))
	for _, rw := range rows {
		if entry, ok := byID[rw.TargetID]; ok {
			ordered = append(ordered, entry)
		}
	}
	return ordered, nil
}

// NextLive returns the chronologically next live entry after the
// given one, skipping drafts and hidden entries. Returns nil when
// there is none.
func (r *Repository) NextLive(entry *models.Entry) (*models.Entry, error) {
	var next models.Entry
	err := r.db.Where("status = ? AND pub_date > ?", models.StatusLive, entry.PubDate).
		Order("pub_date ASC").First(&next).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &next, nil
}

// PreviousLive returns the chronologically previous live entry before
// the given one, skipping drafts and hidden entries. Returns nil when
// there is none.
func (r *Repository) PreviousLive(entry *models.Entry) (*models.Entry, error) {
	var prev models.Entry
	err := r.db.Where("status = ? AND pub_date < ?", models.StatusLive, entry.PubDate).
		Order("pub_date DESC").First(&prev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prev, nil
}

// TagNames returns the entry's tag names, ascending.
func (r *Repository) TagNames(id uint) ([]string, error) {
	entryTags, err := r.tags.GetTags(models.ItemTypeEntry, id)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entryTags))
	for i, tag := range entryTags {
		names[i] = tag.Name
	}
	return names, nil
}

// Delete removes an entry together with its tag associations and
// category links. Category rows themselves are untouched.
func (r *Repository) Delete(entry *models.Entry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(entry).Association("Categories").Clear(); err != nil {
			return err
		}
		if err := r.tags.RemoveAll(tx, models.ItemTypeEntry, entry.ID); err != nil {
			return err
		}
		return tx.Delete(entry).Error
	})
}
