package links

import (
	"context"
	"errors"
	"time"

	"github.com/inkwell/weblog/pkg/weblog/bookmarking"
	"github.com/inkwell/weblog/pkg/weblog/models"
	"github.com/inkwell/weblog/pkg/weblog/render"
	"github.com/inkwell/weblog/pkg/weblog/tags"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrDuplicateURL is returned when the URL is already bookmarked.
	ErrDuplicateURL = errors.New("a link with this URL already exists")
	// ErrDuplicateSlug is returned when another link already uses the
	// slug on the same publication date.
	ErrDuplicateSlug = errors.New("a link with this slug already exists for this publication date")
)

// Repository persists links. Saving renders the description and
// rewrites tag associations inside one transaction. On first creation
// a link flagged post_elsewhere is additionally cross-posted to the
// external bookmarking service; that post is best-effort and a
// failure never aborts the save.
type Repository struct {
	db        *gorm.DB
	renderer  render.Renderer
	tags      *tags.Store
	bookmarks bookmarking.Service
	log       *zap.Logger
}

// NewRepository creates a link repository.
func NewRepository(db *gorm.DB, renderer render.Renderer, tagStore *tags.Store, bookmarks bookmarking.Service, log *zap.Logger) *Repository {
	if bookmarks == nil {
		bookmarks = bookmarking.Disabled{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{db: db, renderer: renderer, tags: tagStore, bookmarks: bookmarks, log: log}
}

// Save creates or updates a link. A nil tagNames leaves existing tags
// untouched; a non-nil slice replaces them completely.
func (r *Repository) Save(ctx context.Context, link *models.Link, tagNames []string) error {
	isNew := link.ID == 0
	if link.PubDate.IsZero() {
		link.PubDate = time.Now()
	}
	// Stored in UTC so the day-window queries and the permalink date
	// agree regardless of the server's location.
	link.PubDate = link.PubDate.UTC()

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := validateURL(tx, link); err != nil {
			return err
		}
		if err := validateSlug(tx, link); err != nil {
			return err
		}

		if link.Description != nil {
			html := r.renderer.Render(*link.Description)
			link.DescriptionHTML = &html
		} else {
			link.DescriptionHTML = nil
		}

		if err := tx.Omit(clause.Associations).Save(link).Error; err != nil {
			return err
		}
		if tagNames != nil {
			if err := r.tags.SetTags(tx, models.ItemTypeLink, link.ID, tagNames); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if isNew && link.PostElsewhere {
		names := tagNames
		if names == nil {
			names, _ = r.TagNames(link.ID)
		}
		if err := r.bookmarks.Post(ctx, link.URL, link.Title, names); err != nil {
			// Deliberately swallowed: cross-posting is best-effort.
			r.log.Warn("bookmarking cross-post failed",
				zap.String("url", link.URL),
				zap.Error(err))
		}
	}
	return nil
}

func validateURL(tx *gorm.DB, link *models.Link) error {
	query := tx.Model(&models.Link{}).Where("url = ?", link.URL)
	if link.ID != 0 {
		query = query.Where("id != ?", link.ID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateURL
	}
	return nil
}

func validateSlug(tx *gorm.DB, link *models.Link) error {
	day := dayOf(link.PubDate)
	query := tx.Model(&models.Link{}).
		Where("slug = ? AND pub_date >= ? AND pub_date < ?", link.Slug, day, day.AddDate(0, 0, 1))
	if link.ID != 0 {
		query = query.Where("id != ?", link.ID)
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

// ByID returns a link by id.
func (r *Repository) ByID(id uint) (*models.Link, error) {
	var link models.Link
	if err := r.db.First(&link, id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// All returns all links, newest first.
func (r *Repository) All() ([]models.Link, error) {
	var links []models.Link
	err := r.db.Order("pub_date DESC").Find(&links).Error
	return links, err
}

// ByDay returns the link published on the given day with the given
// slug.
func (r *Repository) ByDay(day time.Time, slug string) (*models.Link, error) {
	var link models.Link
	err := r.db.Where("slug = ? AND pub_date >= ? AND pub_date < ?", slug, day, day.AddDate(0, 0, 1)).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// TagNames returns the link's tag names, ascending.
func (r *Repository) TagNames(id uint) ([]string, error) {
	linkTags, err := r.tags.GetTags(models.ItemTypeLink, id)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(linkTags))
	for i, tag := range linkTags {
		names[i] = tag.Name
	}
	return names, nil
}

// Delete removes a link together with its tag associations.
func (r *Repository) Delete(link *models.Link) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := r.tags.RemoveAll(tx, models.ItemTypeLink, link.ID); err != nil {
			return err
		}
		return tx.Delete(link).Error
	})
}
