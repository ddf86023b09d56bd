package tags

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles tag-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new tags handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// TagResponse represents a tag in API responses
type TagResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	ItemCount int    `json:"item_count"`
}

// List returns all tags with usage counts, most-used first.
func (h *Handler) List(c *gin.Context) {
	type tagWithCount struct {
		ID        uint
		Name      string
		ItemCount int
	}

	var results []tagWithCount
	err := h.db.Table("tags").
		Select("tags.id, tags.name, COUNT(tagged_items.id) as item_count").
		Joins("INNER JOIN tagged_items ON tags.id = tagged_items.tag_id").
		Where("tags.deleted_at IS NULL").
		Group("tags.id").
		Order("item_count DESC").
		Find(&results).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tags"})
		return
	}

	tags := make([]TagResponse, len(results))
	for i, r := range results {
		tags[i] = TagResponse{ID: r.ID, Name: r.Name, ItemCount: r.ItemCount}
	}

	c.JSON(http.StatusOK, tags)
}

// RegisterRoutes registers tag routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tags", h.List)
}
