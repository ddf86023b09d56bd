package entries

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/weblog/pkg/weblog/auth"
	"github.com/inkwell/weblog/pkg/weblog/models"
	"gorm.io/gorm"
)

// Handler handles entry-related requests
type Handler struct {
	db   *gorm.DB
	repo *Repository
}

// NewHandler creates a new entries handler
func NewHandler(db *gorm.DB, repo *Repository) *Handler {
	return &Handler{db: db, repo: repo}
}

// CreateEntryRequest represents the request to create an entry
type CreateEntryRequest struct {
	Title          string     `json:"title" binding:"required"`
	Slug           string     `json:"slug" binding:"required,max=100"`
	Body           string     `json:"body" binding:"required"`
	Excerpt        *string    `json:"excerpt"`
	Status         int        `json:"status" binding:"omitempty,min=1,max=3"`
	PubDate        *time.Time `json:"pub_date"`
	EnableComments *bool      `json:"enable_comments"`
	Featured       bool       `json:"featured"`
	CategoryIDs    []uint     `json:"category_ids"`
	Tags           []string   `json:"tags"`
}

// UpdateEntryRequest represents the request to update an entry
type UpdateEntryRequest struct {
	Title          *string    `json:"title"`
	Slug           *string    `json:"slug" binding:"omitempty,max=100"`
	Body           *string    `json:"body"`
	Excerpt        *string    `json:"excerpt"`
	Status         *int       `json:"status" binding:"omitempty,min=1,max=3"`
	PubDate        *time.Time `json:"pub_date"`
	EnableComments *bool      `json:"enable_comments"`
	Featured       *bool      `json:"featured"`
	CategoryIDs    []uint     `json:"category_ids"`
	Tags           []string   `json:"tags"`
}

// EntryResponse represents an entry in API responses
type EntryResponse struct {
	ID             uint     `json:"id"`
	Title          string   `json:"title"`
	Slug           string   `json:"slug"`
	Status         int      `json:"status"`
	PubDate        string   `json:"pub_date"`
	EnableComments bool     `json:"enable_comments"`
	Featured       bool     `json:"featured"`
	Body           string   `json:"body"`
	BodyHTML       string   `json:"body_html"`
	Excerpt        *string  `json:"excerpt,omitempty"`
	ExcerptHTML    *string  `json:"excerpt_html,omitempty"`
	Categories     []string `json:"categories"`
	Tags           []string `json:"tags"`
	URL            string   `json:"url"`
}

func (h *Handler) entryToResponse(entry *models.Entry) EntryResponse {
	categories := make([]string, len(entry.Categories))
	for i, cat := range entry.Categories {
		categories[i] = cat.Slug
	}
	tagNames, _ := h.repo.TagNames(entry.ID)
	if tagNames == nil {
		tagNames = []string{}
	}
	return EntryResponse{
		ID:             entry.ID,
		Title:          entry.Title,
		Slug:           entry.Slug,
		Status:         int(entry.Status),
		PubDate:        entry.PubDate.UTC().Format(time.RFC3339),
		EnableComments: entry.EnableComments,
		Featured:       entry.Featured,
		Body:           entry.Body,
		BodyHTML:       entry.BodyHTML,
		Excerpt:        entry.Excerpt,
		ExcerptHTML:    entry.ExcerptHTML,
		Categories:     categories,
		Tags:           tagNames,
		URL:            entry.AbsoluteURL(),
	}
}

func (h *Handler) loadCategories(ids []uint) ([]models.Category, error) {
	if len(ids) == 0 {
		return []models.Category{}, nil
	}
	var categories []models.Category
	if err := h.db.Find(&categories, ids).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Create creates a new entry
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	categories, err := h.loadCategories(req.CategoryIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	entry := models.Entry{
		AuthorID:       userID,
		EnableComments: true,
		Featured:       req.Featured,
		Slug:           req.Slug,
		Status:         models.StatusLive,
		Title:          req.Title,
		Body:           req.Body,
		Excerpt:        req.Excerpt,
		Categories:     categories,
	}
	if req.Status != 0 {
		entry.Status = models.EntryStatus(req.Status)
	}
	if req.PubDate != nil {
		entry.PubDate = *req.PubDate
	}
	if req.EnableComments != nil {
		entry.EnableComments = *req.EnableComments
	}

	if err := h.repo.Save(&entry, req.Tags); err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create entry"})
		return
	}

	c.JSON(http.StatusCreated, h.entryToResponse(&entry))
}

// List returns entries filtered by status. Supports
// sort=most_commented and featured=true.
func (h *Handler) List(c *gin.Context) {
	if c.Query("sort") == "most_commented" {
		limit := 5
		if l := c.Query("limit"); l != "" {
			if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
				limit = parsed
			}
		}
		entries, err := h.repo.MostCommented(limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch entries"})
			return
		}
		h.respondList(c, entries)
		return
	}

	if c.Query("featured") == "true" {
		entries, err := h.repo.Featured()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch entries"})
			return
		}
		h.respondList(c, entries)
		return
	}

	var (
		entries []models.Entry
		err     error
	)
	switch c.DefaultQuery("status", "live") {
	case "live":
		entries, err = h.repo.Live()
	case "draft":
		entries, err = h.repo.Drafts()
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch entries"})
		return
	}
	h.respondList(c, entries)
}

func (h *Handler) respondList(c *gin.Context, entries []models.Entry) {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = h.entryToResponse(&entries[i])
	}
	c.JSON(http.StatusOK, responses)
}

func (h *Handler) entryByParam(c *gin.Context) (*models.Entry, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return nil, false
	}
	entry, err := h.repo.ByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return nil, false
	}
	return entry, true
}

// Get returns a single entry by id
func (h *Handler) Get(c *gin.Context) {
	entry, ok := h.entryByParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.entryToResponse(entry))
}

// Update updates an entry; markup fields are re-rendered on save
func (h *Handler) Update(c *gin.Context) {
	entry, ok := h.entryByParam(c)
	if !ok {
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != nil {
		entry.Title = *req.Title
	}
	if req.Slug != nil {
		entry.Slug = *req.Slug
	}
	if req.Body != nil {
		entry.Body = *req.Body
	}
	if req.Excerpt != nil {
		entry.Excerpt = req.Excerpt
	}
	if req.Status != nil {
		entry.Status = models.EntryStatus(*req.Status)
	}
	if req.PubDate != nil {
		entry.PubDate = *req.PubDate
	}
	if req.EnableComments != nil {
		entry.EnableComments = *req.EnableComments
	}
	if req.Featured != nil {
		entry.Featured = *req.Featured
	}
	if req.CategoryIDs != nil {
		categories, err := h.loadCategories(req.CategoryIDs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
		entry.Categories = categories
	}

	if err := h.repo.Save(entry, req.Tags); err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update entry"})
		return
	}

	c.JSON(http.StatusOK, h.entryToResponse(entry))
}

// Delete deletes an entry
func (h *Handler) Delete(c *gin.Context) {
	entry, ok := h.entryByParam(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete entry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}

// Next returns the next live entry by publication date
func (h *Handler) Next(c *gin.Context) {
	h.adjacent(c, h.repo.NextLive)
}

// Previous returns the previous live entry by publication date
func (h *Handler) Previous(c *gin.Context) {
	h.adjacent(c, h.repo.PreviousLive)
}

func (h *Handler) adjacent(c *gin.Context, fn func(*models.Entry) (*models.Entry, error)) {
	entry, ok := h.entryByParam(c)
	if !ok {
		return
	}
	neighbor, err := fn(entry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch entry"})
		return
	}
	if neighbor == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No adjacent live entry"})
		return
	}
	c.JSON(http.StatusOK, h.entryToResponse(neighbor))
}

// RegisterRoutes registers entry routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/entries", h.List)
	rg.POST("/entries", h.Create)
	rg.GET("/entries/:id", h.Get)
	rg.PUT("/entries/:id", h.Update)
	rg.DELETE("/entries/:id", h.Delete)
	rg.GET("/entries/:id/next", h.Next)
	rg.GET("/entries/:id/previous", h.Previous)
}
