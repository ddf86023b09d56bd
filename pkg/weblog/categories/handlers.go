package categories

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/weblog/pkg/weblog/models"
	"gorm.io/gorm"
)

// Handler handles category-related requests
type Handler struct {
	db   *gorm.DB
	repo *Repository
}

// NewHandler creates a new categories handler
func NewHandler(db *gorm.DB, repo *Repository) *Handler {
	return &Handler{db: db, repo: repo}
}

// CreateCategoryRequest represents the request to create a category
type CreateCategoryRequest struct {
	Title       string `json:"title" binding:"required,max=250"`
	Slug        string `json:"slug" binding:"required,max=50"`
	Description string `json:"description"`
}

// UpdateCategoryRequest represents the request to update a category
type UpdateCategoryRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=250"`
	Slug        *string `json:"slug" binding:"omitempty,max=50"`
	Description *string `json:"description"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	Description     string `json:"description"`
	DescriptionHTML string `json:"description_html"`
	LiveEntryCount  int64  `json:"live_entry_count"`
	PermalinkURL    string `json:"permalink_url"`
}

func (h *Handler) categoryToResponse(category *models.Category) CategoryResponse {
	count, _ := h.repo.LiveEntryCount(category.ID)
	return CategoryResponse{
		ID:              category.ID,
		Title:           category.Title,
		Slug:            category.Slug,
		Description:     category.Description,
		DescriptionHTML: category.DescriptionHTML,
		LiveEntryCount:  count,
		PermalinkURL:    category.AbsoluteURL(),
	}
}

// Create creates a new category
func (h *Handler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.Category{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	}
	if err := h.repo.Save(&category); err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, h.categoryToResponse(&category))
}

// List returns all categories ordered by title
func (h *Handler) List(c *gin.Context) {
	cats, err := h.repo.All()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	responses := make([]CategoryResponse, len(cats))
	for i := range cats {
		responses[i] = h.categoryToResponse(&cats[i])
	}
	c.JSON(http.StatusOK, responses)
}

func (h *Handler) categoryByParam(c *gin.Context) (*models.Category, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return nil, false
	}
	category, err := h.repo.ByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return nil, false
	}
	return category, true
}

// Get returns a single category by id
func (h *Handler) Get(c *gin.Context) {
	category, ok := h.categoryByParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.categoryToResponse(category))
}

// Update updates a category; the description is re-rendered on save
func (h *Handler) Update(c *gin.Context) {
	category, ok := h.categoryByParam(c)
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != nil {
		category.Title = *req.Title
	}
	if req.Slug != nil {
		category.Slug = *req.Slug
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := h.repo.Save(category); err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	c.JSON(http.StatusOK, h.categoryToResponse(category))
}

// Delete deletes a category without touching its entries
func (h *Handler) Delete(c *gin.Context) {
	category, ok := h.categoryByParam(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// RegisterRoutes registers category routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", h.List)
	rg.POST("/categories", h.Create)
	rg.GET("/categories/:id", h.Get)
	rg.PUT("/categories/:id", h.Update)
	rg.DELETE("/categories/:id", h.Delete)
}
