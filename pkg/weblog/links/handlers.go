package links

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

// Handler handles link-related requests
type Handler struct {
	db   *gorm.DB
	repo *Repository

	// Default for post_elsewhere when the request leaves it unset.
	defaultPostElsewhere bool
}

// NewHandler creates a new links handler
func NewHandler(db *gorm.DB, repo *Repository, defaultPostElsewhere bool) *Handler {
	return &Handler{db: db, repo: repo, defaultPostElsewhere: defaultPostElsewhere}
}

// CreateLinkRequest represents the request to create a link
type CreateLinkRequest struct {
	URL            string     `json:"url" binding:"required,url"`
	Title          string     `json:"title" binding:"required"`
	Slug           string     `json:"slug" binding:"required,max=50"`
	Description    *string    `json:"description"`
	ViaName        *string    `json:"via_name"`
	ViaURL         *string    `json:"via_url" binding:"omitempty,url"`
	PubDate        *time.Time `json:"pub_date"`
	EnableComments *bool      `json:"enable_comments"`
	PostElsewhere  *bool      `json:"post_elsewhere"`
	Tags           []string   `json:"tags"`
}

// UpdateLinkRequest represents the request to update a link
type UpdateLinkRequest struct {
	URL            *string    `json:"url" binding:"omitempty,url"`
	Title          *string    `json:"title"`
	Slug           *string    `json:"slug" binding:"omitempty,max=50"`
	Description    *string    `json:"description"`
	ViaName        *string    `json:"via_name"`
	ViaURL         *string    `json:"via_url" binding:"omitempty,url"`
	PubDate        *time.Time `json:"pub_date"`
	EnableComments *bool      `json:"enable_comments"`
	Tags           []string   `json:"tags"`
}

// LinkResponse represents a link in API responses
type LinkResponse struct {
	ID              uint     `json:"id"`
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	Description     *string  `json:"description,omitempty"`
	DescriptionHTML *string  `json:"description_html,omitempty"`
	ViaName         *string  `json:"via_name,omitempty"`
	ViaURL          *string  `json:"via_url,omitempty"`
	PubDate         string   `json:"pub_date"`
	EnableComments  bool     `json:"enable_comments"`
	PostElsewhere   bool     `json:"post_elsewhere"`
	Tags            []string `json:"tags"`
	PermalinkURL    string   `json:"permalink_url"`
}

func (h *Handler) linkToResponse(link *models.Link) LinkResponse {
	tagNames, _ := h.repo.TagNames(link.ID)
	if tagNames == nil {
		tagNames = []string{}
	}
	return LinkResponse{
		ID:              link.ID,
		URL:             link.URL,
		Title:           link.Title,
		Slug:            link.Slug,
		Description:     link.Description,
		DescriptionHTML: link.DescriptionHTML,
		ViaName:         link.ViaName,
		ViaURL:          link.ViaURL,
		PubDate:         link.PubDate.UTC().Format(time.RFC3339),
		EnableComments:  link.EnableComments,
		PostElsewhere:   link.PostElsewhere,
		Tags:            tagNames,
		PermalinkURL:    link.AbsoluteURL(),
	}
}

// Create creates a new link, cross-posting it when post_elsewhere is
// set
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link := models.Link{
		PostedByID:     userID,
		EnableComments: true,
		PostElsewhere:  h.defaultPostElsewhere,
		Slug:           req.Slug,
		Title:          req.Title,
		URL:            req.URL,
		Description:    req.Description,
		ViaName:        req.ViaName,
		ViaURL:         req.ViaURL,
	}
	if req.PubDate != nil {
		link.PubDate = *req.PubDate
	}
	if req.EnableComments != nil {
		link.EnableComments = *req.EnableComments
	}
	if req.PostElsewhere != nil {
		link.PostElsewhere = *req.PostElsewhere
	}

	if err := h.repo.Save(c.Request.Context(), &link, req.Tags); err != nil {
		if errors.Is(err, ErrDuplicateURL) || errors.Is(err, ErrDuplicateSlug) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create link"})
		return
	}

	c.JSON(http.StatusCreated, h.linkToResponse(&link))
}

// List returns all links, newest first
func (h *Handler) List(c *gin.Context) {
	links, err := h.repo.All()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch links"})
		return
	}
	responses := make([]LinkResponse, len(links))
	for i := range links {
		responses[i] = h.linkToResponse(&links[i])
	}
	c.JSON(http.StatusOK, responses)
}

func (h *Handler) linkByParam(c *gin.Context) (*models.Link, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid link ID"})
		return nil, false
	}
	link, err := h.repo.ByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return nil, false
	}
	return link, true
}

// Get returns a single link by id
func (h *Handler) Get(c *gin.Context) {
	link, ok := h.linkByParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.linkToResponse(link))
}

// Update updates a link; the description is re-rendered on save.
// Cross-posting never happens on update.
func (h *Handler) Update(c *gin.Context) {
	link, ok := h.linkByParam(c)
	if !ok {
		return
	}

	var req UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.URL != nil {
		link.URL = *req.URL
	}
	if req.Title != nil {
		link.Title = *req.Title
	}
	if req.Slug != nil {
		link.Slug = *req.Slug
	}
	if req.Description != nil {
		link.Description = req.Description
	}
	if req.ViaName != nil {
		link.ViaName = req.ViaName
	}
	if req.ViaURL != nil {
		link.ViaURL = req.ViaURL
	}
	if req.PubDate != nil {
		link.PubDate = *req.PubDate
	}
	if req.EnableComments != nil {
		link.EnableComments = *req.EnableComments
	}

	if err := h.repo.Save(c.Request.Context(), link, req.Tags); err != nil {
		if errors.Is(err, ErrDuplicateURL) || errors.Is(err, ErrDuplicateSlug) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update link"})
		return
	}

	c.JSON(http.StatusOK, h.linkToResponse(link))
}

// Delete deletes a link
func (h *Handler) Delete(c *gin.Context) {
	link, ok := h.linkByParam(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(link); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete link"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Link deleted"})
}

// RegisterRoutes registers link routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/links", h.List)
	rg.POST("/links", h.Create)
	rg.GET("/links/:id", h.Get)
	rg.PUT("/links/:id", h.Update)
	rg.DELETE("/links/:id", h.Delete)
}
