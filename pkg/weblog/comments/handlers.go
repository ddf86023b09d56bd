package comments

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/weblog/pkg/weblog/models"
	"gorm.io/gorm"
)

// Handler handles comment posting and listing
type Handler struct {
	db     *gorm.DB
	policy Policy
}

// NewHandler creates a new comments handler
func NewHandler(db *gorm.DB, policy Policy) *Handler {
	return &Handler{db: db, policy: policy}
}

// CreateCommentRequest represents the request to post a comment
type CreateCommentRequest struct {
	AuthorName  string  `json:"author_name" binding:"required"`
	AuthorEmail *string `json:"author_email" binding:"omitempty,email"`
	AuthorURL   *string `json:"author_url" binding:"omitempty,url"`
	Body        string  `json:"body" binding:"required"`
}

// CommentResponse represents a comment in API responses
type CommentResponse struct {
	ID         uint   `json:"id"`
	AuthorName string `json:"author_name"`
	AuthorURL  string `json:"author_url,omitempty"`
	Body       string `json:"body"`
	PostedAt   string `json:"posted_at"`
}

func commentToResponse(comment models.Comment) CommentResponse {
	resp := CommentResponse{
		ID:         comment.ID,
		AuthorName: comment.AuthorName,
		Body:       comment.Body,
		PostedAt:   comment.PostedAt.UTC().Format(time.RFC3339),
	}
	if comment.AuthorURL != nil {
		resp.AuthorURL = *comment.AuthorURL
	}
	return resp
}

// targetInfo resolves the comment target and returns its commenting
// flags. Only live entries accept comments; links have no visibility
// states.
func (h *Handler) targetInfo(targetType string, targetID uint) (enable bool, pubDate time.Time, found bool) {
	switch targetType {
	case models.ItemTypeEntry:
		var entry models.Entry
		if err := h.db.First(&entry, targetID).Error; err != nil {
			return false, time.Time{}, false
		}
		return entry.EnableComments && entry.Status == models.StatusLive, entry.PubDate, true
	case models.ItemTypeLink:
		var link models.Link
		if err := h.db.First(&link, targetID).Error; err != nil {
			return false, time.Time{}, false
		}
		return link.EnableComments, link.PubDate, true
	default:
		return false, time.Time{}, false
	}
}

// Create posts a comment on an entry or link. Returns 403 when the
// moderation policy has closed commenting on the target.
func (h *Handler) Create(c *gin.Context) {
	targetType := c.Param("type")
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target ID"})
		return
	}

	enable, pubDate, found := h.targetInfo(targetType, uint(targetID))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Target not found"})
		return
	}
	if !h.policy.Open(enable, pubDate, time.Now()) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Comments are closed"})
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment := models.Comment{
		TargetType:  targetType,
		TargetID:    uint(targetID),
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		AuthorURL:   req.AuthorURL,
		Body:        req.Body,
		IsPublic:    true,
		PostedAt:    time.Now(),
	}
	if err := h.db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post comment"})
		return
	}

	c.JSON(http.StatusCreated, commentToResponse(comment))
}

// List returns the public comments for a target, oldest first.
func (h *Handler) List(c *gin.Context) {
	targetType := c.Param("type")
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target ID"})
		return
	}

	if _, _, found := h.targetInfo(targetType, uint(targetID)); !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Target not found"})
		return
	}

	var comments []models.Comment
	err = h.db.Where("target_type = ? AND target_id = ? AND is_public = ?", targetType, targetID, true).
		Order("posted_at ASC").
		Find(&comments).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	responses := make([]CommentResponse, len(comments))
	for i, comment := range comments {
		responses[i] = commentToResponse(comment)
	}
	c.JSON(http.StatusOK, responses)
}

// RegisterRoutes registers public comment routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/comments/:type/:id", h.List)
	rg.POST("/comments/:type/:id", h.Create)
}
