package site

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/weblog/pkg/weblog/categories"
	"github.com/inkwell/weblog/pkg/weblog/comments"
	"github.com/inkwell/weblog/pkg/weblog/entries"
	"github.com/inkwell/weblog/pkg/weblog/links"
	"github.com/inkwell/weblog/pkg/weblog/models"
	"go.uber.org/zap"
)

// Handler serves the public weblog surface: the entry index, dated
// permalinks, the link log, and category archives. Only live content
// is visible here.
type Handler struct {
	entries    *entries.Repository
	links      *links.Repository
	categories *categories.Repository
	comments   comments.Source
	policy     comments.Policy
	log        *zap.Logger
}

// NewHandler creates the public site handler.
func NewHandler(entryRepo *entries.Repository, linkRepo *links.Repository, categoryRepo *categories.Repository, commentSource comments.Source, policy comments.Policy, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		entries:    entryRepo,
		links:      linkRepo,
		categories: categoryRepo,
		comments:   commentSource,
		policy:     policy,
		log:        log,
	}
}

// EntrySummary is the list form of a live entry.
type EntrySummary struct {
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	ExcerptHTML  *string  `json:"excerpt_html,omitempty"`
	BodyHTML     string   `json:"body_html"`
	PubDate      string   `json:"pub_date"`
	Featured     bool     `json:"featured"`
	Tags         []string `json:"tags"`
	CommentCount int64    `json:"comment_count"`
	PermalinkURL string   `json:"permalink_url"`
}

// EntryDetail is the permalink form of a live entry, with pointers to
// its live neighbors.
type EntryDetail struct {
	EntrySummary
	Categories   []CategoryRef `json:"categories"`
	CommentsOpen bool          `json:"comments_open"`
	NextURL      *string       `json:"next_url,omitempty"`
	PreviousURL  *string       `json:"previous_url,omitempty"`
}

// CategoryRef names a category an entry belongs to.
type CategoryRef struct {
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	PermalinkURL string `json:"permalink_url"`
}

// LinkView is the public form of a link.
type LinkView struct {
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	URL             string   `json:"url"`
	DescriptionHTML *string  `json:"description_html,omitempty"`
	ViaName         *string  `json:"via_name,omitempty"`
	ViaURL          *string  `json:"via_url,omitempty"`
	PubDate         string   `json:"pub_date"`
	Tags            []string `json:"tags"`
	CommentCount    int64    `json:"comment_count"`
	PermalinkURL    string   `json:"permalink_url"`
}

// CategoryView is the public form of a category archive.
type CategoryView struct {
	Title           string         `json:"title"`
	Slug            string         `json:"slug"`
	DescriptionHTML string         `json:"description_html"`
	PermalinkURL    string         `json:"permalink_url"`
	Entries         []EntrySummary `json:"entries,omitempty"`
}

func (h *Handler) entryToSummary(entry *models.Entry) EntrySummary {
	tagNames, err := h.entries.TagNames(entry.ID)
	if err != nil {
		h.log.Warn("loading entry tags failed", zap.Uint("entry_id", entry.ID), zap.Error(err))
	}
	if tagNames == nil {
		tagNames = []string{}
	}
	count, err := h.comments.CountPublic(models.ItemTypeEntry, entry.ID)
	if err != nil {
		h.log.Warn("counting entry comments failed", zap.Uint("entry_id", entry.ID), zap.Error(err))
	}
	return EntrySummary{
		Title:        entry.Title,
		Slug:         entry.Slug,
		ExcerptHTML:  entry.ExcerptHTML,
		BodyHTML:     entry.BodyHTML,
		PubDate:      entry.PubDate.UTC().Format(time.RFC3339),
		Featured:     entry.Featured,
		Tags:         tagNames,
		CommentCount: count,
		PermalinkURL: entry.AbsoluteURL(),
	}
}

func (h *Handler) linkToView(link *models.Link) LinkView {
	tagNames, err := h.links.TagNames(link.ID)
	if err != nil {
		h.log.Warn("loading link tags failed", zap.Uint("link_id", link.ID), zap.Error(err))
	}
	if tagNames == nil {
		tagNames = []string{}
	}
	count, err := h.comments.CountPublic(models.ItemTypeLink, link.ID)
	if err != nil {
		h.log.Warn("counting link comments failed", zap.Uint("link_id", link.ID), zap.Error(err))
	}
	return LinkView{
		Title:           link.Title,
		Slug:            link.Slug,
		URL:             link.URL,
		DescriptionHTML: link.DescriptionHTML,
		ViaName:         link.ViaName,
		ViaURL:          link.ViaURL,
		PubDate:         link.PubDate.UTC().Format(time.RFC3339),
		Tags:            tagNames,
		CommentCount:    count,
		PermalinkURL:    link.AbsoluteURL(),
	}
}

// Dispatch routes a public /weblog/ request by path shape. A single
// catch-all keeps the dated permalink segments from fighting gin's
// static routes.
func (h *Handler) Dispatch(c *gin.Context) {
	path := strings.Trim(c.Param("path"), "/")
	if path == "" {
		h.index(c)
		return
	}
	parts := strings.Split(path, "/")

	switch parts[0] {
	case "most-commented":
		if len(parts) == 1 {
			h.mostCommented(c)
			return
		}
	case "links":
		switch len(parts) {
		case 1:
			h.linkIndex(c)
			return
		case 5:
			h.linkDetail(c, parts[1], parts[2], parts[3], parts[4])
			return
		}
	case "categories":
		switch len(parts) {
		case 1:
			h.categoryIndex(c)
			return
		case 2:
			h.categoryDetail(c, parts[1])
			return
		}
	default:
		if len(parts) == 4 {
			h.entryDetail(c, parts[0], parts[1], parts[2], parts[3])
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
}

// parseDay turns year/month/day URL segments into the start of that
// day. Month names arrive lowercase ("jun"); time.Parse matches them
// case-insensitively.
func parseDay(year, month, day string) (time.Time, bool) {
	t, err := time.Parse("2006/Jan/2", year+"/"+month+"/"+day)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (h *Handler) index(c *gin.Context) {
	live, err := h.entries.Live()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch entries"})
		return
	}
	summaries := make([]EntrySummary, len(live))
	for i := range live {
		summaries[i] = h.entryToSummary(&live[i])
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *Handler) mostCommented(c *gin.Context) {
	limit := 5
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}
	top, err := h.entries.MostCommented(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch entries"})
		return
	}
	summaries := make([]EntrySummary, len(top))
	for i := range top {
		summaries[i] = h.entryToSummary(&top[i])
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *Handler) entryDetail(c *gin.Context, year, month, day, slug string) {
	date, ok := parseDay(year, month, day)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
		return
	}
	entry, err := h.entries.LiveByDay(date, slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	detail := EntryDetail{
		EntrySummary: h.entryToSummary(entry),
		Categories:   make([]CategoryRef, len(entry.Categories)),
		CommentsOpen: h.policy.Open(entry.EnableComments, entry.PubDate, time.Now()),
	}
	for i, cat := range entry.Categories {
		detail.Categories[i] = CategoryRef{Title: cat.Title, Slug: cat.Slug, PermalinkURL: cat.AbsoluteURL()}
	}
	if next, err := h.entries.NextLive(entry); err == nil && next != nil {
		url := next.AbsoluteURL()
		detail.NextURL = &url
	}
	if prev, err := h.entries.PreviousLive(entry); err == nil && prev != nil {
		url := prev.AbsoluteURL()
		detail.PreviousURL = &url
	}
	c.JSON(http.StatusOK, detail)
}

func (h *Handler) linkIndex(c *gin.Context) {
	all, err := h.links.All()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch links"})
		return
	}
	views := make([]LinkView, len(all))
	for i := range all {
		views[i] = h.linkToView(&all[i])
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) linkDetail(c *gin.Context, year, month, day, slug string) {
	date, ok := parseDay(year, month, day)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
		return
	}
	link, err := h.links.ByDay(date, slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		return
	}
	c.JSON(http.StatusOK, h.linkToView(link))
}

func (h *Handler) categoryIndex(c *gin.Context) {
	cats, err := h.categories.All()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	views := make([]CategoryView, len(cats))
	for i := range cats {
		views[i] = CategoryView{
			Title:           cats[i].Title,
			Slug:            cats[i].Slug,
			DescriptionHTML: cats[i].DescriptionHTML,
			PermalinkURL:    cats[i].AbsoluteURL(),
		}
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) categoryDetail(c *gin.Context, slug string) {
	category, err := h.categories.BySlug(slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	live, err := h.entries.ByCategory(slug)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch entries"})
		return
	}
	view := CategoryView{
		Title:           category.Title,
		Slug:            category.Slug,
		DescriptionHTML: category.DescriptionHTML,
		PermalinkURL:    category.AbsoluteURL(),
		Entries:         make([]EntrySummary, len(live)),
	}
	for i := range live {
		view.Entries[i] = h.entryToSummary(&live[i])
	}
	c.JSON(http.StatusOK, view)
}

// RegisterRoutes registers the public routes on the root router.
// This should be called AFTER all other routes to avoid conflicts.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/weblog/*path", h.Dispatch)
}
