package categories

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/weblog/pkg/weblog/auth"
	"github.com/inkwell/weblog/pkg/weblog/models"
	"github.com/inkwell/weblog/pkg/weblog/render"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func setupRepo(t *testing.T) (*gorm.DB, *Repository) {
	db := setupTestDB(t)
	return db, NewRepository(db, render.Markdown{})
}

func TestSaveRendersDescription(t *testing.T) {
	_, repo := setupRepo(t)

	cat := models.Category{
		Title:       "Programming",
		Slug:        "programming",
		Description: "Posts about *code*",
	}
	if err := repo.Save(&cat); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if cat.DescriptionHTML != "<p>Posts about <em>code</em></p>" {
		t.Errorf("DescriptionHTML = %q", cat.DescriptionHTML)
	}
}

func TestSaveDuplicateSlug(t *testing.T) {
	_, repo := setupRepo(t)

	if err := repo.Save(&models.Category{Title: "One", Slug: "shared"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	err := repo.Save(&models.Category{Title: "Two", Slug: "shared"})
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Errorf("Expected ErrDuplicateSlug, got %v", err)
	}
}

func TestAllOrdersByTitle(t *testing.T) {
	_, repo := setupRepo(t)

	repo.Save(&models.Category{Title: "Zoology", Slug: "zoology"})
	repo.Save(&models.Category{Title: "Art", Slug: "art"})

	cats, err := repo.All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(cats) != 2 || cats[0].Title != "Art" || cats[1].Title != "Zoology" {
		t.Errorf("Expected title ordering, got %v", cats)
	}
}

func TestLiveEntryCount(t *testing.T) {
	db, repo := setupRepo(t)

	user := models.User{Email: "author@example.com", PasswordHash: "hash", Name: "Author"}
	db.Create(&user)

	cat := models.Category{Title: "Go", Slug: "go"}
	if err := repo.Save(&cat); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	live := models.Entry{AuthorID: user.ID, PubDate: time.Now(), Slug: "live", Status: models.StatusLive, Title: "Live", Body: "x", Categories: []models.Category{cat}}
	draft := models.Entry{AuthorID: user.ID, PubDate: time.Now(), Slug: "draft", Status: models.StatusDraft, Title: "Draft", Body: "x", Categories: []models.Category{cat}}
	db.Create(&live)
	db.Create(&draft)

	count, err := repo.LiveEntryCount(cat.ID)
	if err != nil {
		t.Fatalf("LiveEntryCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 live entry, got %d", count)
	}
}

func TestDeleteKeepsEntries(t *testing.T) {
	db, repo := setupRepo(t)

	user := models.User{Email: "author@example.com", PasswordHash: "hash", Name: "Author"}
	db.Create(&user)

	cat := models.Category{Title: "Doomed", Slug: "doomed"}
	repo.Save(&cat)

	entry := models.Entry{AuthorID: user.ID, PubDate: time.Now(), Slug: "survivor", Status: models.StatusLive, Title: "Survivor", Body: "x", Categories: []models.Category{cat}}
	db.Create(&entry)

	if err := repo.Delete(&cat); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var entryCount int64
	db.Model(&models.Entry{}).Count(&entryCount)
	if entryCount != 1 {
		t.Errorf("Expected entry to survive, got %d rows", entryCount)
	}

	var joinCount int64
	db.Table("entry_categories").Where("category_id = ?", cat.ID).Count(&joinCount)
	if joinCount != 0 {
		t.Errorf("Expected association rows removed, got %d", joinCount)
	}
}

func setupTestRouter(db *gorm.DB, repo *Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	api.Use(auth.AuthMiddleware())
	NewHandler(db, repo).RegisterRoutes(api)
	return r
}

func authHeader(t *testing.T, db *gorm.DB) string {
	user := models.User{Email: "admin@example.com", PasswordHash: "hash", Name: "Admin", IsAdmin: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	token, _ := auth.GenerateToken(user.ID, user.Email, user.IsAdmin)
	return "Bearer " + token
}

func TestCreateCategoryHandler(t *testing.T) {
	db, repo := setupRepo(t)
	router := setupTestRouter(db, repo)
	header := authHeader(t, db)

	body, _ := json.Marshal(CreateCategoryRequest{
		Title:       "Essays",
		Slug:        "essays",
		Description: "Longer **pieces**",
	})
	req, _ := http.NewRequest("POST", "/api/categories", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", header)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var response CategoryResponse
	json.Unmarshal(resp.Body.Bytes(), &response)
	if response.DescriptionHTML != "<p>Longer <strong>pieces</strong></p>" {
		t.Errorf("DescriptionHTML = %q", response.DescriptionHTML)
	}
	if response.PermalinkURL != "/weblog/categories/essays/" {
		t.Errorf("PermalinkURL = %q", response.PermalinkURL)
	}
}

func TestCreateCategoryHandlerDuplicateSlug(t *testing.T) {
	db, repo := setupRepo(t)
	router := setupTestRouter(db, repo)
	header := authHeader(t, db)

	repo.Save(&models.Category{Title: "Existing", Slug: "existing"})

	body, _ := json.Marshal(CreateCategoryRequest{Title: "Again", Slug: "existing"})
	req, _ := http.NewRequest("POST", "/api/categories", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", header)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d: %s", resp.Code, resp.Body.String())
	}
}
