package tags

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/weblog/pkg/weblog/models"
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

func tagNames(tags []models.Tag) []string {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	return names
}

func TestSetTagsReplacesExisting(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	if err := store.SetTags(db, models.ItemTypeEntry, 1, []string{"a", "b"}); err != nil {
		t.Fatalf("SetTags failed: %v", err)
	}
	if err := store.SetTags(db, models.ItemTypeEntry, 1, []string{"c"}); err != nil {
		t.Fatalf("SetTags failed: %v", err)
	}

	tags, err := store.GetTags(models.ItemTypeEntry, 1)
	if err != nil {
		t.Fatalf("GetTags failed: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "c" {
		t.Errorf("Expected exactly tag 'c', got %v", tagNames(tags))
	}
}

func TestSetTagsNormalizesNames(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	if err := store.SetTags(db, models.ItemTypeEntry, 1, []string{" Go ", "go", "", "Web"}); err != nil {
		t.Fatalf("SetTags failed: %v", err)
	}

	tags, _ := store.GetTags(models.ItemTypeEntry, 1)
	if len(tags) != 2 {
		t.Fatalf("Expected 2 tags, got %v", tagNames(tags))
	}
	if tags[0].Name != "go" || tags[1].Name != "web" {
		t.Errorf("Expected [go web], got %v", tagNames(tags))
	}
}

func TestTagsScopedByItemType(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	store.SetTags(db, models.ItemTypeEntry, 7, []string{"shared"})
	store.SetTags(db, models.ItemTypeLink, 7, []string{"shared", "links-only"})

	entryTags, _ := store.GetTags(models.ItemTypeEntry, 7)
	if len(entryTags) != 1 {
		t.Errorf("Expected 1 entry tag, got %v", tagNames(entryTags))
	}

	ids, err := store.ItemIDsWithTag(models.ItemTypeLink, "links-only")
	if err != nil {
		t.Fatalf("ItemIDsWithTag failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != 7 {
		t.Errorf("Expected [7], got %v", ids)
	}
}

func TestRemoveAll(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	store.SetTags(db, models.ItemTypeEntry, 3, []string{"a", "b"})
	if err := store.RemoveAll(db, models.ItemTypeEntry, 3); err != nil {
		t.Fatalf("RemoveAll failed: %v", err)
	}

	tags, _ := store.GetTags(models.ItemTypeEntry, 3)
	if len(tags) != 0 {
		t.Errorf("Expected no tags, got %v", tagNames(tags))
	}

	// Tag rows themselves survive.
	var count int64
	db.Model(&models.Tag{}).Count(&count)
	if count != 2 {
		t.Errorf("Expected 2 tag rows to remain, got %d", count)
	}
}

func TestListHandler(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	store.SetTags(db, models.ItemTypeEntry, 1, []string{"popular", "rare"})
	store.SetTags(db, models.ItemTypeEntry, 2, []string{"popular"})
	store.SetTags(db, models.ItemTypeLink, 1, []string{"popular"})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(db).RegisterRoutes(r.Group("/api"))

	req, _ := http.NewRequest("GET", "/api/tags", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var tags []TagResponse
	json.Unmarshal(resp.Body.Bytes(), &tags)
	if len(tags) != 2 {
		t.Fatalf("Expected 2 tags, got %d", len(tags))
	}
	if tags[0].Name != "popular" || tags[0].ItemCount != 3 {
		t.Errorf("Expected popular first with count 3, got %+v", tags[0])
	}
}
