package comments

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

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

func setupTestRouter(db *gorm.DB, policy Policy) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(db, policy).RegisterRoutes(r.Group("/weblog"))
	return r
}

func TestPolicyOpen(t *testing.T) {
	policy := Policy{CloseAfter: 30}
	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		enabled bool
		pubDate time.Time
		want    bool
	}{
		{"fresh entry", true, now.AddDate(0, 0, -1), true},
		{"boundary exactly", true, now.Add(-30 * 24 * time.Hour), true},
		{"just past boundary", true, now.Add(-30*24*time.Hour - time.Second), false},
		{"old entry", true, now.AddDate(0, 0, -60), false},
		{"comments disabled", false, now.AddDate(0, 0, -1), false},
	}
	for _, tt := range tests {
		if got := policy.Open(tt.enabled, tt.pubDate, now); got != tt.want {
			t.Errorf("%s: Open = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCountPublic(t *testing.T) {
	db := setupTestDB(t)

	for i := 0; i < 3; i++ {
		db.Create(&models.Comment{TargetType: models.ItemTypeEntry, TargetID: 1, AuthorName: "a", Body: "hi", IsPublic: true, PostedAt: time.Now()})
	}
	db.Create(&models.Comment{TargetType: models.ItemTypeEntry, TargetID: 1, AuthorName: "spam", Body: "buy", IsPublic: false, PostedAt: time.Now()})
	db.Create(&models.Comment{TargetType: models.ItemTypeLink, TargetID: 1, AuthorName: "b", Body: "hi", IsPublic: true, PostedAt: time.Now()})

	count, err := NewDBSource(db).CountPublic(models.ItemTypeEntry, 1)
	if err != nil {
		t.Fatalf("CountPublic failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 public comments, got %d", count)
	}
}

func createLiveEntry(t *testing.T, db *gorm.DB, pubDate time.Time, enableComments bool) models.Entry {
	user := models.User{Email: "author@example.com", PasswordHash: "hash", Name: "Author"}
	db.Where("email = ?", user.Email).FirstOrCreate(&user)
	entry := models.Entry{
		AuthorID:       user.ID,
		EnableComments: enableComments,
		PubDate:        pubDate,
		Slug:           "post-" + pubDate.Format("20060102150405"),
		Status:         models.StatusLive,
		Title:          "Post",
		Body:           "Body",
	}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("Failed to create entry: %v", err)
	}
	return entry
}

func TestCreateCommentOnFreshEntry(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db, Policy{CloseAfter: 30})
	entry := createLiveEntry(t, db, time.Now().AddDate(0, 0, -1), true)

	body, _ := json.Marshal(CreateCommentRequest{AuthorName: "Reader", Body: "Nice post"})
	req, _ := http.NewRequest("POST", "/weblog/comments/entry/"+itoa(entry.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var count int64
	db.Model(&models.Comment{}).Where("target_type = ? AND target_id = ?", models.ItemTypeEntry, entry.ID).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 stored comment, got %d", count)
	}
}

func TestCreateCommentClosedByAge(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db, Policy{CloseAfter: 30})
	entry := createLiveEntry(t, db, time.Now().AddDate(0, 0, -60), true)

	body, _ := json.Marshal(CreateCommentRequest{AuthorName: "Reader", Body: "Too late"})
	req, _ := http.NewRequest("POST", "/weblog/comments/entry/"+itoa(entry.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", resp.Code)
	}
}

func TestCreateCommentDisabled(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db, Policy{CloseAfter: 30})
	entry := createLiveEntry(t, db, time.Now(), false)

	body, _ := json.Marshal(CreateCommentRequest{AuthorName: "Reader", Body: "Hello"})
	req, _ := http.NewRequest("POST", "/weblog/comments/entry/"+itoa(entry.ID), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", resp.Code)
	}
}

func TestListOnlyPublicComments(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db, Policy{CloseAfter: 30})
	entry := createLiveEntry(t, db, time.Now(), true)

	db.Create(&models.Comment{TargetType: models.ItemTypeEntry, TargetID: entry.ID, AuthorName: "a", Body: "visible", IsPublic: true, PostedAt: time.Now()})
	db.Create(&models.Comment{TargetType: models.ItemTypeEntry, TargetID: entry.ID, AuthorName: "b", Body: "held", IsPublic: false, PostedAt: time.Now()})

	req, _ := http.NewRequest("GET", "/weblog/comments/entry/"+itoa(entry.ID), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}
	var comments []CommentResponse
	json.Unmarshal(resp.Body.Bytes(), &comments)
	if len(comments) != 1 || comments[0].Body != "visible" {
		t.Errorf("Expected only the public comment, got %+v", comments)
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
