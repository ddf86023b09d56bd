package bookmarking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPostSuccess(t *testing.T) {
	var gotURL, gotTags string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/posts/add" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "s3cret" {
			t.Errorf("Expected basic auth alice/s3cret, got %s/%s", user, pass)
		}
		gotURL = r.URL.Query().Get("url")
		gotTags = r.URL.Query().Get("tags")
		w.Write([]byte(`<result code="done" />`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "alice", "s3cret")
	err := client.Post(context.Background(), "https://example.com/", "Example", []string{"go", "web"})
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if gotURL != "https://example.com/" {
		t.Errorf("Expected url param, got %q", gotURL)
	}
	if gotTags != "go web" {
		t.Errorf("Expected space-joined tags, got %q", gotTags)
	}
}

func TestPostRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<result code="something went wrong" />`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "alice", "s3cret")
	if err := client.Post(context.Background(), "https://example.com/", "Example", nil); err == nil {
		t.Error("Expected error for non-done result code")
	}
}

func TestPostServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "alice", "s3cret")
	if err := client.Post(context.Background(), "https://example.com/", "Example", nil); err == nil {
		t.Error("Expected error for 500 response")
	}
}

func TestDisabledAlwaysSucceeds(t *testing.T) {
	if err := (Disabled{}).Post(context.Background(), "https://example.com/", "Example", nil); err != nil {
		t.Errorf("Disabled.Post returned error: %v", err)
	}
}
