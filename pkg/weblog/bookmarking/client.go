// Package bookmarking cross-posts links to an external bookmarking
// service. Callers treat posts as best-effort: failures are reported
// but must never abort the save that triggered them.
package bookmarking

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Service posts a bookmark to an external service.
type Service interface {
	Post(ctx context.Context, link, title string, tags []string) error
}

// Client talks to a del.icio.us-compatible v1 API: a GET to
// /posts/add with basic auth, answered by a result element whose
// code attribute is "done" on success.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// NewClient creates a bookmarking client for the given API base URL.
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Post submits a bookmark. Tags are joined with spaces, per the v1
// API contract.
func (c *Client) Post(ctx context.Context, link, title string, tags []string) error {
	q := url.Values{}
	q.Set("url", link)
	q.Set("description", title)
	if len(tags) > 0 {
		q.Set("tags", strings.Join(tags, " "))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/posts/add?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bookmarking service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return err
	}
	if !strings.Contains(string(body), `code="done"`) {
		return fmt.Errorf("bookmarking service rejected post: %s", strings.TrimSpace(string(body)))
	}
	return nil
}

// Disabled is a no-op Service used when no credentials are
// configured.
type Disabled struct{}

func (Disabled) Post(ctx context.Context, link, title string, tags []string) error {
	return nil
}
