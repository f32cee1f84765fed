package bluesky

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/psyarxivbot/psyfeed/internal/logger"
)

// Client pages through one actor's author feed.
type Client struct {
	endpoint string
	actor    string
	pageSize int
	http     *http.Client
}

func NewClient(endpoint, actor string, pageSize int, timeout time.Duration) *Client {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 50
	}
	return &Client{
		endpoint: endpoint,
		actor:    actor,
		pageSize: pageSize,
		http:     &http.Client{Timeout: timeout},
	}
}

// FetchPosts walks the paginated feed, newest-first as the source returns
// it, until maxPosts records are collected, the server stops returning a
// continuation cursor, or a page comes back empty. A transport failure
// fails the whole walk; this is a batch job, the caller decides what a
// failed walk means.
func (c *Client) FetchPosts(ctx context.Context, maxPosts int) ([]Post, error) {
	var posts []Post
	cursor := ""

	for len(posts) < maxPosts {
		page, next, err := c.fetchPage(ctx, cursor)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		for _, item := range page {
			posts = append(posts, item.Post)
			if len(posts) >= maxPosts {
				break
			}
		}
		logger.Debug("fetched feed page", "page_posts", len(page), "total", len(posts))
		if next == "" {
			break
		}
		cursor = next
	}

	return posts, nil
}

func (c *Client) fetchPage(ctx context.Context, cursor string) ([]FeedItem, string, error) {
	params := url.Values{}
	params.Set("actor", c.actor)
	params.Set("limit", strconv.Itoa(c.pageSize))
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("feed request returned status %d", resp.StatusCode)
	}

	var decoded FeedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, "", fmt.Errorf("decoding feed response: %w", err)
	}
	return decoded.Feed, decoded.Cursor, nil
}
