package hn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://hacker-news.firebaseio.com/v0"

// ResponseCache is a read-through cache of response bodies keyed by request URL.
// Get reports whether the URL was present; Put stores a freshly fetched body.
type ResponseCache interface {
	Get(ctx context.Context, url string) ([]byte, bool, error)
	Put(ctx context.Context, url string, body []byte) error
}

// Client fetches items and user profiles from the Firebase HN API.
// Live responses pass through the cache; cache hits skip both the network
// and the courtesy delay.
type Client struct {
	http     *http.Client
	cache    ResponseCache
	baseURL  string
	throttle time.Duration
}

// NewClient returns a client backed by cache. cache may be nil, in which
// case every request goes to the network. throttle is the courtesy delay
// applied after each live request.
func NewClient(cache ResponseCache, throttle time.Duration) *Client {
	return &Client{
		http:     &http.Client{Timeout: 15 * time.Second},
		cache:    cache,
		baseURL:  DefaultBaseURL,
		throttle: throttle,
	}
}

// GetItem fetches a single item by ID. It returns (nil, nil) when the API
// has no record for the ID (deleted or never existed): the API answers
// with the JSON literal null, which decodes to a zero Item.
func (c *Client) GetItem(ctx context.Context, id int) (*Item, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/item/%d.json", c.baseURL, id))
	if err != nil {
		return nil, fmt.Errorf("fetch item %d: %w", id, err)
	}

	var item Item
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, fmt.Errorf("decode item %d: %w", id, err)
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

// GetUser fetches a user profile. The submitted list changes between runs,
// so the profile is always fetched live, never served from the cache.
// An unknown username returns (nil, nil).
func (c *Client) GetUser(ctx context.Context, username string) (*User, error) {
	body, err := c.fetch(ctx, fmt.Sprintf("%s/user/%s.json", c.baseURL, url.PathEscape(username)))
	if err != nil {
		return nil, fmt.Errorf("fetch user %q: %w", username, err)
	}
	c.pause(ctx)

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode user %q: %w", username, err)
	}
	if user.ID == "" {
		return nil, nil
	}
	return &user, nil
}

// get resolves a URL through the cache, falling back to a live fetch.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("cache lookup: %w", err)
		}
		if ok {
			slog.Debug("cache hit", "url", url)
			return body, nil
		}
	}

	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		if err := c.cache.Put(ctx, url, body); err != nil {
			return nil, fmt.Errorf("cache store: %w", err)
		}
	}
	c.pause(ctx)
	return body, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	slog.Info("GET", "url", url)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// pause applies the courtesy delay after a live request.
func (c *Client) pause(ctx context.Context) {
	if c.throttle <= 0 {
		return
	}
	t := time.NewTimer(c.throttle)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
