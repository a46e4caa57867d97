// Package readability captures reader-mode snapshots of the pages that
// archived stories link to, so the archive keeps some context even after
// link rot sets in.
package readability

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	goreadability "github.com/go-shiori/go-readability"
	"golang.org/x/sync/errgroup"
)

const (
	fetchTimeout = 30 * time.Second
	maxBodySize  = 1 << 20 // 1 MiB
	userAgent    = "hnlog/1.0"
)

var httpClient = &http.Client{Timeout: fetchTimeout}

// Article holds extracted reader-mode content for a linked page.
type Article struct {
	Title   string `json:"title"`
	Byline  string `json:"byline,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
	Content string `json:"content,omitempty"`
}

// Extract fetches rawURL and extracts reader-mode content from it.
func Extract(ctx context.Context, rawURL string) (*Article, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("response exceeds %d bytes", maxBodySize)
	}

	article, err := goreadability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("readability extract: %w", err)
	}
	if article.Content == "" {
		return nil, fmt.Errorf("no content extracted")
	}

	return &Article{
		Title:   article.Title,
		Byline:  article.Byline,
		Excerpt: article.Excerpt,
		Content: article.Content,
	}, nil
}

// ArchiveAll extracts articles for the given story URLs, at most limit at a
// time. Extraction failures are logged and the story is left out of the
// result; a dead link should not sink the archive.
func ArchiveAll(ctx context.Context, urls map[int]string, limit int) map[int]*Article {
	if limit <= 0 {
		limit = 4
	}

	var mu sync.Mutex
	out := make(map[int]*Article, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for id, u := range urls {
		g.Go(func() error {
			article, err := Extract(ctx, u)
			if err != nil {
				slog.Warn("article extraction failed", "story_id", id, "url", u, "error", err)
				return nil
			}
			mu.Lock()
			out[id] = article
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return out
}
