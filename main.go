// Command hnlog downloads a Hacker News user's comments and submissions,
// including the surrounding thread context, and writes a browsable static
// HTML archive plus a JSON snapshot. Responses are cached in a SQLite file
// next to the output, so subsequent runs only fetch what changed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v3"

	"github.com/hnlog/hnlog/collect"
	"github.com/hnlog/hnlog/hn"
	"github.com/hnlog/hnlog/readability"
	"github.com/hnlog/hnlog/render"
	"github.com/hnlog/hnlog/store"
)

func main() {
	flagSet := flag.NewFlagSet("hnlog", flag.ExitOnError)

	var (
		username       string
		output         string
		expireAfter    string
		expireNewer    string
		throttle       time.Duration
		archiveArticle bool
		verbose        bool
		quiet          bool
	)
	flagSet.StringVar(&username, "username", "", "HN username to archive")
	flagSet.StringVar(&output, "output", "index.html", "Path to write the HTML archive to; the JSON snapshot and SQLite cache are written next to it")
	flagSet.StringVar(&expireAfter, "expire-after", "", "Drop cached responses older than this (e.g. 30d, 12h, 30m, or a bare day count)")
	flagSet.StringVar(&expireNewer, "expire-newerthan", "", "Drop cached responses newer than this (e.g. 14d; HN allows edits for 14 days)")
	flagSet.DurationVar(&throttle, "throttle", 500*time.Millisecond, "Courtesy delay after each live API request")
	flagSet.BoolVar(&archiveArticle, "articles", false, "Also capture reader-mode snapshots of linked story URLs")
	flagSet.BoolVar(&verbose, "v", false, "Verbose logging")
	flagSet.BoolVar(&quiet, "q", false, "Log errors only")

	if err := ff.Parse(flagSet, os.Args[1:], ff.WithEnvVars()); err != nil {
		slog.Error("failed to parse flags", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	} else if quiet {
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if username == "" {
		slog.Error("username must be set (via -username or env var USERNAME)")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	expireAfterD, err := parseExpiry(expireAfter)
	if err != nil {
		slog.Error("invalid -expire-after", "error", err)
		os.Exit(1)
	}
	expireNewerD, err := parseExpiry(expireNewer)
	if err != nil {
		slog.Error("invalid -expire-newerthan", "error", err)
		os.Exit(1)
	}

	// Response cache
	cache, err := store.Open(filepath.Join(filepath.Dir(output), "hnlog.db"))
	if err != nil {
		slog.Error("failed to open response cache", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	if expireAfterD > 0 {
		n, err := cache.RemoveOlderThan(ctx, time.Now().Add(-expireAfterD))
		if err != nil {
			slog.Error("cache expiry failed", "error", err)
			os.Exit(1)
		}
		slog.Info("expired old cache entries", "count", n)
	}
	if expireNewerD > 0 {
		n, err := cache.RemoveNewerThan(ctx, time.Now().Add(-expireNewerD))
		if err != nil {
			slog.Error("cache expiry failed", "error", err)
			os.Exit(1)
		}
		slog.Info("expired recent cache entries", "count", n)
	}

	// Prior-run snapshot
	jsonPath := output + ".json"
	var prior collect.Items
	if doc, err := collect.LoadDocument(jsonPath); err != nil {
		slog.Error("failed to read prior snapshot", "path", jsonPath, "error", err)
		os.Exit(1)
	} else if doc != nil {
		prior = doc.Items
		slog.Info("loaded prior snapshot", "path", jsonPath, "items", len(prior))
	}

	client := hn.NewClient(cache, throttle)
	collector := collect.New(client)

	slog.Info("archiving", "username", username, "output", output)
	items, roots, err := collector.Collect(ctx, username, prior)
	if err != nil {
		slog.Error("collection failed", "error", err)
		os.Exit(1)
	}

	doc := &collect.Document{Usernames: []string{username}, Items: items, Roots: roots}
	if err := doc.Save(jsonPath); err != nil {
		slog.Error("failed to write snapshot", "path", jsonPath, "error", err)
		os.Exit(1)
	}

	var articles map[int]*readability.Article
	if archiveArticle {
		urls := map[int]string{}
		for _, id := range roots {
			if item := items[id]; item != nil && item.URL != "" {
				urls[id] = item.URL
			}
		}
		slog.Info("capturing linked articles", "count", len(urls))
		articles = readability.ArchiveAll(ctx, urls, 4)
	}

	f, err := os.Create(output)
	if err != nil {
		slog.Error("failed to create output file", "path", output, "error", err)
		os.Exit(1)
	}
	page := &render.Page{Usernames: doc.Usernames, Items: items, Roots: roots, Articles: articles}
	if err := render.Render(f, page); err != nil {
		f.Close()
		slog.Error("render failed", "error", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		slog.Error("failed to write output file", "path", output, "error", err)
		os.Exit(1)
	}

	slog.Info("archive written", "html", output, "json", jsonPath, "items", len(items), "roots", len(roots))
}

// parseExpiry reads durations like "14d", "12h", "30m", or a bare integer
// day count. An empty string means no expiry.
func parseExpiry(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	if days, err := strconv.Atoi(s); err == nil {
		return time.Duration(days) * 24 * time.Hour, nil
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, fmt.Errorf("unparseable duration %q", s)
	}
	switch s[len(s)-1] {
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	}
	return 0, fmt.Errorf("unknown duration unit in %q", s)
}
