// Package crawler runs the harvest cycle: it walks configured feed sources,
// collects items from plain feeds or from the social scraper, stores them
// idempotently and evicts entries older than the retention window.
package crawler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"

	"github.com/obaranov/birdfeed/pkg/config"
	"github.com/obaranov/birdfeed/pkg/domain"
	"github.com/obaranov/birdfeed/pkg/feed"
	"github.com/obaranov/birdfeed/pkg/store"
)

// Parser interface for feed parsing
type Parser interface {
	Parse(ctx context.Context, url string) (*domain.ParsedFeed, error)
	ParseDocument(data []byte) (*domain.ParsedFeed, error)
}

// Scraper interface for the social scraping collaborator
type Scraper interface {
	Fetch(ctx context.Context, target string) ([]byte, error)
}

// Storage interface for crawler persistence
type Storage interface {
	UpsertIgnore(ctx context.Context, table store.Table, item domain.Item) (bool, error)
	DeleteOlderThan(ctx context.Context, table store.Table, cutoff time.Time) (int64, error)
}

// bound for a single background refresh, covers a full scraper run
const backgroundTimeout = 2 * time.Minute

// Crawler walks feed sources sequentially and persists harvested items
type Crawler struct {
	parser   Parser
	scraper  Scraper
	store    Storage
	cfg      config.CrawlConfig
	sanitize *bluemonday.Policy

	mu     sync.Mutex
	active map[string]struct{} // refresh keys (feed URL or table) with a background refresh in flight
}

// New creates a crawler with the given collaborators
func New(parser Parser, scraper Scraper, storage Storage, cfg config.CrawlConfig) *Crawler {
	return &Crawler{
		parser:   parser,
		scraper:  scraper,
		store:    storage,
		cfg:      cfg,
		sanitize: bluemonday.UGCPolicy(),
		active:   make(map[string]struct{}),
	}
}

// Run executes one full crawl cycle: every source is refreshed in order with a
// polite delay between fetches, then expired rows are pruned. A feed that
// fails is logged and skipped, it never aborts the cycle.
func (c *Crawler) Run(ctx context.Context) error {
	feeds, err := config.LoadFeeds(c.cfg.FeedsFile)
	if err != nil {
		lgr.Printf("[WARN] can't load feeds from %s: %v", c.cfg.FeedsFile, err)
		feeds = nil
	}
	lgr.Printf("[INFO] crawl cycle started, %d feeds", len(feeds))

	for i, src := range feeds {
		if i > 0 && c.cfg.Delay > 0 {
			select {
			case <-time.After(c.cfg.Delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := c.refreshSource(ctx, src); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lgr.Printf("[WARN] feed %s (%s): %v", src.Name, src.URL, err)
		}
	}

	c.prune(ctx)
	lgr.Printf("[INFO] crawl cycle completed")
	return nil
}

// RefreshFeed refreshes a single feed in the background. Concurrent requests
// for the same URL collapse into one refresh. Returns true if a refresh was
// started, false if one was already running.
func (c *Crawler) RefreshFeed(feedURL string) bool {
	c.mu.Lock()
	if _, ok := c.active[feedURL]; ok {
		c.mu.Unlock()
		return false
	}
	c.active[feedURL] = struct{}{}
	c.mu.Unlock()

	go func() {
		defer func() {
			c.mu.Lock()
			delete(c.active, feedURL)
			c.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		src := c.findSource(feedURL)
		if err := c.refreshSource(ctx, src); err != nil {
			lgr.Printf("[WARN] background refresh of %s: %v", feedURL, err)
		}
	}()
	return true
}

// RefreshTable refreshes every configured feed routed to the given table in
// the background. Concurrent requests for the same table collapse into one
// refresh. Returns true if a refresh was started, false if one was already
// running.
func (c *Crawler) RefreshTable(table store.Table) bool {
	key := "table:" + string(table)
	c.mu.Lock()
	if _, ok := c.active[key]; ok {
		c.mu.Unlock()
		return false
	}
	c.active[key] = struct{}{}
	c.mu.Unlock()

	go func() {
		defer func() {
			c.mu.Lock()
			delete(c.active, key)
			c.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		feeds, err := config.LoadFeeds(c.cfg.FeedsFile)
		if err != nil {
			lgr.Printf("[WARN] can't load feeds from %s: %v", c.cfg.FeedsFile, err)
			return
		}
		for _, src := range feeds {
			if feed.TableFor(src.URL) != table {
				continue
			}
			if err := c.refreshSource(ctx, src); err != nil {
				lgr.Printf("[WARN] background refresh of %s: %v", src.URL, err)
			}
		}
	}()
	return true
}

// findSource resolves a feed URL to its configured source, falling back to a
// synthetic source named after the URL when the feeds file doesn't list it
func (c *Crawler) findSource(feedURL string) domain.FeedSource {
	feeds, err := config.LoadFeeds(c.cfg.FeedsFile)
	if err == nil {
		for _, src := range feeds {
			if src.URL == feedURL {
				return src
			}
		}
	}
	return domain.FeedSource{Name: feedURL, URL: feedURL}
}

func (c *Crawler) refreshSource(ctx context.Context, src domain.FeedSource) error {
	social := feed.IsSocial(src.URL)
	table := feed.TableFor(src.URL)

	var parsed *domain.ParsedFeed
	var err error
	if social {
		var data []byte
		if data, err = c.scraper.Fetch(ctx, src.URL); err != nil {
			return fmt.Errorf("scrape %s: %w", src.URL, err)
		}
		if parsed, err = c.parser.ParseDocument(data); err != nil {
			return fmt.Errorf("parse scraped document for %s: %w", src.URL, err)
		}
	} else {
		if parsed, err = c.parser.Parse(ctx, src.URL); err != nil {
			return fmt.Errorf("fetch %s: %w", src.URL, err)
		}
	}

	inserted := 0
	for _, pi := range parsed.Items {
		item := c.toItem(src, pi, social)
		if item.ID == "" {
			lgr.Printf("[WARN] feed %s: item %q has no guid or link, skipped", src.Name, pi.Title)
			continue
		}
		created, upErr := c.store.UpsertIgnore(ctx, table, item)
		if upErr != nil {
			lgr.Printf("[WARN] feed %s: can't store item %s: %v", src.Name, item.ID, upErr)
			continue
		}
		if created {
			inserted++
		}
	}

	lgr.Printf("[INFO] feed %s: %d new of %d items", src.Name, inserted, len(parsed.Items))
	return nil
}

// toItem converts a parsed entry to a stored item. Plain feed content is
// sanitized, social content is our own rendering and passes through as is.
func (c *Crawler) toItem(src domain.FeedSource, pi domain.ParsedItem, social bool) domain.Item {
	id := pi.GUID
	if id == "" {
		id = pi.Link
	}

	content := pi.Content
	if content == "" {
		content = pi.Description
	}
	if !social {
		content = c.sanitize.Sanitize(content)
	}

	author := pi.AuthorName
	if author == "" {
		author = pi.Author
	}
	if author == "" {
		author = src.Name
	}

	published := pi.Published
	if published.IsZero() {
		published = time.Now().UTC()
	}

	return domain.Item{
		ID:            id,
		FeedURL:       src.URL,
		FeedName:      src.Name,
		Title:         pi.Title,
		Content:       content,
		Author:        author,
		Link:          pi.Link,
		ImageURL:      pi.ImageURL,
		Published:     published,
		AuthorAvatar:  pi.AuthorAvatar,
		FavoriteCount: pi.FavoriteCount,
		RetweetCount:  pi.RetweetCount,
	}
}

func (c *Crawler) prune(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-c.cfg.Retention)
	for _, table := range store.Tables {
		n, err := c.store.DeleteOlderThan(ctx, table, cutoff)
		if err != nil {
			lgr.Printf("[WARN] can't prune %s: %v", table, err)
			continue
		}
		if n > 0 {
			lgr.Printf("[INFO] pruned %d rows from %s older than %s", n, table, cutoff.Format(time.RFC3339))
		}
	}
}
