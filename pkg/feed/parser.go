package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/mmcdole/gofeed"

	"github.com/obaranov/birdfeed/pkg/domain"
)

// Parser fetches and parses RSS/Atom feeds
type Parser struct {
	client    *http.Client
	userAgent string
}

// NewParser creates a new feed parser with the given timeout and user-agent
func NewParser(timeout time.Duration, userAgent string) *Parser {
	return &Parser{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
	}
}

// Parse fetches and parses a feed from the given URL
func (p *Parser) Parse(ctx context.Context, url string) (*domain.ParsedFeed, error) {
	body, err := p.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	parser := gofeed.NewParser()
	parsed, err := parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	return convertFeed(parsed), nil
}

// ParseDocument parses an already-retrieved syndication document, as
// emitted by the scraping collaborator on stdout
func (p *Parser) ParseDocument(data []byte) (*domain.ParsedFeed, error) {
	parser := gofeed.NewParser()
	parsed, err := parser.Parse(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return convertFeed(parsed), nil
}

// fetch retrieves content from a URL, retrying transient failures
func (p *Parser) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	var body io.ReadCloser

	retrier := repeater.NewBackoff(3, 250*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("User-Agent", p.userAgent)
		addBrowserHeaders(req)

		resp, err := p.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetch URL: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		body = resp.Body
		return nil
	})
	if err != nil {
		return nil, err
	}

	return body, nil
}

// avatar images rendered into retweet and quote headers must not be picked
// up as the item's lead image
var (
	imgRe    = regexp.MustCompile(`<img[^>]+src="([^">]+)"[^>]*>`)
	avatarRe = regexp.MustCompile(`class="(?:rt|qt)-avatar"`)
)

// convertFeed maps a parsed gofeed feed onto the pipeline's own types
func convertFeed(parsed *gofeed.Feed) *domain.ParsedFeed {
	result := &domain.ParsedFeed{
		Title:       parsed.Title,
		Link:        parsed.Link,
		Description: parsed.Description,
		Items:       make([]domain.ParsedItem, 0, len(parsed.Items)),
	}

	for _, item := range parsed.Items {
		converted := domain.ParsedItem{
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
			Content:     item.Content,
		}

		// id is the native guid, falling back to a permalink
		if item.GUID != "" {
			converted.GUID = item.GUID
		} else {
			converted.GUID = item.Link
		}

		if item.Author != nil {
			converted.Author = item.Author.Name
		}

		// scraper extension tags land in the custom field map
		converted.AuthorName = item.Custom["author_name"]
		converted.AuthorAvatar = item.Custom["author_avatar"]
		if v, err := strconv.Atoi(item.Custom["favorite_count"]); err == nil {
			converted.FavoriteCount = v
		}
		if v, err := strconv.Atoi(item.Custom["retweet_count"]); err == nil {
			converted.RetweetCount = v
		}

		if item.PublishedParsed != nil {
			converted.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			converted.Published = *item.UpdatedParsed
		}

		converted.ImageURL = extractImage(item)
		result.Items = append(result.Items, converted)
	}

	return result
}

// extractImage finds the first usable media URL: an enclosure when present,
// otherwise the first inline image that is not a header avatar
func extractImage(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc.URL != "" && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}

	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	content := item.Content
	if content == "" {
		content = item.Description
	}
	for _, m := range imgRe.FindAllStringSubmatch(content, -1) {
		if !avatarRe.MatchString(m[0]) {
			return m[1]
		}
	}

	return ""
}
