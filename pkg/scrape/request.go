package scrape

import (
	"fmt"
	"net/url"
	"strings"
)

// Mode selects which retrieval call a request maps to
type Mode int

// retrieval modes, in precedence order
const (
	ModeTimeline Mode = iota
	ModeSearch
	ModeList
)

// Request is a parsed retrieval target
type Request struct {
	Mode   Mode
	URL    string
	Query  string // search mode
	ListID string // list mode
	Handle string // timeline mode
}

// ParseRequest classifies a target URL into one of the three retrieval
// modes. Precedence: search indicator with a query parameter, then a list
// path segment, then user timeline with the handle as the first path
// segment.
func ParseRequest(target string) (Request, error) {
	parsed, err := url.Parse(target)
	if err != nil {
		return Request{}, fmt.Errorf("parse target url: %w", err)
	}

	lower := strings.ToLower(target)
	if strings.Contains(lower, "search") && (strings.Contains(lower, "q=") || strings.Contains(lower, "query=")) {
		query := parsed.Query().Get("q")
		if query == "" {
			query = parsed.Query().Get("query")
		}
		if query == "" {
			// /search/<term> style
			parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
			if len(parts) > 1 && parts[0] == "search" {
				query = parts[1]
			}
		}
		if query == "" {
			return Request{}, fmt.Errorf("search url without query: %s", target)
		}
		return Request{Mode: ModeSearch, URL: target, Query: query}, nil
	}

	if idx := strings.Index(parsed.Path, "/lists/"); idx >= 0 {
		rest := parsed.Path[idx+len("/lists/"):]
		listID := strings.SplitN(rest, "/", 2)[0]
		if listID == "" {
			return Request{}, fmt.Errorf("list url without id: %s", target)
		}
		return Request{Mode: ModeList, URL: target, ListID: listID}, nil
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return Request{}, fmt.Errorf("no handle in url: %s", target)
	}
	return Request{Mode: ModeTimeline, URL: target, Handle: parts[0]}, nil
}
