package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/obaranov/birdfeed/pkg/domain"
	"github.com/obaranov/birdfeed/pkg/feed"
	"github.com/obaranov/birdfeed/pkg/store"
)

// tables or feeds with no row newer than this trigger a background refresh
const staleAfter = 10 * time.Minute

const (
	defaultLimit = 50
	maxLimit     = 200
)

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// tweetsHandler lists stored social items, newest first
func (s *Server) tweetsHandler(w http.ResponseWriter, r *http.Request) {
	s.listHandler(w, r, store.TableTweets)
}

// rssHandler lists stored plain feed items, newest first
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	s.listHandler(w, r, store.TableRSS)
}

// listHandler lists a single table and kicks off a background refresh of its
// feeds when the newest stored row is older than the staleness window
func (s *Server) listHandler(w http.ResponseWriter, r *http.Request, table store.Table) {
	limit, offset := pageParams(r)

	items, err := s.store.Items(r.Context(), table, limit, offset)
	if err != nil {
		log.Printf("[ERROR] failed to get %s items: %v", table, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	refreshing := s.stale(r.Context(), table, "")
	if refreshing {
		s.refresher.RefreshTable(table)
	}

	renderJSON(w, r, http.StatusOK, map[string]interface{}{"items": items, "refreshing": refreshing})
}

// mixHandler interleaves both tables into one list ordered by publication time
func (s *Server) mixHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	merged := make([]domain.Item, 0, 2*(limit+offset))
	for _, table := range store.Tables {
		items, err := s.store.Items(r.Context(), table, limit+offset, 0)
		if err != nil {
			log.Printf("[ERROR] failed to get %s items: %v", table, err)
			renderError(w, r, err, http.StatusInternalServerError)
			return
		}
		merged = append(merged, items...)
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].Published.After(merged[j].Published) })
	if offset < len(merged) {
		merged = merged[offset:]
	} else {
		merged = nil
	}
	if len(merged) > limit {
		merged = merged[:limit]
	}

	refreshing := false
	for _, table := range store.Tables {
		if s.stale(r.Context(), table, "") {
			refreshing = true
		}
	}
	if refreshing {
		for _, table := range store.Tables {
			s.refresher.RefreshTable(table)
		}
	}

	renderJSON(w, r, http.StatusOK, map[string]interface{}{"items": merged, "refreshing": refreshing})
}

// contentHandler lists items of a single feed and kicks off a background
// refresh when the newest stored item is older than the staleness window
func (s *Server) contentHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	feedURL := r.URL.Query().Get("feed_url")
	if feedURL == "" {
		renderError(w, r, fmt.Errorf("feed_url is required"), http.StatusBadRequest)
		return
	}

	table := feed.TableFor(feedURL)

	limit, offset := pageParams(r)
	items, err := s.store.ItemsByFeed(ctx, table, feedURL, limit, offset)
	if err != nil {
		log.Printf("[ERROR] failed to get items for %s: %v", feedURL, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	refreshing := s.stale(ctx, table, feedURL)
	if refreshing {
		s.refresher.RefreshFeed(feedURL)
	}

	renderJSON(w, r, http.StatusOK, map[string]interface{}{"items": items, "refreshing": refreshing})
}

// refreshAllHandler forces a background refresh of every configured feed
func (s *Server) refreshAllHandler(w http.ResponseWriter, r *http.Request) {
	started := false
	for _, table := range store.Tables {
		if s.refresher.RefreshTable(table) {
			started = true
		}
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"refreshing": started})
}

// stale reports whether the newest stored row is older than the staleness
// window. Empty feedURL checks the whole table. A storage error counts as
// stale.
func (s *Server) stale(ctx context.Context, table store.Table, feedURL string) bool {
	last, err := s.store.LastPublished(ctx, table, feedURL)
	if err != nil {
		log.Printf("[WARN] failed to check staleness of %s: %v", table, err)
		return true
	}
	return time.Since(last) > staleAfter
}

// statsHandler reports row counts and time ranges per table
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	out := map[string]interface{}{}
	for _, table := range store.Tables {
		st, err := s.store.TableStats(ctx, table)
		if err != nil {
			log.Printf("[ERROR] failed to get stats for %s: %v", table, err)
			renderError(w, r, err, http.StatusInternalServerError)
			return
		}
		out[string(table)] = st
	}

	renderJSON(w, r, http.StatusOK, out)
}

// pageParams extracts limit/offset query parameters with sane bounds
func pageParams(r *http.Request) (limit, offset int) {
	limit = defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
