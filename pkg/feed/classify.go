package feed

import (
	"strings"

	"github.com/obaranov/birdfeed/pkg/store"
)

// socialDomains are substrings identifying the social platform and its
// mirror front-ends. Matching is done on the feed URL, not the item link.
var socialDomains = []string{"twitter.com", "x.com", "nitter", "xcancel"}

// IsSocial reports whether the feed URL belongs to the social platform and
// should be routed through the authenticated scraping path. Pure string
// predicate, no network access.
func IsSocial(feedURL string) bool {
	lower := strings.ToLower(feedURL)
	for _, domain := range socialDomains {
		if strings.Contains(lower, domain) {
			return true
		}
	}
	return false
}

// TableFor maps a feed URL to its destination table
func TableFor(feedURL string) store.Table {
	if IsSocial(feedURL) {
		return store.TableTweets
	}
	return store.TableRSS
}
