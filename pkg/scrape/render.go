package scrape

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/obaranov/birdfeed/pkg/feed"
)

// frontBase is the mirror front-end used for canonical post links, so the
// rendered documents stay reachable without an account
const frontBase = "https://xcancel.com"

// RenderDocument maps a batch of scraped posts into a complete syndication
// document. A failure on one post skips that post only; a summary of
// processed vs total is logged after the batch.
func RenderDocument(meta feed.ChannelMeta, posts []*Post) (string, error) {
	entries := make([]feed.Entry, 0, len(posts))
	for i, p := range posts {
		entry, err := renderSafe(p)
		if err != nil {
			lgr.Printf("[WARN] skipping post #%d: %v", i, err)
			continue
		}
		entries = append(entries, entry)
	}

	lgr.Printf("[INFO] processed %d/%d posts", len(entries), len(posts))
	return feed.RenderDocument(meta, entries)
}

// renderSafe converts panics on malformed posts into per-post errors
func renderSafe(p *Post) (entry feed.Entry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render post: %v", r)
		}
	}()
	return RenderEntry(p)
}

// RenderEntry converts one scraped post into a syndication entry. For a
// retweet wrapper the wrapped post supplies text, media and quote, with a
// header block naming the retweeted author prepended to the output.
func RenderEntry(p *Post) (feed.Entry, error) {
	if p == nil {
		return feed.Entry{}, fmt.Errorf("nil post")
	}

	effective := p
	rtHeader := ""
	if p.Retweeted != nil {
		if p.Retweeted.User == nil {
			return feed.Entry{}, fmt.Errorf("retweet %s without user", p.ID)
		}
		effective = p.Retweeted
		rtHeader = renderRetweetHeader(effective.User)
	}

	// author metadata always comes from the outer post
	displayName, screenName, avatarURL := resolveUser(p.User)

	text := effective.Text
	mediaHTML := renderMedia(effective.Media, screenName, effective.ID, false)

	quoteHTML := ""
	if effective.Quoted != nil {
		quoteHTML = renderQuote(effective.Quoted)
	}

	desc := rtHeader + text + mediaHTML + quoteHTML
	desc = strings.ReplaceAll(desc, "\n", "<br>")

	link := postURL(screenName, p.ID)
	published := p.CreatedAt
	if published.IsZero() {
		published = time.Now()
	}

	return feed.Entry{
		Title:         "@" + screenName,
		AuthorName:    displayName,
		AuthorAvatar:  avatarURL,
		Link:          link,
		GUID:          link,
		FavoriteCount: p.FavoriteCount,
		RetweetCount:  p.RetweetCount,
		Description:   feed.CDATA{Text: desc},
		PubDate:       published.Format(time.RFC1123Z),
	}, nil
}

// resolveUser returns display name, handle and avatar with placeholder
// fallbacks when the source post lacks attribution
func resolveUser(u *User) (name, screen, avatar string) {
	if u == nil {
		return "Unknown", "unknown", ""
	}
	return u.Name, u.ScreenName, fullAvatar(u.AvatarURL)
}

// fullAvatar upgrades the thumbnail-sized avatar the API hands out
func fullAvatar(url string) string {
	return strings.Replace(url, "_normal", "_400x400", 1)
}

func postURL(screen, id string) string {
	return fmt.Sprintf("%s/%s/status/%s", frontBase, screen, id)
}

func renderRetweetHeader(u *User) string {
	name := html.EscapeString(u.Name)
	return fmt.Sprintf(`<div class="rt-header" style="display: flex; align-items: center; gap: 10px; margin-bottom: 12px;">`+
		`<a href="%s/%s" target="_blank" onclick="event.stopPropagation();" style="text-decoration: none; color: inherit; display: flex; align-items: center; gap: 10px;">`+
		`<img src="%s" class="rt-avatar" style="width: 36px; height: 36px; border-radius: 50%%; object-fit: cover;" />`+
		`<div style="font-size: 1em; line-height: 1.2;"><strong>%s</strong> <span style="color: #888;">@%s</span></div>`+
		`</a></div>`,
		frontBase, u.ScreenName, fullAvatar(u.AvatarURL), name, u.ScreenName)
}

// renderMedia emits HTML for every attachment. Photos become inline
// images; videos use the highest-bitrate MP4 variant with a poster, or
// fall back to a thumbnail with a play overlay linking to the canonical
// post when no MP4 variant exists. The small flag shrinks the overlay for
// quote blocks.
func renderMedia(media []Media, screen, postID string, small bool) string {
	var b strings.Builder
	for _, m := range media {
		switch m.Type {
		case "photo":
			fmt.Fprintf(&b, `<br><img src="%s" style="max-width: 100%%; border-radius: 8px; margin-top: 5px;" />`, m.URL)
		case "video":
			if best := bestMP4(m); best != nil {
				fmt.Fprintf(&b, `<br><div style="position: relative; margin-top: 5px;">`+
					`<video controls poster="%s" style="max-width: 100%%; width: 100%%; border-radius: 8px; background-color: #000;" preload="metadata" onclick="event.stopPropagation()">`+
					`<source src="%s" type="video/mp4">`+
					`Your browser does not support the video tag.`+
					`</video></div>`, m.URL, best.URL)
				continue
			}
			pad, arrow := 15, 10
			if small {
				pad, arrow = 10, 6
			}
			fmt.Fprintf(&b, `<br><a href="%s" target="_blank" onclick="event.stopPropagation()" style="display: block; position: relative;">`+
				`<img src="%s" style="max-width: 100%%; border-radius: 8px; margin-top: 5px;" />`+
				`<div style="position: absolute; top: 50%%; left: 50%%; transform: translate(-50%%, -50%%); background: rgba(0,0,0,0.6); padding: %dpx; border-radius: 50%%;">`+
				`<div style="width: 0; height: 0; border-top: %dpx solid transparent; border-bottom: %dpx solid transparent; border-left: %dpx solid white;"></div>`+
				`</div></a>`,
				postURL(screen, postID), m.URL, pad, arrow, arrow, arrow*2)
		}
	}
	return b.String()
}

// bestMP4 picks the highest-bitrate MP4 variant, nil when none exists
func bestMP4(m Media) *VideoVariant {
	var best *VideoVariant
	for i := range m.Variants {
		v := &m.Variants[i]
		if v.ContentType != "video/mp4" {
			continue
		}
		if best == nil || v.Bitrate > best.Bitrate {
			best = v
		}
	}
	return best
}

// renderQuote renders a quoted post as a nested block with its own header,
// text and media. Quotes are not followed transitively.
func renderQuote(q *Post) string {
	name, screen, avatar := resolveUser(q.User)
	mediaHTML := renderMedia(q.Media, screen, q.ID, true)

	return fmt.Sprintf(`<div class="quoted-tweet" style="position: relative; border: none; border-radius: 0; padding: 0 0 0 12px; margin-top: 12px; background: none; border-left: 2px solid #333;">`+
		`<a href="%s" target="_blank" onclick="event.stopPropagation()" style="text-decoration: none; position: absolute; top: 0; left: 0; width: 100%%; height: 100%%; z-index: 1;"></a>`+
		`<div style="position: relative; z-index: 2; margin-bottom: 10px; pointer-events: none;">`+
		`<a href="%s/%s" target="_blank" onclick="event.stopPropagation()" style="text-decoration: none; color: inherit; display: inline-flex; align-items: center; gap: 10px; pointer-events: auto;">`+
		`<img src="%s" class="qt-avatar" style="width: 32px; height: 32px; border-radius: 50%%; object-fit: cover;" />`+
		`<div style="font-size: 0.95em; line-height: 1.2;"><strong>%s</strong> <span style="color: #888;">@%s</span></div>`+
		`</a></div>`+
		`<div style="font-size: 0.95em; position: relative; z-index: 0; pointer-events: none;">%s</div>`+
		`<div style="position: relative; z-index: 2; pointer-events: auto;">%s</div>`+
		`</div>`,
		postURL(screen, q.ID), frontBase, screen, avatar, html.EscapeString(name), screen, q.Text, mediaHTML)
}
