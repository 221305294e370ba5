package feed

import (
	"encoding/xml"
	"fmt"
)

// ChannelMeta holds the channel-level metadata for a rendered document
type ChannelMeta struct {
	Title       string
	Link        string
	Description string
}

// RenderDocument serializes entries plus channel metadata into a complete
// syndication document. The scraper prints the result on stdout; the
// crawler feeds it back through the regular feed parser.
func RenderDocument(meta ChannelMeta, entries []Entry) (string, error) {
	doc := &Document{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &Channel{
			Title:       meta.Title,
			Link:        meta.Link,
			Description: meta.Description,
			AtomLink:    &AtomLink{Href: meta.Link, Rel: "self", Type: "application/rss+xml"},
			Items:       entries,
		},
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}

	return xml.Header + string(out), nil
}
