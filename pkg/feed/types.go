package feed

import (
	"encoding/xml"
)

// Document represents the root element of the syndication document used as
// the wire contract between the scraping collaborator and the pipeline.
// It is plain RSS 2.0 with a few non-namespaced extension tags on items,
// so the same parser handles it and ordinary feeds alike.
type Document struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Atom    string   `xml:"xmlns:atom,attr"`
	Channel *Channel `xml:"channel"`
}

// Channel holds the document-level metadata
type Channel struct {
	XMLName     xml.Name  `xml:"channel"`
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	AtomLink    *AtomLink `xml:"http://www.w3.org/2005/Atom link"`
	Items       []Entry   `xml:"item"`
}

// AtomLink represents an Atom self link within the channel
type AtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

// Entry is a single rendered post. AuthorName, AuthorAvatar and the
// engagement counters are extension tags the default RSS vocabulary does
// not carry; the parser reads them back via gofeed's custom fields.
type Entry struct {
	Title         string `xml:"title"`
	AuthorName    string `xml:"author_name"`
	AuthorAvatar  string `xml:"author_avatar"`
	Link          string `xml:"link"`
	FavoriteCount int    `xml:"favorite_count"`
	RetweetCount  int    `xml:"retweet_count"`
	Description   CDATA  `xml:"description"`
	GUID          string `xml:"guid"`
	PubDate       string `xml:"pubDate"`
}

// CDATA wraps HTML-bearing text in a CDATA section on output
type CDATA struct {
	Text string `xml:",cdata"`
}
