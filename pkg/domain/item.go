package domain

import "time"

// Item is the canonical record stored by the pipeline. Both retrieval
// paths (plain feeds and the scraping collaborator) converge on this shape
// before persistence. Items are immutable once created; only the retention
// sweep removes them.
type Item struct {
	ID            string    `db:"id" json:"id"`
	FeedURL       string    `db:"feed_url" json:"feed_url"`
	FeedName      string    `db:"feed_name" json:"feed_name"`
	Title         string    `db:"title" json:"title"`
	Content       string    `db:"content" json:"content"`
	Author        string    `db:"author" json:"author"`
	Link          string    `db:"link" json:"link"`
	ImageURL      string    `db:"image_url" json:"image_url,omitempty"`
	Published     time.Time `db:"published_at" json:"published_at"`
	AuthorAvatar  string    `db:"author_avatar" json:"author_avatar,omitempty"`
	FavoriteCount int       `db:"favorite_count" json:"favorite_count"`
	RetweetCount  int       `db:"retweet_count" json:"retweet_count"`
}

// ParsedFeed is the result of parsing a syndication feed, either fetched
// over HTTP or emitted by the scraper on stdout
type ParsedFeed struct {
	Title       string
	Link        string
	Description string
	Items       []ParsedItem
}

// ParsedItem is a single feed entry before conversion to an Item
type ParsedItem struct {
	GUID          string
	Title         string
	Link          string
	Description   string
	Content       string
	Author        string
	AuthorName    string // author_name extension tag from the scraper
	AuthorAvatar  string // author_avatar extension tag from the scraper
	ImageURL      string
	Published     time.Time
	FavoriteCount int
	RetweetCount  int
}
