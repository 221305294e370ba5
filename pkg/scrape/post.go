package scrape

import "time"

// Post is one scraped social post. The optional sub-references make the
// three source variants explicit: a plain post has neither, a retweet
// wrapper carries Retweeted, a quoting post carries Quoted. Quotes are
// rendered one level deep only.
type Post struct {
	ID            string
	Text          string
	CreatedAt     time.Time
	User          *User
	Media         []Media
	Retweeted     *Post
	Quoted        *Post
	FavoriteCount int
	RetweetCount  int
}

// User is the author record attached to a post
type User struct {
	Name       string
	ScreenName string
	AvatarURL  string
}

// Media is a single attachment. URL doubles as the poster image for
// videos; playable sources live in Variants.
type Media struct {
	Type     string // "photo" or "video"
	URL      string
	Variants []VideoVariant
}

// VideoVariant is one encoding of a video attachment
type VideoVariant struct {
	ContentType string
	URL         string
	Bitrate     int
}

// Profile is a user record plus the bio used as channel description
type Profile struct {
	User        User
	Description string
}

// ListInfo identifies a curated list by id and display name
type ListInfo struct {
	ID   string
	Name string
}
