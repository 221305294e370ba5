package domain

// FeedSource is one configured feed, a {name, url} pair grouped under a
// category in the feeds file
type FeedSource struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"-"`
}
