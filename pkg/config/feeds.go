package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/obaranov/birdfeed/pkg/domain"
)

// LoadFeeds reads the feeds file: a mapping of category name to a list of
// {name, url} entries. The result is flattened in category order. The
// caller decides what an error means; the crawler logs it and proceeds
// with zero feeds.
func LoadFeeds(path string) ([]domain.FeedSource, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("read feeds file: %w", err)
	}

	var categories map[string][]domain.FeedSource
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("parse feeds file: %w", err)
	}

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	var feeds []domain.FeedSource
	for _, category := range names {
		for _, f := range categories[category] {
			f.Category = category
			feeds = append(feeds, f)
		}
	}

	return feeds, nil
}
