package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"description=Database connection string; a postgres:// URL selects the client-server backend, anything else the embedded store"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Crawl CrawlConfig `yaml:"crawl" json:"crawl" jsonschema:"description=Crawl cycle configuration"`

	Scraper ScraperConfig `yaml:"scraper" json:"scraper" jsonschema:"description=Social scraping collaborator configuration"`
}

// CrawlConfig holds crawl cycle settings
type CrawlConfig struct {
	Interval     time.Duration `yaml:"interval" json:"interval" jsonschema:"default=10m,description=Crawl period in serve mode"`
	Delay        time.Duration `yaml:"delay" json:"delay" jsonschema:"default=1s,description=Polite delay between feeds"`
	Retention    time.Duration `yaml:"retention" json:"retention" jsonschema:"default=168h,description=Maximum age of stored items before eviction"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" json:"fetch_timeout" jsonschema:"default=15s,description=HTTP timeout for plain feed retrieval"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent" jsonschema:"description=User agent for feed requests"`
	FeedsFile    string        `yaml:"feeds_file" json:"feeds_file" jsonschema:"default=feeds.yml,description=Path to the feeds file"`
}

// ScraperConfig holds settings for the external scraping process
type ScraperConfig struct {
	Command string        `yaml:"command" json:"command" jsonschema:"default=birdfeed-scraper,description=Scraper binary invoked with the target URL"`
	Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=Wall-clock bound for one scraper run"`
}

// defaultUserAgent mimics a desktop browser; several feed hosts reject
// the default Go client string outright
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// Default returns a configuration with all defaults applied, used when no
// config file is given
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}

	// the environment connection string selects the client-server backend
	if c.Database.DSN == "" {
		c.Database.DSN = os.Getenv("DATABASE_URL")
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	if c.Crawl.Interval == 0 {
		c.Crawl.Interval = 10 * time.Minute
	}
	if c.Crawl.Delay == 0 {
		c.Crawl.Delay = time.Second
	}
	if c.Crawl.Retention == 0 {
		c.Crawl.Retention = 7 * 24 * time.Hour
	}
	if c.Crawl.FetchTimeout == 0 {
		c.Crawl.FetchTimeout = 15 * time.Second
	}
	if c.Crawl.UserAgent == "" {
		c.Crawl.UserAgent = defaultUserAgent
	}
	if c.Crawl.FeedsFile == "" {
		c.Crawl.FeedsFile = "feeds.yml"
	}

	if c.Scraper.Command == "" {
		c.Scraper.Command = "birdfeed-scraper"
	}
	if c.Scraper.Timeout == 0 {
		c.Scraper.Timeout = 60 * time.Second
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}
	if cfg.Crawl.Delay < 0 {
		return fmt.Errorf("crawl.delay must be non-negative")
	}
	if cfg.Crawl.Retention < time.Hour {
		return fmt.Errorf("crawl.retention must be at least 1 hour")
	}
	if cfg.Crawl.FetchTimeout < time.Second {
		return fmt.Errorf("crawl.fetch_timeout must be at least 1 second")
	}
	if cfg.Scraper.Timeout < time.Second {
		return fmt.Errorf("scraper.timeout must be at least 1 second")
	}
	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetCrawlConfig returns crawl cycle configuration
func (c *Config) GetCrawlConfig() CrawlConfig {
	return c.Crawl
}

// GetScraperConfig returns scraper configuration
func (c *Config) GetScraperConfig() ScraperConfig {
	return c.Scraper
}
