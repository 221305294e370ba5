package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"github.com/obaranov/birdfeed/pkg/config"
	"github.com/obaranov/birdfeed/pkg/crawler"
	"github.com/obaranov/birdfeed/pkg/feed"
	"github.com/obaranov/birdfeed/pkg/proc"
	"github.com/obaranov/birdfeed/pkg/store"
	"github.com/obaranov/birdfeed/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"f" long:"config" env:"CONFIG" default:"config.yml" description:"config file"`
	Serve  bool   `short:"s" long:"serve" env:"SERVE" description:"keep running: serve the API and crawl periodically"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor)

	log.Printf("[INFO] starting birdfeed version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil && ctx.Err() == nil {
		log.Printf("[ERROR] birdfeed failed: %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

func run(ctx context.Context, opts Opts) error {
	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return fmt.Errorf("can't load config: %w", err)
	}

	st, err := store.Open(storeConfig(cfg))
	if err != nil {
		return fmt.Errorf("can't open store: %w", err)
	}
	defer st.Close()

	if err := st.InitSchema(ctx); err != nil {
		return fmt.Errorf("can't init schema: %w", err)
	}
	log.Printf("[INFO] store ready, dialect %s", st.Dialect())

	crawlCfg := cfg.GetCrawlConfig()
	scraperCfg := cfg.GetScraperConfig()
	parser := feed.NewParser(crawlCfg.FetchTimeout, crawlCfg.UserAgent)
	runner := proc.NewRunner(scraperCfg.Command, scraperCfg.Timeout)
	crwl := crawler.New(parser, runner, st, crawlCfg)

	if !opts.Serve {
		// one-shot mode: single crawl cycle and exit
		return crwl.Run(ctx)
	}

	srv := server.New(cfg, st, crwl, revision, opts.Debug)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(ctx) })
	g.Go(func() error { return crawlLoop(ctx, crwl, crawlCfg.Interval) })
	return g.Wait()
}

// storeConfig maps database settings to the store's config, conn_max_lifetime
// is configured in seconds
func storeConfig(cfg *config.Config) store.Config {
	return store.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	}
}

// crawlLoop runs a crawl immediately and then on every tick until ctx is done
func crawlLoop(ctx context.Context, crwl *crawler.Crawler, interval time.Duration) error {
	if err := crwl.Run(ctx); err != nil {
		log.Printf("[WARN] crawl cycle failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := crwl.Run(ctx); err != nil {
				log.Printf("[WARN] crawl cycle failed: %v", err)
			}
		}
	}
}

// loadConfig reads the config file, falling back to built-in defaults when
// the file doesn't exist
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("[WARN] config file %s not found, using defaults", path)
		return config.Default(), nil
	}
	return config.Load(path)
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = append(logOpts, lgr.Debug)
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}

	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
