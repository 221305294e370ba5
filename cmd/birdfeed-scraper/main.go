package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/obaranov/birdfeed/pkg/feed"
	"github.com/obaranov/birdfeed/pkg/scrape"
)

// Opts with all CLI options
type Opts struct {
	Cookies string        `short:"c" long:"cookies" env:"COOKIES_FILE" description:"path to cookies json file"`
	Count   int           `long:"count" env:"COUNT" default:"50" description:"number of posts to retrieve"`
	Timeout time.Duration `long:"timeout" env:"TIMEOUT" default:"50s" description:"overall retrieval timeout"`

	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`

	Args struct {
		URL string `positional-arg-name:"url" description:"feed url to scrape"`
	} `positional-args:"yes" required:"yes"`
}

var revision = "unknown"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

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

	setupLog(opts.Debug)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		cancel()
	}()

	doc, err := run(ctx, opts)
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	// the document is the only thing written to stdout
	fmt.Println(doc)
}

func run(ctx context.Context, opts Opts) (string, error) {
	cookies, err := loadCookies(opts.Cookies)
	if err != nil {
		return "", err
	}

	req, err := scrape.ParseRequest(opts.Args.URL)
	if err != nil {
		return "", fmt.Errorf("can't parse target: %w", err)
	}

	client, err := scrape.NewClient(cookies, userAgent, opts.Timeout)
	if err != nil {
		return "", fmt.Errorf("can't create client: %w", err)
	}

	// spread requests out so bursts of scraper runs don't look mechanical
	jitter := 500*time.Millisecond + time.Duration(rand.Int63n(int64(1500*time.Millisecond))) //nolint:gosec // timing jitter, not crypto
	log.Printf("[DEBUG] waiting %v before request", jitter)
	select {
	case <-time.After(jitter):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	meta, posts, err := retrieve(ctx, client, req, opts.Count)
	if err != nil {
		return "", err
	}

	doc, err := scrape.RenderDocument(meta, posts)
	if err != nil {
		return "", fmt.Errorf("can't render document: %w", err)
	}
	return doc, nil
}

// retrieve dispatches the parsed request to the matching client call and
// builds the channel metadata for the rendered document
func retrieve(ctx context.Context, client *scrape.Client, req scrape.Request, count int) (feed.ChannelMeta, []*scrape.Post, error) {
	switch req.Mode {
	case scrape.ModeSearch:
		posts, err := client.SearchPosts(ctx, req.Query, count)
		if err != nil {
			return feed.ChannelMeta{}, nil, fmt.Errorf("search %q: %w", req.Query, err)
		}
		return channelMeta(req, nil, nil), posts, nil

	case scrape.ModeList:
		info, err := client.List(ctx, req.ListID)
		if err != nil {
			return feed.ChannelMeta{}, nil, fmt.Errorf("list %s: %w", req.ListID, err)
		}
		posts, err := client.ListPosts(ctx, req.ListID, count)
		if err != nil {
			return feed.ChannelMeta{}, nil, fmt.Errorf("list %s posts: %w", req.ListID, err)
		}
		return channelMeta(req, nil, info), posts, nil

	default: // timeline
		profile, err := client.Profile(ctx, req.Handle)
		if err != nil {
			return feed.ChannelMeta{}, nil, fmt.Errorf("profile %s: %w", req.Handle, err)
		}
		posts, err := client.UserPosts(ctx, req.Handle, count)
		if err != nil {
			return feed.ChannelMeta{}, nil, fmt.Errorf("timeline %s: %w", req.Handle, err)
		}
		return channelMeta(req, profile, nil), posts, nil
	}
}

// channelMeta builds the channel header for the rendered document
func channelMeta(req scrape.Request, profile *scrape.Profile, list *scrape.ListInfo) feed.ChannelMeta {
	switch req.Mode {
	case scrape.ModeSearch:
		return feed.ChannelMeta{
			Title:       "Search: " + req.Query,
			Link:        req.URL,
			Description: "Twitter Search for " + req.Query,
		}
	case scrape.ModeList:
		return feed.ChannelMeta{
			Title:       "List: " + list.Name,
			Link:        req.URL,
			Description: "Twitter List: " + list.Name,
		}
	default:
		return feed.ChannelMeta{
			Title:       fmt.Sprintf("%s (@%s)", profile.User.Name, profile.User.ScreenName),
			Link:        req.URL,
			Description: profile.Description,
		}
	}
}

// loadCookies reads session cookies from the given file, or from the
// COOKIES_JSON environment variable when no file is set
func loadCookies(path string) ([]scrape.Cookie, error) {
	if path != "" {
		cookies, err := scrape.LoadCookies(path)
		if err != nil {
			return nil, fmt.Errorf("can't load cookies from %s: %w", path, err)
		}
		return cookies, nil
	}

	if raw := os.Getenv("COOKIES_JSON"); raw != "" {
		cookies, err := scrape.ParseCookies([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("can't parse COOKIES_JSON: %w", err)
		}
		return cookies, nil
	}

	return nil, fmt.Errorf("no cookies: set --cookies or COOKIES_JSON")
}

// setupLog routes all logging to stderr, stdout carries the document
func setupLog(dbg bool) {
	logOpts := []lgr.Option{lgr.Out(os.Stderr), lgr.Err(os.Stderr), lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = append(logOpts, lgr.Debug)
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
