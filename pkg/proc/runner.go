// Package proc runs the scraping collaborator as an isolated child
// process. The protocol is deliberately narrow: target URL as the sole
// argument, a complete syndication document on stdout, exit code as the
// success signal. This keeps the unstable authenticated session state out
// of the crawler process entirely.
package proc

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
)

// Runner invokes the scraper binary with a bounded wall-clock timeout
type Runner struct {
	command string
	timeout time.Duration
}

// NewRunner creates a runner for the given scraper command
func NewRunner(command string, timeout time.Duration) *Runner {
	if timeout == 0 {
		timeout = time.Minute
	}
	return &Runner{command: command, timeout: timeout}
}

// Fetch runs the scraper for the target URL and returns the document it
// printed on stdout. The process is killed once the timeout elapses;
// non-zero exit or empty output is an error, which the caller treats as
// zero items for the feed.
func (r *Runner) Fetch(ctx context.Context, target string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.command, target) //nolint:gosec // command comes from configuration
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		// the scraper reports progress and diagnostics on stderr
		lgr.Printf("[DEBUG] scraper %s: %s", target, truncate(msg, 500))
	}

	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("scraper timed out after %v", r.timeout)
	}
	if err != nil {
		return nil, fmt.Errorf("scraper failed: %w", err)
	}
	if len(bytes.TrimSpace(stdout.Bytes())) == 0 {
		return nil, fmt.Errorf("scraper produced no output")
	}

	return stdout.Bytes(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
