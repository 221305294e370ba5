package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obaranov/birdfeed/pkg/config"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_OneShot(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, fmt.Sprintf(`
database:
  dsn: "file:%s/test.db?mode=rwc"
crawl:
  feeds_file: %s/feeds.yml
`, dir, dir))

	// empty feeds file: the cycle runs, stores nothing, prunes and exits
	require.NoError(t, os.WriteFile(filepath.Join(dir, "feeds.yml"), []byte(""), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: configPath})
	require.NoError(t, err)

	// schema was created
	_, err = os.Stat(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
}

func TestRun_InvalidConfig(t *testing.T) {
	configPath := writeTestConfig(t, "server: [broken")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: configPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't load config")
}

func TestRun_ServeStartStop(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	dir := t.TempDir()
	configPath := writeTestConfig(t, fmt.Sprintf(`
server:
  listen: "127.0.0.1:%d"
database:
  dsn: "file:%s/test.db?mode=rwc"
crawl:
  interval: 1h
  feeds_file: %s/feeds.yml
`, port, dir, dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "feeds.yml"), []byte(""), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx, Opts{Config: configPath, Serve: true}) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(fmt.Sprintf("http://127.0.0.1:%d/ping", port))
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("serve mode did not shut down")
	}
}

func TestStoreConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Database.DSN = "file:test.db?mode=rwc"
	cfg.Database.MaxOpenConns = 7
	cfg.Database.MaxIdleConns = 3
	cfg.Database.ConnMaxLifetime = 1800 // seconds

	sc := storeConfig(cfg)
	assert.Equal(t, "file:test.db?mode=rwc", sc.DSN)
	assert.Equal(t, 7, sc.MaxOpenConns)
	assert.Equal(t, 3, sc.MaxIdleConns)
	assert.Equal(t, 30*time.Minute, sc.ConnMaxLifetime)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Listen)
}

func TestSetupLog(t *testing.T) {
	t.Run("debug mode enabled", func(t *testing.T) {
		setupLog(true, false)
	})

	t.Run("debug mode disabled", func(t *testing.T) {
		setupLog(false, false)
	})

	t.Run("no color", func(t *testing.T) {
		setupLog(false, true)
	})

	t.Run("with secrets", func(t *testing.T) {
		setupLog(true, false, "secret1", "secret2")
	})
}
