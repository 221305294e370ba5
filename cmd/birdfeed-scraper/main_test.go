package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obaranov/birdfeed/pkg/scrape"
)

func TestChannelMeta(t *testing.T) {
	t.Run("search", func(t *testing.T) {
		req := scrape.Request{Mode: scrape.ModeSearch, Query: "golang", URL: "https://x.com/search?q=golang"}
		meta := channelMeta(req, nil, nil)
		assert.Equal(t, "Search: golang", meta.Title)
		assert.Equal(t, "Twitter Search for golang", meta.Description)
		assert.Equal(t, req.URL, meta.Link)
	})

	t.Run("list", func(t *testing.T) {
		req := scrape.Request{Mode: scrape.ModeList, ListID: "42", URL: "https://x.com/i/lists/42"}
		meta := channelMeta(req, nil, &scrape.ListInfo{ID: "42", Name: "Gophers"})
		assert.Equal(t, "List: Gophers", meta.Title)
		assert.Equal(t, "Twitter List: Gophers", meta.Description)
	})

	t.Run("timeline", func(t *testing.T) {
		req := scrape.Request{Mode: scrape.ModeTimeline, Handle: "demo", URL: "https://x.com/demo"}
		profile := &scrape.Profile{
			User:        scrape.User{Name: "Demo User", ScreenName: "demo"},
			Description: "just a demo",
		}
		meta := channelMeta(req, profile, nil)
		assert.Equal(t, "Demo User (@demo)", meta.Title)
		assert.Equal(t, "just a demo", meta.Description)
	})
}

func TestLoadCookies_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`[{"name":"auth_token","value":"tok","domain":".x.com"}]`), 0o600))

	cookies, err := loadCookies(path)
	require.NoError(t, err)
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth_token", cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
}

func TestLoadCookies_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := loadCookies(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't load cookies")
}

func TestLoadCookies_FromEnv(t *testing.T) {
	t.Setenv("COOKIES_JSON", `[{"name":"ct0","value":"csrf","domain":".x.com"}]`)

	cookies, err := loadCookies("")
	require.NoError(t, err)
	require.Len(t, cookies, 1)
	assert.Equal(t, "ct0", cookies[0].Name)
}

func TestLoadCookies_FilePrecedesEnv(t *testing.T) {
	t.Setenv("COOKIES_JSON", `[{"name":"env","value":"v","domain":"d"}]`)
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`[{"name":"file","value":"v","domain":"d"}]`), 0o600))

	cookies, err := loadCookies(path)
	require.NoError(t, err)
	require.Len(t, cookies, 1)
	assert.Equal(t, "file", cookies[0].Name)
}

func TestLoadCookies_Missing(t *testing.T) {
	t.Setenv("COOKIES_JSON", "")

	_, err := loadCookies("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no cookies")
}
