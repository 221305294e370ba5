package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient([]Cookie{
		{Name: "auth_token", Value: "secret", Domain: ".x.com"},
		{Name: "ct0", Value: "csrf-value", Domain: ".x.com"},
	}, "test-agent", 5*time.Second)
	require.NoError(t, err)
	client.apiBase = server.URL
	return client
}

func TestNewClient_NoCookies(t *testing.T) {
	_, err := NewClient(nil, "test-agent", time.Second)
	require.Error(t, err)
}

func TestParseCookies(t *testing.T) {
	cookies, err := ParseCookies([]byte(`[{"name":"ct0","value":"v","domain":".x.com"}]`))
	require.NoError(t, err)
	require.Len(t, cookies, 1)
	assert.Equal(t, "ct0", cookies[0].Name)

	_, err = ParseCookies([]byte(`[]`))
	assert.Error(t, err, "empty cookie list rejected")

	_, err = ParseCookies([]byte(`{broken`))
	assert.Error(t, err)
}

func TestLoadCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"ct0","value":"v","domain":".x.com"}]`), 0o600))

	cookies, err := LoadCookies(path)
	require.NoError(t, err)
	assert.Len(t, cookies, 1)

	_, err = LoadCookies(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestClient_Profile(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/show.json", r.URL.Path)
		assert.Equal(t, "golang", r.URL.Query().Get("screen_name"))
		assert.Equal(t, "csrf-value", r.Header.Get("x-csrf-token"))
		w.Write([]byte(`{"name":"Go","screen_name":"golang","profile_image_url_https":"https://pbs.example.com/go_normal.jpg","description":"the language"}`))
	})

	profile, err := client.Profile(context.Background(), "golang")
	require.NoError(t, err)
	assert.Equal(t, "Go", profile.User.Name)
	assert.Equal(t, "golang", profile.User.ScreenName)
	assert.Equal(t, "the language", profile.Description)
}

func TestClient_UserPosts(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/statuses/user_timeline.json", r.URL.Path)
		assert.Equal(t, "extended", r.URL.Query().Get("tweet_mode"))
		w.Write([]byte(`[
			{"id_str":"100","full_text":"hello","created_at":"Mon Jan 02 15:04:05 -0700 2006",
			 "user":{"name":"Go","screen_name":"golang"},"favorite_count":3,"retweet_count":1},
			{"id_str":"101","full_text":"RT @alice: hi","user":{"name":"Go","screen_name":"golang"},
			 "retweeted_status":{"id_str":"90","full_text":"hi","user":{"name":"Alice","screen_name":"alice"},
			   "quoted_status":{"id_str":"80","full_text":"deep","user":{"name":"Carol","screen_name":"carol"}}}}
		]`))
	})

	posts, err := client.UserPosts(context.Background(), "golang", 50)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "100", posts[0].ID)
	assert.Equal(t, "hello", posts[0].Text)
	assert.Equal(t, 3, posts[0].FavoriteCount)
	assert.False(t, posts[0].CreatedAt.IsZero())

	// retweet wrapper keeps the inner post, and the inner post keeps its quote
	rt := posts[1].Retweeted
	require.NotNil(t, rt)
	assert.Equal(t, "90", rt.ID)
	require.NotNil(t, rt.Quoted)
	assert.Equal(t, "80", rt.Quoted.ID)
	assert.Nil(t, rt.Quoted.Quoted, "quoted posts are terminal")
}

func TestClient_UserPosts_Video(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id_str":"100","full_text":"v","user":{"screen_name":"u"},
			 "extended_entities":{"media":[
			   {"type":"video","media_url_https":"https://pbs.example.com/thumb.jpg",
			    "video_info":{"variants":[
			      {"content_type":"video/mp4","url":"https://v.example.com/a.mp4","bitrate":832000},
			      {"content_type":"application/x-mpegURL","url":"https://v.example.com/pl.m3u8"}
			    ]}}]}}
		]`))
	})

	posts, err := client.UserPosts(context.Background(), "u", 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Len(t, posts[0].Media, 1)

	media := posts[0].Media[0]
	assert.Equal(t, "video", media.Type)
	assert.Equal(t, "https://pbs.example.com/thumb.jpg", media.URL)
	require.Len(t, media.Variants, 2)
	assert.Equal(t, 832000, media.Variants[0].Bitrate)
}

func TestClient_SearchPosts(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/tweets.json", r.URL.Path)
		assert.Equal(t, "golang generics", r.URL.Query().Get("q"))
		w.Write([]byte(`{"statuses":[{"id_str":"1","full_text":"found","user":{"screen_name":"u"}}]}`))
	})

	posts, err := client.SearchPosts(context.Background(), "golang generics", 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "found", posts[0].Text)
}

func TestClient_ListAndListPosts(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lists/show.json":
			assert.Equal(t, "42", r.URL.Query().Get("list_id"))
			w.Write([]byte(`{"id_str":"42","name":"Gophers"}`))
		case "/lists/statuses.json":
			w.Write([]byte(`[{"id_str":"1","full_text":"from list","user":{"screen_name":"u"}}]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	info, err := client.List(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "Gophers", info.Name)

	posts, err := client.ListPosts(context.Background(), "42", 10)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "from list", posts[0].Text)
}

func TestClient_RateLimited(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.UserPosts(context.Background(), "u", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestClient_UnexpectedStatus(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.Profile(context.Background(), "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 403")
}
