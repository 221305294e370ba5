package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"time"
)

// ErrRateLimited signals the platform refused the request with 429; the
// entry point reports it distinctly on stderr
var ErrRateLimited = errors.New("rate limited")

const defaultAPIBase = "https://api.x.com/1.1"

// Client is a cookie-authenticated JSON API client for the platform.
// Session state comes entirely from exported browser cookies; there is no
// login flow here.
type Client struct {
	http      *http.Client
	apiBase   string
	userAgent string
	csrfToken string
}

// Cookie is one exported browser cookie
type Cookie struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain"`
}

// NewClient creates a client from exported session cookies
func NewClient(cookies []Cookie, userAgent string, timeout time.Duration) (*Client, error) {
	if len(cookies) == 0 {
		return nil, fmt.Errorf("no cookies provided")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{
		http:      &http.Client{Timeout: timeout, Jar: jar},
		apiBase:   defaultAPIBase,
		userAgent: userAgent,
	}

	base, err := url.Parse(c.apiBase)
	if err != nil {
		return nil, fmt.Errorf("parse api base: %w", err)
	}

	httpCookies := make([]*http.Cookie, 0, len(cookies))
	for _, ck := range cookies {
		httpCookies = append(httpCookies, &http.Cookie{Name: ck.Name, Value: ck.Value, Domain: ck.Domain})
		if ck.Name == "ct0" {
			c.csrfToken = ck.Value // csrf header must mirror the ct0 cookie
		}
	}
	jar.SetCookies(base, httpCookies)

	return c, nil
}

// LoadCookies reads exported cookies from a JSON file
func LoadCookies(path string) ([]Cookie, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("read cookies file: %w", err)
	}
	return ParseCookies(data)
}

// ParseCookies decodes an exported cookie list
func ParseCookies(data []byte) ([]Cookie, error) {
	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("parse cookies: %w", err)
	}
	if len(cookies) == 0 {
		return nil, fmt.Errorf("cookies file is empty")
	}
	return cookies, nil
}

// Profile fetches a user record with the bio
func (c *Client) Profile(ctx context.Context, handle string) (*Profile, error) {
	var u apiUser
	params := url.Values{"screen_name": {handle}}
	if err := c.get(ctx, "/users/show.json", params, &u); err != nil {
		return nil, fmt.Errorf("get profile %s: %w", handle, err)
	}
	return &Profile{User: u.toUser(), Description: u.Description}, nil
}

// UserPosts fetches the most recent posts from a user timeline
func (c *Client) UserPosts(ctx context.Context, handle string, count int) ([]*Post, error) {
	var posts []apiPost
	params := url.Values{
		"screen_name": {handle},
		"count":       {strconv.Itoa(count)},
		"tweet_mode":  {"extended"},
	}
	if err := c.get(ctx, "/statuses/user_timeline.json", params, &posts); err != nil {
		return nil, fmt.Errorf("get timeline %s: %w", handle, err)
	}
	return convertPosts(posts), nil
}

// SearchPosts fetches top results for a search query
func (c *Client) SearchPosts(ctx context.Context, query string, count int) ([]*Post, error) {
	var result struct {
		Statuses []apiPost `json:"statuses"`
	}
	params := url.Values{
		"q":           {query},
		"count":       {strconv.Itoa(count)},
		"result_type": {"popular"},
		"tweet_mode":  {"extended"},
	}
	if err := c.get(ctx, "/search/tweets.json", params, &result); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return convertPosts(result.Statuses), nil
}

// List fetches list metadata
func (c *Client) List(ctx context.Context, id string) (*ListInfo, error) {
	var result struct {
		IDStr string `json:"id_str"`
		Name  string `json:"name"`
	}
	params := url.Values{"list_id": {id}}
	if err := c.get(ctx, "/lists/show.json", params, &result); err != nil {
		return nil, fmt.Errorf("get list %s: %w", id, err)
	}
	return &ListInfo{ID: result.IDStr, Name: result.Name}, nil
}

// ListPosts fetches the most recent posts from a list
func (c *Client) ListPosts(ctx context.Context, id string, count int) ([]*Post, error) {
	var posts []apiPost
	params := url.Values{
		"list_id":    {id},
		"count":      {strconv.Itoa(count)},
		"tweet_mode": {"extended"},
	}
	if err := c.get(ctx, "/lists/statuses.json", params, &posts); err != nil {
		return nil, fmt.Errorf("get list posts %s: %w", id, err)
	}
	return convertPosts(posts), nil
}

// get performs an authenticated API request and decodes the response
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.apiBase + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.csrfToken != "" {
		req.Header.Set("x-csrf-token", c.csrfToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// wire shapes of the platform API

type apiUser struct {
	Name            string `json:"name"`
	ScreenName      string `json:"screen_name"`
	ProfileImageURL string `json:"profile_image_url_https"`
	Description     string `json:"description"`
}

func (u apiUser) toUser() User {
	return User{Name: u.Name, ScreenName: u.ScreenName, AvatarURL: u.ProfileImageURL}
}

type apiVariant struct {
	ContentType string `json:"content_type"`
	URL         string `json:"url"`
	Bitrate     int    `json:"bitrate"`
}

type apiMedia struct {
	Type      string `json:"type"`
	MediaURL  string `json:"media_url_https"`
	VideoInfo *struct {
		Variants []apiVariant `json:"variants"`
	} `json:"video_info"`
}

type apiPost struct {
	IDStr            string   `json:"id_str"`
	FullText         string   `json:"full_text"`
	CreatedAt        string   `json:"created_at"`
	User             *apiUser `json:"user"`
	ExtendedEntities struct {
		Media []apiMedia `json:"media"`
	} `json:"extended_entities"`
	RetweetedStatus *apiPost `json:"retweeted_status"`
	QuotedStatus    *apiPost `json:"quoted_status"`
	FavoriteCount   int      `json:"favorite_count"`
	RetweetCount    int      `json:"retweet_count"`
}

func convertPosts(posts []apiPost) []*Post {
	result := make([]*Post, 0, len(posts))
	for i := range posts {
		result = append(result, posts[i].toPost(0))
	}
	return result
}

// toPost maps the wire shape onto the tagged-union Post. The depth bounds
// recursion: a retweet wrapper's inner post still carries its quote, but a
// quoted post is terminal, so quotes are never followed transitively.
func (p *apiPost) toPost(depth int) *Post {
	if p == nil {
		return nil
	}

	post := &Post{
		ID:            p.IDStr,
		Text:          p.FullText,
		FavoriteCount: p.FavoriteCount,
		RetweetCount:  p.RetweetCount,
	}

	if ts, err := time.Parse(time.RubyDate, p.CreatedAt); err == nil {
		post.CreatedAt = ts
	}

	if p.User != nil {
		u := p.User.toUser()
		post.User = &u
	}

	for _, m := range p.ExtendedEntities.Media {
		media := Media{Type: m.Type, URL: m.MediaURL}
		if m.VideoInfo != nil {
			for _, v := range m.VideoInfo.Variants {
				media.Variants = append(media.Variants, VideoVariant(v))
			}
		}
		post.Media = append(post.Media, media)
	}

	if depth == 0 {
		post.Retweeted = p.RetweetedStatus.toPost(1)
	}
	if depth < 2 {
		post.Quoted = p.QuotedStatus.toPost(2)
	}

	return post
}
