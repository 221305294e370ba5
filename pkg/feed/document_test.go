package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDocument(t *testing.T) {
	meta := ChannelMeta{
		Title:       "gopher (@gopher)",
		Link:        "https://xcancel.com/gopher",
		Description: "writes Go",
	}
	entries := []Entry{
		{
			Title:         "@gopher",
			AuthorName:    "gopher",
			AuthorAvatar:  "https://pbs.example.com/avatar_400x400.jpg",
			Link:          "https://xcancel.com/gopher/status/100",
			FavoriteCount: 3,
			RetweetCount:  1,
			Description:   CDATA{Text: `hello <b>world</b>`},
			GUID:          "https://xcancel.com/gopher/status/100",
			PubDate:       "Mon, 02 Jan 2006 15:04:05 -0700",
		},
	}

	doc, err := RenderDocument(meta, entries)
	require.NoError(t, err)

	assert.Contains(t, doc, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, doc, `<rss version="2.0"`)
	assert.Contains(t, doc, "<title>gopher (@gopher)</title>")
	assert.Contains(t, doc, "<author_name>gopher</author_name>")
	assert.Contains(t, doc, "<favorite_count>3</favorite_count>")
	assert.Contains(t, doc, "<retweet_count>1</retweet_count>")
	assert.Contains(t, doc, "<![CDATA[hello <b>world</b>]]>")
	assert.Contains(t, doc, "<guid>https://xcancel.com/gopher/status/100</guid>")
}

func TestRenderDocument_Empty(t *testing.T) {
	doc, err := RenderDocument(ChannelMeta{Title: "empty", Link: "https://example.com"}, nil)
	require.NoError(t, err)
	assert.Contains(t, doc, "<title>empty</title>")
	assert.NotContains(t, doc, "<item>")
}

func TestRenderDocument_RoundTrip(t *testing.T) {
	// a document emitted by the renderer must come back through the parser
	// with the extension tags intact
	entries := []Entry{
		{
			Title:         "@gopher",
			AuthorName:    "gopher",
			AuthorAvatar:  "https://pbs.example.com/avatar_400x400.jpg",
			Link:          "https://xcancel.com/gopher/status/100",
			FavoriteCount: 42,
			RetweetCount:  7,
			Description:   CDATA{Text: "hello"},
			GUID:          "https://xcancel.com/gopher/status/100",
			PubDate:       "Mon, 02 Jan 2006 15:04:05 -0700",
		},
	}
	doc, err := RenderDocument(ChannelMeta{Title: "t", Link: "https://xcancel.com/gopher"}, entries)
	require.NoError(t, err)

	parsed, err := NewParser(0, "test-agent").ParseDocument([]byte(doc))
	require.NoError(t, err)
	require.Len(t, parsed.Items, 1)

	item := parsed.Items[0]
	assert.Equal(t, "https://xcancel.com/gopher/status/100", item.GUID)
	assert.Equal(t, "gopher", item.AuthorName)
	assert.Equal(t, "https://pbs.example.com/avatar_400x400.jpg", item.AuthorAvatar)
	assert.Equal(t, 42, item.FavoriteCount)
	assert.Equal(t, 7, item.RetweetCount)
	assert.Equal(t, "hello", item.Description)
	assert.False(t, item.Published.IsZero())
}
