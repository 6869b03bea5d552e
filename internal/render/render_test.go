package render

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"scribe/internal/models"
	"scribe/internal/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePosts(n int) []models.Post {
	posts := make([]models.Post, n)
	for i := range posts {
		posts[i] = models.Post{
			ID:        uint(i + 1),
			Title:     "Post",
			Content:   "body",
			User:      models.User{Username: "writer"},
			CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	return posts
}

func TestHTMLRenderer_EscapesUserContent(t *testing.T) {
	posts := []models.Post{{
		ID:        3,
		Title:     `<script>alert("x")</script>`,
		Content:   "a & b",
		User:      models.User{Username: "eve<"},
		Tags:      []models.Tag{{Name: "Go & Rust", Slug: "go-rust"}},
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}}

	html, err := NewHTMLRenderer().RenderPosts(context.Background(), posts)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "a &amp; b")
	assert.Contains(t, html, "eve&lt;")
	assert.Contains(t, html, `<a href="/tags/go-rust">Go &amp; Rust</a>`)
	assert.Contains(t, html, `id="post-3"`)
	assert.Contains(t, html, "May 1, 2024")
}

func TestHTMLRenderer_ImageSources(t *testing.T) {
	posts := samplePosts(2)
	posts[0].ImageURL = `https://example.com/a.png?x=1&y="2"`
	posts[1].ImageURL = "javascript:alert(1)"

	html, err := NewHTMLRenderer().RenderPosts(context.Background(), posts)
	require.NoError(t, err)

	assert.Contains(t, html, `src="https://example.com/a.png?x=1&amp;y=&#34;2&#34;"`)
	assert.NotContains(t, html, "javascript:")
}

func TestHTMLRenderer_PreservesOrder(t *testing.T) {
	posts := samplePosts(3)
	html, err := NewHTMLRenderer().RenderPosts(context.Background(), posts)
	require.NoError(t, err)

	i1 := strings.Index(html, `id="post-1"`)
	i2 := strings.Index(html, `id="post-2"`)
	i3 := strings.Index(html, `id="post-3"`)
	assert.True(t, i1 < i2 && i2 < i3)

	empty, err := NewHTMLRenderer().RenderPosts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "one two", Excerpt("  one   two ", 3))
	assert.Equal(t, "one two …", Excerpt("one two three", 2))
	assert.Equal(t, "", Excerpt("", 5))
}

func TestNewFragment(t *testing.T) {
	p := pagination.New(samplePosts(12), 5)
	r := NewHTMLRenderer()

	first, err := NewFragment(context.Background(), r, p.Page(1))
	require.NoError(t, err)
	assert.True(t, first.HasNext)
	require.NotNil(t, first.NextPage)
	assert.Equal(t, 2, *first.NextPage)
	assert.Equal(t, 1, first.CurrentPage)
	assert.Equal(t, 5, strings.Count(first.HTML, "<article"))

	last, err := NewFragment(context.Background(), r, p.Page(3))
	require.NoError(t, err)
	assert.False(t, last.HasNext)
	assert.Nil(t, last.NextPage)
	assert.Equal(t, 2, strings.Count(last.HTML, "<article"))

	raw, err := json.Marshal(last)
	require.NoError(t, err)
	assert.JSONEq(t, `{"html":`+mustJSON(t, last.HTML)+`,"has_next":false,"next_page":null,"current_page":3}`, string(raw))
}

type failingRenderer struct{}

func (failingRenderer) RenderPosts(context.Context, []models.Post) (string, error) {
	return "", errors.New("boom")
}

func TestNewFragment_RendererError(t *testing.T) {
	_, err := NewFragment(context.Background(), failingRenderer{}, pagination.New(samplePosts(1), 5).Page(1))
	assert.Error(t, err)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
