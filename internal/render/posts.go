// Package render turns pages of posts into HTML fragments and the
// incremental-loading payload built around them.
package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"scribe/internal/models"

	"github.com/a-h/templ"
)

// excerptWords is how many words of content a post card shows.
const excerptWords = 30

// Renderer serializes page items into an HTML chunk.
type Renderer interface {
	RenderPosts(ctx context.Context, posts []models.Post) (string, error)
}

// HTMLRenderer renders posts as <article> cards.
type HTMLRenderer struct{}

// NewHTMLRenderer returns the default post renderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

func (r *HTMLRenderer) RenderPosts(ctx context.Context, posts []models.Post) (string, error) {
	var buf bytes.Buffer
	if err := PostList(posts).Render(ctx, &buf); err != nil {
		return "", fmt.Errorf("render posts: %w", err)
	}
	return buf.String(), nil
}

// PostList renders each post card in order.
func PostList(posts []models.Post) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for i := range posts {
			if err := PostCard(&posts[i]).Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// PostCard renders one post: title link, byline, tags and a content excerpt.
func PostCard(p *models.Post) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<article class="post" id="post-%d">`, p.ID)
		fmt.Fprintf(&b, `<h2><a href="/posts/%d">%s</a></h2>`, p.ID, templ.EscapeString(p.Title))
		fmt.Fprintf(&b, `<p class="byline">by %s on <time datetime="%s">%s</time></p>`,
			templ.EscapeString(p.User.Username),
			p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			p.CreatedAt.UTC().Format("Jan 2, 2006"))
		if len(p.Tags) > 0 {
			b.WriteString(`<ul class="tags">`)
			for _, t := range p.Tags {
				fmt.Fprintf(&b, `<li><a href="/tags/%s">%s</a></li>`,
					templ.EscapeString(t.Slug), templ.EscapeString(t.Name))
			}
			b.WriteString(`</ul>`)
		}
		if p.ImageURL != "" {
			fmt.Fprintf(&b, `<img src="%s" alt="%s">`,
				templ.EscapeString(string(templ.URL(p.ImageURL))), templ.EscapeString(p.Title))
		}
		fmt.Fprintf(&b, `<p class="excerpt">%s</p>`, templ.EscapeString(Excerpt(p.Content, excerptWords)))
		b.WriteString(`</article>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Excerpt keeps the first n words of s, appending an ellipsis when it cut anything.
func Excerpt(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + " …"
}
