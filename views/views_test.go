package views

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sshear/devsite/content"
	"github.com/sshear/devsite/theme"
)

func render(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func samplePosts(n int) []content.Post {
	posts := make([]content.Post, n)
	base := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	for i := range posts {
		posts[i] = content.Post{
			ID:            fmt.Sprintf("post-%d.md", i),
			Slug:          fmt.Sprintf("post-%d", i),
			Title:         fmt.Sprintf("Post %d", i),
			Author:        "Sammy Shear",
			PublishedTime: base.AddDate(0, 0, -i),
		}
	}
	return posts
}

func TestPostEntriesKeepOrderAndCount(t *testing.T) {
	posts := samplePosts(5)
	// Deliberately not in date order: the list must not re-sort.
	posts[0], posts[3] = posts[3], posts[0]

	entries := PostEntries(posts, DateFormat{})
	require.Len(t, entries, len(posts))
	for i, e := range entries {
		assert.Equal(t, posts[i].ID, e.Key)
		assert.Equal(t, "/posts/"+posts[i].Slug, e.Href)
		assert.Equal(t, posts[i].Title, e.Title)
	}
}

func TestPostEntriesKeepDuplicates(t *testing.T) {
	p := samplePosts(1)[0]
	entries := PostEntries([]content.Post{p, p}, DateFormat{})
	assert.Len(t, entries, 2)
}

func TestPostListRendersEveryEntry(t *testing.T) {
	posts := samplePosts(3)
	doc := render(t, PostList(PostEntries(posts, DateFormat{})))

	links := doc.Find("a.post-card")
	require.Equal(t, 3, links.Length())
	links.Each(func(i int, s *goquery.Selection) {
		key, _ := s.Attr("data-key")
		href, _ := s.Attr("href")
		assert.Equal(t, posts[i].ID, key)
		assert.Equal(t, "/posts/"+posts[i].Slug, href)
		assert.Equal(t, posts[i].Title, s.Find(".post-title").Text())
		assert.Equal(t, "Sammy Shear", s.Find(".post-author").Text())
	})
	assert.Equal(t, "1/1/2024, 9:30:00 AM", links.First().Find("time").Text())
}

func TestPostListEscapesText(t *testing.T) {
	p := samplePosts(1)[0]
	p.Title = `<script>alert("x")</script>`
	var buf bytes.Buffer
	require.NoError(t, PostList(PostEntries([]content.Post{p}, DateFormat{})).Render(context.Background(), &buf))
	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

func TestDateFormatLocation(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	f := DateFormat{Layout: "2006-01-02 15:04", Location: loc}
	got := f.Format(time.Date(2024, 1, 1, 3, 0, 0, 0, time.UTC))
	assert.Equal(t, "2023-12-31 22:00", got)
}

func TestPostHrefEscapesSegments(t *testing.T) {
	assert.Equal(t, "/posts/2024/hello%20world", PostHref("2024/hello world"))
}

func TestLayoutAppliesRootClassAndToggle(t *testing.T) {
	chrome := Chrome{
		Site:      Site{Title: "sshear.dev", Author: "Sammy Shear", LightAndDarkMode: true},
		Path:      "/posts/a",
		Theme:     theme.Dark,
		RootClass: "dark",
		CSRFToken: "tok",
	}
	doc := render(t, Home(chrome, nil, Pagination{Page: 1, Pages: 1}))

	class, _ := doc.Find("html").Attr("class")
	assert.Equal(t, "dark", class)
	form := doc.Find("form.theme-toggle")
	require.Equal(t, 1, form.Length())
	csrf, _ := form.Find(`input[name="_csrf"]`).Attr("value")
	next, _ := form.Find(`input[name="next"]`).Attr("value")
	assert.Equal(t, "tok", csrf)
	assert.Equal(t, "/posts/a", next)
	assert.Equal(t, 1, form.Find("svg.icon-sun").Length())
	assert.Equal(t, "Toggle Theme", strings.TrimSpace(form.Find(".sr-only").Text()))
}

func TestLayoutWithoutThemeSwitching(t *testing.T) {
	chrome := Chrome{Site: Site{Title: "sshear.dev", Author: "Sammy Shear"}}
	doc := render(t, Home(chrome, nil, Pagination{Page: 1, Pages: 1}))

	assert.Equal(t, 0, doc.Find("form.theme-toggle").Length())
	_, hasClass := doc.Find("html").Attr("class")
	assert.False(t, hasClass)
	assert.Equal(t, "Nothing here yet.", doc.Find("p.empty").Text())
}

func TestPager(t *testing.T) {
	doc := render(t, Pager(Pagination{Page: 2, Pages: 3}))
	prev, _ := doc.Find(`a[rel="prev"]`).Attr("href")
	next, _ := doc.Find(`a[rel="next"]`).Attr("href")
	assert.Equal(t, "/", prev)
	assert.Equal(t, "/page/3", next)

	var buf bytes.Buffer
	require.NoError(t, Pager(Pagination{Page: 1, Pages: 1}).Render(context.Background(), &buf))
	assert.Empty(t, buf.String())
}

func TestPostPage(t *testing.T) {
	p := samplePosts(1)[0]
	a := NewArticle(p, DateFormat{})
	a.Body = templ.Raw("<p>body text</p>")
	doc := render(t, Post(Chrome{Site: Site{Title: "sshear.dev"}}, a))

	assert.Equal(t, "Post 0 | sshear.dev", doc.Find("title").Text())
	assert.Equal(t, "Post 0", doc.Find("article h1").Text())
	assert.Equal(t, "body text", doc.Find(".prose p").Text())
}
