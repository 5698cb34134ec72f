package views

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sshear/devsite/content"
)

// DefaultDateLayout mirrors the en-US locale rendering of a timestamp.
const DefaultDateLayout = "1/2/2006, 3:04:05 PM"

// Format renders t in f's layout and location.
func (f DateFormat) Format(t time.Time) string {
	layout := f.Layout
	if layout == "" {
		layout = DefaultDateLayout
	}
	if f.Location != nil {
		t = t.In(f.Location)
	}
	return t.Format(layout)
}

// PostHref returns the link target of the post with the given slug.
func PostHref(slug string) string {
	segments := strings.Split(slug, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return "/posts/" + strings.Join(segments, "/")
}

// PageHref returns the link to page n of the post list.
func PageHref(n int) string {
	if n <= 1 {
		return "/"
	}
	return "/page/" + strconv.Itoa(n)
}

// PostEntries maps posts to list entries one-to-one, keeping their order.
func PostEntries(posts []content.Post, f DateFormat) []PostEntry {
	entries := make([]PostEntry, len(posts))
	for i, p := range posts {
		entries[i] = PostEntry{
			Key:       p.ID,
			Href:      PostHref(p.Slug),
			Title:     p.Title,
			Author:    p.Author,
			Published: f.Format(p.PublishedTime),
			Datetime:  p.PublishedTime.Format(time.RFC3339),
		}
	}
	return entries
}

// NewArticle builds the post page model.
func NewArticle(p content.Post, f DateFormat) Article {
	return Article{
		Title:     p.Title,
		Author:    p.Author,
		Published: f.Format(p.PublishedTime),
		Datetime:  p.PublishedTime.Format(time.RFC3339),
	}
}
