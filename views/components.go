package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/sshear/devsite/theme"
)

// writer accumulates the first write error so components read top to
// bottom like markup.
type writer struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (h *writer) raw(s ...string) {
	for _, part := range s {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, part)
	}
}

func (h *writer) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *writer) attr(name, value string) {
	h.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

func (h *writer) child(c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(h.ctx, h.w)
	}
}

func component(fn func(h *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &writer{ctx: ctx, w: w}
		fn(h)
		return h.err
	})
}

// Layout wraps body in the document shell. The <html> element carries the
// theme class from chrome.
func Layout(chrome Chrome, meta PageMeta, body templ.Component) templ.Component {
	return component(func(h *writer) {
		title := chrome.Site.Title
		if meta.Title != "" && meta.Title != chrome.Site.Title {
			title = meta.Title + " | " + chrome.Site.Title
		}
		description := meta.Description
		if description == "" {
			description = chrome.Site.Description
		}

		h.raw("<!DOCTYPE html>\n<html lang=\"en\"")
		if chrome.RootClass != "" {
			h.attr("class", chrome.RootClass)
		}
		h.raw(`><head><meta charset="utf-8"/><meta name="viewport" content="width=device-width, initial-scale=1"/><title>`)
		h.text(title)
		h.raw("</title>")
		if description != "" {
			h.raw(`<meta name="description"`)
			h.attr("content", description)
			h.raw("/>")
		}
		h.raw(`<meta name="author"`)
		h.attr("content", chrome.Site.Author)
		h.raw(`/><link rel="icon" href="/favicon.svg" type="image/svg+xml"/>`)
		h.raw(`<link rel="stylesheet" href="/assets/site.css"/><link rel="stylesheet" href="/assets/syntax.css"/>`)
		h.raw(`<link rel="alternate" type="application/rss+xml" href="/feed.xml"`)
		h.attr("title", chrome.Site.Title)
		h.raw(`/></head><body><header class="site-header"><nav><a class="site-title" href="/">`)
		h.text(chrome.Site.Title)
		h.raw("</a>")
		if chrome.Site.LightAndDarkMode {
			h.child(ThemeToggle(chrome))
		}
		h.raw(`</nav></header><main class="site-main">`)
		h.child(body)
		h.raw(`</main><footer class="site-footer">&copy; `)
		h.text(chrome.Site.Author)
		h.raw("</footer></body></html>")
	})
}

// ThemeToggle renders the button that flips between light and dark. It is a
// plain form so it works without scripts.
func ThemeToggle(chrome Chrome) templ.Component {
	return component(func(h *writer) {
		h.raw(`<form class="theme-toggle" method="post" action="/theme"><input type="hidden" name="_csrf"`)
		h.attr("value", chrome.CSRFToken)
		h.raw(`/><input type="hidden" name="next"`)
		h.attr("value", chrome.Path)
		h.raw(`/><button type="submit"`)
		h.attr("data-theme", chrome.Theme.String())
		h.raw(">")
		if chrome.Theme == theme.Dark {
			h.raw(sunIcon)
		} else {
			h.raw(moonIcon)
		}
		h.raw(`<span class="sr-only">Toggle Theme</span></button></form>`)
	})
}

const moonIcon = `<svg class="icon icon-moon" width="16" height="16" viewBox="0 0 16 16" aria-hidden="true"><path fill="currentColor" d="M9.6 1.1a.75.75 0 0 1 .8-.2 7.5 7.5 0 1 1-9.5 9.5.75.75 0 0 1 1-.9A6 6 0 0 0 9.8 2.1a.75.75 0 0 1-.2-1Z"/></svg>`

const sunIcon = `<svg class="icon icon-sun" width="16" height="16" viewBox="0 0 16 16" aria-hidden="true"><circle cx="8" cy="8" r="3.25" fill="currentColor"/><path stroke="currentColor" stroke-width="1.5" stroke-linecap="round" d="M8 .75v1.5M8 13.75v1.5M.75 8h1.5M13.75 8h1.5M2.9 2.9l1.06 1.06M12.04 12.04l1.06 1.06M2.9 13.1l1.06-1.06M12.04 3.96l1.06-1.06"/></svg>`

// PostList renders one link per entry, in the order given.
func PostList(entries []PostEntry) templ.Component {
	return component(func(h *writer) {
		h.raw(`<div class="post-list">`)
		for _, e := range entries {
			h.raw(`<a class="post-card"`)
			h.attr("data-key", e.Key)
			h.attr("href", e.Href)
			h.raw(`><span class="post-title">`)
			h.text(e.Title)
			h.raw(`</span><span class="post-author">`)
			h.text(e.Author)
			h.raw(`</span><time class="post-date"`)
			h.attr("datetime", e.Datetime)
			h.raw(">")
			h.text(e.Published)
			h.raw("</time></a>")
		}
		h.raw("</div>")
	})
}

// Pager links to the neighbouring pages of the post list.
func Pager(p Pagination) templ.Component {
	return component(func(h *writer) {
		if p.Pages <= 1 {
			return
		}
		h.raw(`<nav class="pager">`)
		if p.Page > 1 {
			h.raw(`<a rel="prev"`)
			h.attr("href", PageHref(p.Page-1))
			h.raw(">Newer</a>")
		}
		h.raw(`<span class="pager-status">`, strconv.Itoa(p.Page), " / ", strconv.Itoa(p.Pages), "</span>")
		if p.Page < p.Pages {
			h.raw(`<a rel="next"`)
			h.attr("href", PageHref(p.Page+1))
			h.raw(">Older</a>")
		}
		h.raw("</nav>")
	})
}

// Home is the landing page: site intro followed by one page of posts.
func Home(chrome Chrome, entries []PostEntry, p Pagination) templ.Component {
	body := component(func(h *writer) {
		h.raw(`<section class="intro"><h1>`)
		h.text(chrome.Site.Title)
		h.raw("</h1>")
		if chrome.Site.Description != "" {
			h.raw("<p>")
			h.text(chrome.Site.Description)
			h.raw("</p>")
		}
		h.raw(`</section><section class="posts"><h2>Posts</h2>`)
		if len(entries) == 0 {
			h.raw(`<p class="empty">Nothing here yet.</p>`)
		}
		h.child(PostList(entries))
		h.child(Pager(p))
		h.raw("</section>")
	})
	meta := PageMeta{Title: chrome.Site.Title}
	if p.Page > 1 {
		meta.Title = "Page " + strconv.Itoa(p.Page)
	}
	return Layout(chrome, meta, body)
}

// Post renders a single article.
func Post(chrome Chrome, a Article) templ.Component {
	body := component(func(h *writer) {
		h.raw(`<article class="post"><header><h1>`)
		h.text(a.Title)
		h.raw(`</h1><p class="post-meta"><span class="post-author">`)
		h.text(a.Author)
		h.raw(`</span> &middot; <time class="post-date"`)
		h.attr("datetime", a.Datetime)
		h.raw(">")
		h.text(a.Published)
		h.raw(`</time></p></header><div class="prose">`)
		h.child(a.Body)
		h.raw("</div></article>")
	})
	return Layout(chrome, PageMeta{Title: a.Title}, body)
}

// NotFound is the 404 page.
func NotFound(chrome Chrome) templ.Component {
	return Layout(chrome, PageMeta{Title: "Not found"}, component(func(h *writer) {
		h.raw(`<section class="error"><h1>404</h1><p>That page does not exist.</p><a href="/">Back home</a></section>`)
	}))
}

// ServerError is the 5xx page.
func ServerError(chrome Chrome) templ.Component {
	return Layout(chrome, PageMeta{Title: "Error"}, component(func(h *writer) {
		h.raw(`<section class="error"><h1>Something went wrong</h1><p>Try again in a moment.</p></section>`)
	}))
}
