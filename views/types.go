package views

import (
	"time"

	"github.com/a-h/templ"

	"github.com/sshear/devsite/theme"
)

// Site is the read-only slice of the site configuration templates see.
type Site struct {
	Title            string
	Author           string
	Description      string
	LightAndDarkMode bool
	PostPerPage      int
}

// PageMeta carries per-page metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
}

// Chrome is the per-request data the layout needs around every page.
type Chrome struct {
	Site      Site
	Path      string      // request path, used to come back after a theme toggle
	Theme     theme.Theme // active theme
	RootClass string      // class attribute of <html>
	CSRFToken string
}

// PostEntry is one rendered line of the post list.
type PostEntry struct {
	Key       string // unique post id
	Href      string
	Title     string
	Author    string
	Published string // locale rendering of the publication time
	Datetime  string // machine-readable publication time
}

// Article is a single post page.
type Article struct {
	Title     string
	Author    string
	Published string
	Datetime  string
	Body      templ.Component
}

// Pagination describes where a post list page sits.
type Pagination struct {
	Page  int // 1-based
	Pages int
}

// DateFormat renders publication times the way the site's locale does.
type DateFormat struct {
	Layout   string
	Location *time.Location
}
