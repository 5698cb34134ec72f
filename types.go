package devsite

import (
	"github.com/sshear/devsite/content"
	"github.com/sshear/devsite/views"
)

// BlogPost is a validated post together with its rendered body. It is the
// unit the index store holds.
type BlogPost struct {
	content.Post
	HTML string
}

// Link returns the post's URL path.
func (p BlogPost) Link() string {
	return views.PostHref(p.Slug)
}
