package devsite

import (
	"context"
	"fmt"
	"time"

	"github.com/sshear/devsite/content"
)

// BuildResult summarises one build.
type BuildResult struct {
	Posts    int // rows in the index after the swap
	Duration time.Duration
}

func (a *App) loader() (*content.Loader, error) {
	if a.Loader != nil {
		return a.Loader, nil
	}
	schema, err := content.NewSchema(a.Config.Author)
	if err != nil {
		return nil, fmt.Errorf("devsite: compile post schema: %w", err)
	}
	a.Loader = &content.Loader{Dir: a.Config.ContentDir, Schema: schema, Log: a.Log}
	return a.Loader, nil
}

// Check loads and validates the whole collection without touching the
// index. The error lists every bad file.
func (a *App) Check(ctx context.Context) ([]content.Post, error) {
	l, err := a.loader()
	if err != nil {
		return nil, err
	}
	return l.Load(ctx)
}

// RenderPosts converts validated posts to their indexed form.
func (a *App) RenderPosts(posts []content.Post) ([]BlogPost, error) {
	out := make([]BlogPost, len(posts))
	for i, p := range posts {
		html, err := a.Markdown.Render(p.Body)
		if err != nil {
			return nil, fmt.Errorf("devsite: render %s: %w", p.ID, err)
		}
		out[i] = BlogPost{Post: p, HTML: html}
	}
	return out, nil
}

// Rebuild validates the collection, renders every post and swaps the index.
// On any failure the previous index stays in place. Rebuilds never overlap.
func (a *App) Rebuild(ctx context.Context) (BuildResult, error) {
	if a.Store == nil {
		return BuildResult{}, fmt.Errorf("devsite: rebuild before Setup")
	}
	a.buildMu.Lock()
	defer a.buildMu.Unlock()

	start := time.Now()
	posts, err := a.Check(ctx)
	if err != nil {
		return BuildResult{}, err
	}
	built, err := a.RenderPosts(posts)
	if err != nil {
		return BuildResult{}, err
	}
	if err := a.Store.ReplacePosts(ctx, built); err != nil {
		return BuildResult{}, fmt.Errorf("devsite: write index: %w", err)
	}
	a.Cache.Invalidate()

	n, err := a.Store.CountPosts(ctx)
	if err != nil {
		return BuildResult{}, fmt.Errorf("devsite: count index: %w", err)
	}
	res := BuildResult{Posts: n, Duration: time.Since(start)}
	a.Log.Infof("build: %d post(s) in %s", res.Posts, res.Duration.Round(time.Millisecond))
	return res, nil
}
