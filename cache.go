package devsite

import (
	"context"
	"sync"
	"time"
)

// PostCache is an in-memory copy of the index with a TTL.
type PostCache struct {
	mu      sync.RWMutex
	posts   []BlogPost
	bySlug  map[string]int
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.bySlug != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.bySlug = nil
	c.mu.Unlock()
}

func (c *PostCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	posts, err := c.store.ListPosts(ctx)
	if err != nil {
		return err
	}
	bySlug := make(map[string]int, len(posts))
	for i, p := range posts {
		bySlug[p.Slug] = i
	}
	c.posts = posts
	c.bySlug = bySlug
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns the cached posts after making sure they are fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ensureLoaded(ctx context.Context) ([]BlogPost, map[string]int, error) {
	c.mu.RLock()
	if c.valid() {
		posts, bySlug := c.posts, c.bySlug
		c.mu.RUnlock()
		return posts, bySlug, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, nil, err
	}
	return c.posts, c.bySlug, nil
}

// ListPosts returns every post, newest first. The slice is shared; callers
// must not modify it.
func (c *PostCache) ListPosts(ctx context.Context) ([]BlogPost, error) {
	posts, _, err := c.ensureLoaded(ctx)
	return posts, err
}

// GetPost returns a single post by slug from the cache.
func (c *PostCache) GetPost(ctx context.Context, slug string) (BlogPost, error) {
	posts, bySlug, err := c.ensureLoaded(ctx)
	if err != nil {
		return BlogPost{}, err
	}
	i, ok := bySlug[slug]
	if !ok {
		return BlogPost{}, ErrNotFound
	}
	return posts[i], nil
}

// Page returns the n-th (1-based) page of size posts and the total page
// count. There is always at least one page. A page past the end yields
// ErrNotFound.
func (c *PostCache) Page(ctx context.Context, n, size int) ([]BlogPost, int, error) {
	posts, _, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, 0, err
	}
	if size < 1 {
		size = 1
	}
	pages := (len(posts) + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if n < 1 || n > pages {
		return nil, pages, ErrNotFound
	}
	start := (n - 1) * size
	end := min(start+size, len(posts))
	return posts[start:end], pages, nil
}
