package content

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Formats are the front matter delimiters the loader understands.
var Formats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yaml.Unmarshal),
	frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
}

// Logger receives progress messages.
type Logger interface {
	Infof(format string, args ...interface{})
}

// Loader reads every post of a collection directory.
type Loader struct {
	Dir         string
	Schema      *Schema
	Log         Logger
	Concurrency int // defaults to GOMAXPROCS
}

// LoadError lists every file that could not be loaded.
type LoadError struct {
	Dir  string
	Errs []error
}

func (e *LoadError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "content: %d problem(s) in %s:", len(e.Errs), e.Dir)
	for _, err := range e.Errs {
		sb.WriteString("\n  - ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

func (e *LoadError) Unwrap() []error {
	return e.Errs
}

// IsContentFile reports whether name is a Markdown file the loader picks up.
func IsContentFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Load reads, parses and validates every content file under l.Dir. Any
// failing file fails the whole load; the returned *LoadError names each one.
// Posts come back ordered by ID.
func (l *Loader) Load(ctx context.Context) ([]Post, error) {
	ids, err := l.list()
	if err != nil {
		return nil, err
	}

	posts := make([]Post, len(ids))
	errs := make([]error, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	limit := l.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			posts[i], errs[i] = l.LoadFile(id)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lerr := &LoadError{Dir: l.Dir}
	for _, err := range errs {
		if err != nil {
			lerr.Errs = append(lerr.Errs, err)
		}
	}
	if len(lerr.Errs) == 0 {
		bySlug := make(map[string]string, len(posts))
		for _, p := range posts {
			if prev, ok := bySlug[p.Slug]; ok {
				lerr.Errs = append(lerr.Errs, fmt.Errorf("%s: slug %q already used by %s", p.ID, p.Slug, prev))
				continue
			}
			bySlug[p.Slug] = p.ID
		}
	}
	if len(lerr.Errs) > 0 {
		return nil, lerr
	}

	if l.Log != nil {
		l.Log.Infof("content: loaded %d post(s) from %s", len(posts), l.Dir)
	}
	return posts, nil
}

// LoadFile reads and validates the post with the given collection-relative
// ID.
func (l *Loader) LoadFile(id string) (Post, error) {
	src := filepath.Join(l.Dir, filepath.FromSlash(id))
	data, err := os.ReadFile(src)
	if err != nil {
		return Post{}, fmt.Errorf("%s: %w", id, err)
	}

	var fm map[string]interface{}
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm, Formats...)
	if err != nil {
		return Post{}, &ValidationError{
			File:   id,
			Errors: []FieldError{{Field: "(front matter)", Message: err.Error()}},
		}
	}

	post, err := l.Schema.Validate(id, fm)
	if err != nil {
		return Post{}, err
	}
	post.Body = body
	post.SourcePath = src
	return post, nil
}

func (l *Loader) list() ([]string, error) {
	var ids []string
	err := filepath.WalkDir(l.Dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsContentFile(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(l.Dir, p)
		if err != nil {
			return err
		}
		ids = append(ids, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("content: walk %s: %w", l.Dir, err)
	}
	sort.Strings(ids)
	return ids, nil
}
