package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func newTestLoader(t *testing.T, dir string) *Loader {
	t.Helper()
	return &Loader{Dir: dir, Schema: newTestSchema(t), Concurrency: 2}
}

func TestLoadYAMLAndTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "first-post.md", "---\ntitle: First post\npublishedTime: 2024-01-05\n---\n# Hi\n")
	writeFile(t, dir, "second.markdown", "+++\ntitle = \"Second\"\nauthor = \"Ada\"\npublishedTime = 2024-02-10T08:00:00Z\n+++\nBody two\n")
	writeFile(t, dir, "notes.txt", "ignored")

	posts, err := newTestLoader(t, dir).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "first-post.md", posts[0].ID)
	assert.Equal(t, "first-post", posts[0].Slug)
	assert.Equal(t, "Sammy Shear", posts[0].Author)
	assert.Equal(t, "# Hi", strings.TrimSpace(string(posts[0].Body)))
	assert.Equal(t, filepath.Join(dir, "first-post.md"), posts[0].SourcePath)

	assert.Equal(t, "second.markdown", posts[1].ID)
	assert.Equal(t, "second", posts[1].Slug)
	assert.Equal(t, "Ada", posts[1].Author)
	assert.True(t, posts[1].PublishedTime.Equal(time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC)))
}

func TestLoadTOMLLocalDate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "local.md", "+++\ntitle = \"Local\"\npublishedTime = 2024-04-01\n+++\n")
	writeFile(t, dir, "local-time.md", "+++\ntitle = \"Local time\"\npublishedTime = 2024-04-01T10:00:00\n+++\n")

	posts, err := newTestLoader(t, dir).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)

	byID := map[string]Post{}
	for _, p := range posts {
		byID[p.ID] = p
	}
	assert.True(t, byID["local.md"].PublishedTime.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, byID["local-time.md"].PublishedTime.Equal(time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)))
}

func TestLoadNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2024/recap.md", "---\ntitle: Recap\npublishedTime: 2024-12-31\n---\n")

	posts, err := newTestLoader(t, dir).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "2024/recap.md", posts[0].ID)
	assert.Equal(t, "2024/recap", posts[0].Slug)
}

func TestLoadReportsEveryBadFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.md", "---\ntitle: Good\npublishedTime: 2024-01-01\n---\n")
	writeFile(t, dir, "no-title.md", "---\npublishedTime: 2024-01-01\n---\n")
	writeFile(t, dir, "no-front-matter.md", "just text\n")

	posts, err := newTestLoader(t, dir).Load(context.Background())
	require.Error(t, err)
	assert.Nil(t, posts)

	var lerr *LoadError
	require.True(t, errors.As(err, &lerr))
	require.Len(t, lerr.Errs, 2)

	var files []string
	for _, e := range lerr.Errs {
		var verr *ValidationError
		require.True(t, errors.As(e, &verr))
		files = append(files, verr.File)
	}
	assert.Equal(t, []string{"no-front-matter.md", "no-title.md"}, files)
	assert.Contains(t, err.Error(), "no-title.md: invalid front matter: title is required")
}

func TestLoadRejectsDuplicateSlugs(t *testing.T) {
	dir := t.TempDir()
	fm := "---\ntitle: Twin\npublishedTime: 2024-01-01\n---\n"
	writeFile(t, dir, "twin.md", fm)
	writeFile(t, dir, "twin.markdown", fm)

	_, err := newTestLoader(t, dir).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `slug "twin" already used`)
}

func TestLoadMissingDirectory(t *testing.T) {
	l := newTestLoader(t, filepath.Join(t.TempDir(), "missing"))
	_, err := l.Load(context.Background())
	assert.Error(t, err)
}

func TestLoadCanceledContext(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "---\ntitle: A\npublishedTime: 2024-01-01\n---\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestLoader(t, dir).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
