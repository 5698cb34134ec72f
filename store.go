package devsite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sshear/devsite/content"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("devsite: post not found")

// Store wraps the SQLite index of built posts. Every build replaces the
// whole table; readers never see a half-written index.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("devsite: create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the server read while a rebuild writes; writers wait on the
	// busy timeout instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	if path == ":memory:" {
		// each connection would get its own empty database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(4)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    author TEXT NOT NULL,
    published_time TEXT NOT NULL,
    html TEXT NOT NULL,
    source_path TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS posts_published_time ON posts (published_time DESC, id);
`)
	return err
}

// ReplacePosts swaps the index content for posts inside one transaction.
func (s *Store) ReplacePosts(ctx context.Context, posts []BlogPost) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO posts (id, slug, title, author, published_time, html, source_path) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, p := range posts {
		if _, err := stmt.ExecContext(ctx, p.ID, p.Slug, p.Title, p.Author, formatTime(p.PublishedTime), p.HTML, p.SourcePath); err != nil {
			return fmt.Errorf("devsite: index %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

const postColumns = `id, slug, title, author, published_time, html, source_path`

// ListPosts returns every post, newest first.
func (s *Store) ListPosts(ctx context.Context) ([]BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts ORDER BY published_time DESC, id`)
	if err != nil {
		return nil, err
	}
	return scanPosts(rows)
}

// CountPosts returns the number of indexed posts. Rebuild reports it as
// the size of the new index.
func (s *Store) CountPosts(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}

// GetPost returns a single post by slug.
func (s *Store) GetPost(ctx context.Context, slug string) (BlogPost, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return BlogPost{}, ErrNotFound
	}
	return p, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(r scanner) (BlogPost, error) {
	var (
		p         BlogPost
		published string
	)
	if err := r.Scan(&p.ID, &p.Slug, &p.Title, &p.Author, &published, &p.HTML, &p.SourcePath); err != nil {
		return BlogPost{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, published)
	if err != nil {
		return BlogPost{}, fmt.Errorf("devsite: post %s: bad published_time %q: %w", p.ID, published, err)
	}
	p.PublishedTime = t
	return p, nil
}

func scanPosts(rows *sql.Rows) ([]BlogPost, error) {
	defer rows.Close()
	var posts []BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// storedTimeLayout sorts lexically in time order: UTC with a fixed-width
// fraction.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

// Posts converts index rows back to plain content posts, e.g. for the list
// renderer.
func Posts(posts []BlogPost) []content.Post {
	out := make([]content.Post, len(posts))
	for i, p := range posts {
		out[i] = p.Post
	}
	return out
}
