// Package scaffold creates a new site directory from embedded templates.
package scaffold

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

// Data holds the template variables passed to every scaffold template.
type Data struct {
	ProjectName string
	Title       string
	Author      string
	Today       string
}

// NewData derives template data from the project directory name.
func NewData(name, author string, now time.Time) Data {
	dir := filepath.Base(filepath.Clean(name))
	if author == "" {
		author = "Anonymous"
	}
	return Data{
		ProjectName: dir,
		Title:       ToTitle(dir),
		Author:      author,
		Today:       now.Format("2006-01-02"),
	}
}

// ToTitle converts a hyphenated or underscored name to a title-case string.
// e.g. "my-blog" -> "My Blog", "dev_site" -> "Dev Site"
func ToTitle(s string) string {
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
}

// Generate writes the scaffold into dir, which must not exist yet. Each
// created file is reported to out.
func Generate(dir string, data Data, out io.Writer) error {
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("scaffold: directory %q already exists", dir)
	}

	const root = "templates"
	return fs.WalkDir(Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, filepath.FromSlash(path))
		if err != nil {
			return err
		}
		outPath := strings.TrimSuffix(filepath.Join(dir, relPath), ".tmpl")
		switch filepath.Base(outPath) {
		case "dotenv":
			outPath = filepath.Join(filepath.Dir(outPath), ".env.example")
		case "gitignore":
			outPath = filepath.Join(filepath.Dir(outPath), ".gitignore")
		}

		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		src, err := Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("scaffold: read %s: %w", path, err)
		}
		tmpl, err := template.New(d.Name()).Parse(string(src))
		if err != nil {
			return fmt.Errorf("scaffold: parse %s: %w", path, err)
		}

		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("scaffold: create %s: %w", outPath, err)
		}
		defer f.Close()

		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("scaffold: execute %s: %w", path, err)
		}
		if out != nil {
			fmt.Fprintf(out, "  created %s\n", outPath)
		}
		return nil
	})
}
