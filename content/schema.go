// Package content loads the blog collection: Markdown files whose front
// matter is validated into Posts.
package content

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

// Post is a validated entry of the blog collection.
type Post struct {
	ID            string // collection-relative file name, e.g. "hello-world.md"
	Slug          string // ID without its extension
	Author        string
	Title         string
	PublishedTime time.Time
	Body          []byte // Markdown after the front matter
	SourcePath    string
}

// Recognized front matter keys.
const (
	FieldTitle         = "title"
	FieldAuthor        = "author"
	FieldPublishedTime = "publishedTime"
)

var fieldOrder = map[string]int{
	FieldTitle:         0,
	FieldAuthor:        1,
	FieldPublishedTime: 2,
}

// frontMatterSchema covers presence and types. publishedTime is left
// untyped here and parsed separately since YAML, TOML and JSON front matter
// each hand it over differently.
const frontMatterSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["title", "publishedTime"],
	"properties": {
		"title": {"type": "string"},
		"author": {"type": "string"},
		"publishedTime": {}
	}
}`

// dateLayouts are tried in order for textual publishedTime values.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FieldError is a single front matter violation.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in one file.
type ValidationError struct {
	File   string
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	sb.WriteString("invalid front matter: ")
	for i, fe := range e.Errors {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(fe.Field)
		sb.WriteString(" ")
		sb.WriteString(fe.Message)
	}
	return sb.String()
}

// Has reports whether field is among the violations.
func (e *ValidationError) Has(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Schema validates front matter of the blog collection.
type Schema struct {
	defaultAuthor string
	js            *gojsonschema.Schema
}

// NewSchema compiles the front matter schema. Posts without an author are
// attributed to defaultAuthor.
func NewSchema(defaultAuthor string) (*Schema, error) {
	js, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(frontMatterSchema))
	if err != nil {
		return nil, fmt.Errorf("content: compile schema: %w", err)
	}
	return &Schema{defaultAuthor: defaultAuthor, js: js}, nil
}

// Validate turns the raw front matter of the file identified by id into a
// Post. On failure the error is a *ValidationError naming every bad field.
// Keys other than title, author and publishedTime are ignored.
func (s *Schema) Validate(id string, fm map[string]interface{}) (Post, error) {
	doc := make(map[string]interface{}, len(fieldOrder))
	for key := range fieldOrder {
		if v, ok := fm[key]; ok {
			doc[key] = jsonValue(v)
		}
	}
	result, err := s.js.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return Post{}, fmt.Errorf("content: validate %s: %w", id, err)
	}

	verr := &ValidationError{File: id}
	for _, re := range result.Errors() {
		verr.Errors = append(verr.Errors, fieldError(re))
	}

	var published time.Time
	if raw, ok := fm[FieldPublishedTime]; ok {
		t, err := parseTime(raw)
		if err != nil {
			verr.Errors = append(verr.Errors, FieldError{Field: FieldPublishedTime, Message: err.Error()})
		}
		published = t
	}

	if len(verr.Errors) > 0 {
		sort.SliceStable(verr.Errors, func(i, j int) bool {
			return fieldOrder[verr.Errors[i].Field] < fieldOrder[verr.Errors[j].Field]
		})
		return Post{}, verr
	}

	author := s.defaultAuthor
	if v, ok := fm[FieldAuthor]; ok {
		author = v.(string)
	}
	return Post{
		ID:            id,
		Slug:          strings.TrimSuffix(id, path.Ext(id)),
		Author:        author,
		Title:         fm[FieldTitle].(string),
		PublishedTime: published,
	}, nil
}

func fieldError(re gojsonschema.ResultError) FieldError {
	switch re.Type() {
	case "required":
		field, _ := re.Details()["property"].(string)
		return FieldError{Field: field, Message: "is required"}
	case "invalid_type":
		return FieldError{
			Field:   re.Field(),
			Message: fmt.Sprintf("must be a %v, got %v", re.Details()["expected"], re.Details()["given"]),
		}
	default:
		return FieldError{Field: re.Field(), Message: re.Description()}
	}
}

// jsonValue reduces a decoded front matter value to something that
// marshals to JSON with the same shape.
func jsonValue(v interface{}) interface{} {
	switch x := v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case []interface{}:
		return []interface{}{}
	case map[string]interface{}, map[interface{}]interface{}:
		return map[string]interface{}{}
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func parseTime(v interface{}) (time.Time, error) {
	var s string
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		s = x
	case fmt.Stringer:
		// toml.LocalDate and toml.LocalDateTime.
		s = x.String()
	default:
		return time.Time{}, fmt.Errorf("must be a date, got %T", v)
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("must be a date, got %q", s)
}
