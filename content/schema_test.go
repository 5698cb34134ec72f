package content

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewSchema("Sammy Shear")
	require.NoError(t, err)
	return s
}

func TestValidateDefaultsAuthor(t *testing.T) {
	s := newTestSchema(t)

	post, err := s.Validate("hello-world.md", map[string]interface{}{
		"title":         "Hello, world",
		"publishedTime": "2024-03-01",
	})
	require.NoError(t, err)

	assert.Equal(t, "hello-world.md", post.ID)
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, "Hello, world", post.Title)
	assert.Equal(t, "Sammy Shear", post.Author)
	assert.True(t, post.PublishedTime.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestValidateKeepsExplicitAuthor(t *testing.T) {
	s := newTestSchema(t)

	post, err := s.Validate("guest.md", map[string]interface{}{
		"title":         "Guest post",
		"author":        "Ada",
		"publishedTime": "2024-03-01T10:30:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", post.Author)
}

func TestValidateIgnoresUnknownFields(t *testing.T) {
	s := newTestSchema(t)

	_, err := s.Validate("extra.md", map[string]interface{}{
		"title":         "Extra",
		"publishedTime": "2024-03-01",
		"tags":          []interface{}{"go", "web"},
		"draft":         true,
		"meta":          map[interface{}]interface{}{1: "one"},
	})
	assert.NoError(t, err)
}

func TestValidateAcceptsDateFormats(t *testing.T) {
	s := newTestSchema(t)
	want := time.Date(2023, 12, 24, 18, 5, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value interface{}
	}{
		{"time value", want},
		{"rfc3339", "2023-12-24T18:05:00Z"},
		{"local datetime", "2023-12-24T18:05:00"},
		{"space separated", "2023-12-24 18:05:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := s.Validate("d.md", map[string]interface{}{
				"title":         "Dates",
				"publishedTime": tt.value,
			})
			require.NoError(t, err)
			assert.True(t, post.PublishedTime.Equal(want), "got %v", post.PublishedTime)
		})
	}
}

func TestValidateReportsEveryMissingField(t *testing.T) {
	s := newTestSchema(t)

	_, err := s.Validate("empty.md", map[string]interface{}{"summary": "no title here"})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "empty.md", verr.File)
	require.Len(t, verr.Errors, 2)
	assert.Equal(t, FieldError{Field: FieldTitle, Message: "is required"}, verr.Errors[0])
	assert.Equal(t, FieldError{Field: FieldPublishedTime, Message: "is required"}, verr.Errors[1])
	assert.Contains(t, err.Error(), "empty.md")
}

func TestValidateNilFrontMatter(t *testing.T) {
	s := newTestSchema(t)

	_, err := s.Validate("bare.md", nil)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has(FieldTitle))
	assert.True(t, verr.Has(FieldPublishedTime))
}

func TestValidateRejectsWrongTypes(t *testing.T) {
	s := newTestSchema(t)

	tests := []struct {
		name  string
		fm    map[string]interface{}
		field string
	}{
		{
			name:  "numeric title",
			fm:    map[string]interface{}{"title": 42, "publishedTime": "2024-01-01"},
			field: FieldTitle,
		},
		{
			name:  "list author",
			fm:    map[string]interface{}{"title": "t", "author": []interface{}{"a", "b"}, "publishedTime": "2024-01-01"},
			field: FieldAuthor,
		},
		{
			name:  "null author",
			fm:    map[string]interface{}{"title": "t", "author": nil, "publishedTime": "2024-01-01"},
			field: FieldAuthor,
		},
		{
			name:  "unparseable date",
			fm:    map[string]interface{}{"title": "t", "publishedTime": "last tuesday"},
			field: FieldPublishedTime,
		},
		{
			name:  "numeric date",
			fm:    map[string]interface{}{"title": "t", "publishedTime": 20240101},
			field: FieldPublishedTime,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Validate("bad.md", tt.fm)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			require.Len(t, verr.Errors, 1)
			assert.Equal(t, tt.field, verr.Errors[0].Field)
		})
	}
}

func TestValidateOrdersErrorsByField(t *testing.T) {
	s := newTestSchema(t)

	_, err := s.Validate("bad.md", map[string]interface{}{
		"publishedTime": "soon",
		"author":        7,
		"title":         false,
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Errors, 3)
	assert.Equal(t, FieldTitle, verr.Errors[0].Field)
	assert.Equal(t, FieldAuthor, verr.Errors[1].Field)
	assert.Equal(t, FieldPublishedTime, verr.Errors[2].Field)
}
