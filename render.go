package devsite

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render responds with cmp as a 200 HTML page.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus renders cmp in full before anything is sent. A component
// that fails leaves the response uncommitted, so the error handler can still
// answer with the error page instead of a truncated one.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	var buf bytes.Buffer
	if err := cmp.Render(c.Request().Context(), &buf); err != nil {
		return fmt.Errorf("devsite: render %s: %w", c.Request().URL.Path, err)
	}
	return c.HTMLBlob(code, buf.Bytes())
}
